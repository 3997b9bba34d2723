package main

import (
	"context"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/ArshathNooh/Chat-application/config"
	"github.com/ArshathNooh/Chat-application/modules/api"
	"github.com/ArshathNooh/Chat-application/modules/broadcast"
	"github.com/ArshathNooh/Chat-application/modules/chat"
	"github.com/ArshathNooh/Chat-application/modules/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	// The broadcast hub is the chat coordinator's transport, so the
	// broadcast module is built first and its hub injected into chat.
	broadcastModule := broadcast.NewModule(logger)
	chatModule := chat.NewModule(cfg.DefaultRoom, broadcastModule.Hub(), logger)
	statsModule := stats.NewModule(logger)
	apiModule := api.NewModule(cfg, chatModule, broadcastModule.Hub(), statsModule, logger)

	// Order: emitter first, then consumers, then the serving surface.
	app.Register(chatModule)
	app.Register(broadcastModule)
	app.Register(statsModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	logger.Info("Chat application started",
		"port", cfg.Port,
		"defaultRoom", cfg.DefaultRoom,
		"staticDir", cfg.StaticDir)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("Application exited", "code", exitCode)
	os.Exit(exitCode)
}
