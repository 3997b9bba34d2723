package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ArshathNooh/Chat-application/config"
	"github.com/ArshathNooh/Chat-application/modules/broadcast"
	"github.com/ArshathNooh/Chat-application/modules/chat"
	"github.com/ArshathNooh/Chat-application/modules/stats"
)

// APIModule serves the static client, the WebSocket endpoint and the
// REST surface. All collaborators arrive through the constructor; the
// module holds no global state.
type APIModule struct {
	app    *fiber.App
	cfg    config.Config
	chat   *chat.Module
	hub    *broadcast.Hub
	stats  *stats.Module
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*APIModule)(nil)
	_ mono.HealthCheckableModule = (*APIModule)(nil)
)

// NewModule creates a new APIModule.
func NewModule(cfg config.Config, chatModule *chat.Module, hub *broadcast.Hub, statsModule *stats.Module, logger types.Logger) *APIModule {
	return &APIModule{
		cfg:    cfg,
		chat:   chatModule,
		hub:    hub,
		stats:  statsModule,
		logger: logger,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Start initializes and starts the Fiber server.
func (m *APIModule) Start(_ context.Context) error {
	m.app = fiber.New(fiber.Config{
		AppName:               "chat-application",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
		IdleTimeout:           120 * time.Second,
	})

	m.app.Use(recover.New())
	m.app.Use(m.loggerMiddleware())
	m.app.Use(cors.New(cors.Config{
		AllowOrigins: m.cfg.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	m.registerRoutes()

	addr := fmt.Sprintf(":%d", m.cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			errCh <- err
		}
	}()

	// Catch immediate startup failures such as a port already in use.
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", addr)
	return nil
}

// Stop gracefully shuts down the Fiber server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":              m.cfg.Port,
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// registerRoutes sets up all HTTP and WebSocket routes.
func (m *APIModule) registerRoutes() {
	m.app.Get("/health", m.healthHandler)

	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	api := m.app.Group("/api/v1")
	api.Get("/rooms", m.listRoomsHandler)
	api.Get("/stats", m.statsHandler)

	if m.cfg.StaticDir != "" {
		m.app.Static("/", m.cfg.StaticDir)
	}
}

// errorHandler handles Fiber errors globally.
func (m *APIModule) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	m.logger.Error("HTTP error", "code", code, "message", message)
	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}

// loggerMiddleware logs plain HTTP requests, skipping WebSocket
// upgrades whose lifetime is logged by the connection handler.
func (m *APIModule) loggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Upgrade") == "websocket" {
			return c.Next()
		}
		err := c.Next()
		m.logger.Debug("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode())
		return err
	}
}
