package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PingFunc checks that a backing dependency is reachable.
type PingFunc func(ctx context.Context) error

// HealthHandler reports whether the service and its store are reachable.
type HealthHandler struct {
	ping    PingFunc
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler. A nil ping always reports healthy.
func NewHealthHandler(ping PingFunc) *HealthHandler {
	return &HealthHandler{ping: ping, timeout: 2 * time.Second}
}

// RegisterRoutes registers the health route.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	store := "connected"
	status := fiber.StatusOK
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			store = "unreachable"
			status = fiber.StatusServiceUnavailable
		}
	}

	healthy := "healthy"
	if status != fiber.StatusOK {
		healthy = "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": healthy,
		"time":   time.Now().Format(time.RFC3339),
		"store":  store,
	})
}
