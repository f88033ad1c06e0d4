package middleware

import (
	"strconv"
	"time"

	"catalog/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics is a Fiber middleware recording request counts and latency.
// Errors returned further down the chain are passed to the app's error
// handler first so the recorded status is the one sent to the client.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := c.Route().Path
		method := c.Method()
		status := strconv.Itoa(c.Response().StatusCode())

		m.HTTPRequests.WithLabelValues(method, route, status).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return nil
	}
}
