package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Status exposes the bot's runtime counters for the status endpoint.
type Status interface {
	ActiveStates() int
	CachedIcons() int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, status Status, startedAt time.Time) {
	v1 := app.Group("/api/v1")

	v1.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"activeStates":  status.ActiveStates(),
			"cachedIcons":   status.CachedIcons(),
			"uptimeSeconds": int(time.Since(startedAt).Seconds()),
		})
	})
}
