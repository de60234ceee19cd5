package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics collector, creating it on first use.
// Prometheus rejects duplicate registrations, so every app in the process shares one.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware registers GET /metrics on app and instruments every request.
func MetricsMiddleware(app *fiber.App, serviceName string) {
	p := InitMetrics(serviceName)
	p.RegisterAt(app, "/metrics")
	app.Use(p.Middleware)
}
