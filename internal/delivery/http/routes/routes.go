package routes

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"

	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	v1 "talent-match/internal/delivery/http/routes/v1"
	"talent-match/internal/ws"
)

type Registry struct {
	Health        *handler.HealthHandler
	Auth          *middleware.AuthMiddleware
	V1            v1.Handlers
	Notifications *ws.Handler
	Recordings    *ws.RecordingStream

	// FilesDir is served read-only under /files when set.
	FilesDir string
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerFiles(app)
	r.registerWebsockets(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerFiles(app *fiber.App) {
	if r.FilesDir == "" {
		return
	}
	app.Get("/files/*", static.New(r.FilesDir, static.Config{Browse: false}))
}

func (r *Registry) registerWebsockets(app *fiber.App) {
	if r.Notifications != nil {
		app.Get("/ws", r.Notifications.HandleNotifications)
	}
	if r.Recordings != nil {
		app.Get("/ws/recordings/:id", r.Recordings.HandleRecording)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.Auth, r.V1)
}
