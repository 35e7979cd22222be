package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"talent-match/internal/pkg/response"
)

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health fails only when the database is down. A missing cache is reported
// but the service still works without it.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	data := map[string]string{"database": "ok", "cache": "ok"}
	status := fiber.StatusOK
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			data["database"] = "unavailable"
			status = fiber.StatusServiceUnavailable
		}
	}
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		data["cache"] = "unavailable"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "service unavailable", data)
	}
	return response.Success(c, status, response.MessageOK, data)
}
