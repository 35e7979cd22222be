package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const CtxRequestIDKey = "request_id"

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("X-Request-ID", rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil && status < fiber.StatusBadRequest {
			// The error middleware sits outside; report what it will send.
			status = statusOf(err)
		}

		uid := "-"
		if auth, ok := AuthFrom(c); ok {
			uid = auth.UserID.String()
		}

		m.logger.Printf(
			"level=info msg=http_access rid=%s ip=%s method=%s path=%s status=%d latency=%s user_id=%s req_bytes=%d resp_bytes=%d ua=%q",
			rid, c.IP(), c.Method(), c.OriginalURL(), status, time.Since(start), uid,
			c.Request().Header.ContentLength(), len(c.Response().Body()), c.Get("User-Agent"),
		)

		return err
	}
}

func statusOf(err error) int {
	status, _, _ := normalizeError(err)
	return status
}
