package ws

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"

	"talent-match/internal/domain/user"
)

// Authenticator turns an access token into the caller's identity.
type Authenticator interface {
	Authenticate(token string) (user.AuthContext, error)
}

type Handler struct {
	hub    *Hub
	auth   Authenticator
	logger *log.Logger
}

func NewHandler(hub *Hub, auth Authenticator, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{hub: hub, auth: auth, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleNotifications upgrades to a websocket for the user named by the
// access token in the token query parameter.
func (h *Handler) HandleNotifications(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	auth, err := h.auth.Authenticate(c.Query("token"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("level=warn msg=ws_upgrade_failed err=%q", err.Error())
			return
		}

		client := NewClient(h.hub, conn, auth.UserID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
