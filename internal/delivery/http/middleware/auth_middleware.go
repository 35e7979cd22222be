package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"talent-match/internal/domain/user"
	"talent-match/internal/pkg/jwt"
)

const CtxAuthKey = "auth"

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware decodes the bearer access token once and stores the resulting
// user.AuthContext in the request locals.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		auth, err := m.Authenticate(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxAuthKey, auth)
		return c.Next()
	}
}

// Authenticate validates an access token. Refresh tokens are rejected.
func (m *AuthMiddleware) Authenticate(token string) (user.AuthContext, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return user.AuthContext{}, err
	}
	if claims.TokenType != jwt.TokenTypeAccess || m.jwt.IsRefreshToken(claims) {
		return user.AuthContext{}, jwt.ErrTokenInvalid
	}
	role := user.Role(claims.Role)
	if !role.Valid() {
		return user.AuthContext{}, jwt.ErrTokenInvalid
	}
	return user.AuthContext{UserID: claims.UserID, Email: claims.Email, Role: role}, nil
}

// RequireRole rejects authenticated callers holding another role.
func RequireRole(role user.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		auth, ok := AuthFrom(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if auth.Role != role {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}
		return c.Next()
	}
}

func AuthFrom(c fiber.Ctx) (user.AuthContext, bool) {
	auth, ok := c.Locals(CtxAuthKey).(user.AuthContext)
	return auth, ok
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
