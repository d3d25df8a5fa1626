package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"

	"mediamod/internal/config"
)

// AuthMiddleware gates the moderation API behind a static bearer token.
// Full user authentication is the platform's concern; this service only
// needs to keep the moderation surface off the open network.
type AuthMiddleware struct {
	token string
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{token: cfg.APIToken}
}

// RequireToken rejects requests without the configured bearer token.
// When no token is configured the gate is disabled.
func (m *AuthMiddleware) RequireToken(c fiber.Ctx) error {
	if m.token == "" {
		return c.Next()
	}

	auth := c.Get("Authorization")
	provided, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if subtle.ConstantTimeCompare([]byte(provided), []byte(m.token)) != 1 {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	return c.Next()
}
