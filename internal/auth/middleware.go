package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/card-directory/internal/domain"
)

const (
	// TokenHeader carries the identity token.
	TokenHeader = "x-auth-token"

	claimsKey     = "auth_claims"
	tokenErrorKey = "auth_token_error"
)

// AuthMiddleware verifies the identity token when one is presented.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle stores verified claims on the request and never rejects it. A token
// that fails verification is remembered so that Require can answer
// InvalidToken on routes that need claims; public routes see no claims.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Get(TokenHeader))
	if raw == "" {
		return c.Next()
	}

	claims, err := m.tokens.Verify(raw)
	if err != nil {
		c.Locals(tokenErrorKey, true)
		return c.Next()
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext returns the verified claims, or nil when the request
// carried no valid token.
func ClaimsFromContext(c *fiber.Ctx) *domain.Claims {
	claims, ok := c.Locals(claimsKey).(*domain.Claims)
	if !ok {
		return nil
	}
	return claims
}

func invalidTokenPresented(c *fiber.Ctx) bool {
	bad, _ := c.Locals(tokenErrorKey).(bool)
	return bad
}
