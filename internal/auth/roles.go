package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/card-directory/internal/domain"
	apperrors "github.com/spec-kit/card-directory/pkg/util/errorutil"
)

// Require runs a claims-only policy before the handler, so that denied
// callers are rejected before their payload is parsed. A presented token that
// failed verification is rejected as InvalidToken.
func Require(policy func(*domain.Claims) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if invalidTokenPresented(c) {
			return apperrors.NewInvalidToken("invalid token")
		}
		if err := policy(ClaimsFromContext(c)); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireToken ensures the caller presented a valid token.
func RequireToken() fiber.Handler {
	return Require(requireClaims)
}
