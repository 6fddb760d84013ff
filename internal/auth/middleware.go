package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

const claimsKey = "auth_claims"

// Middleware enforces the bearer-token precondition and decodes the
// credential's claims for downstream handlers.
type Middleware struct{}

// NewMiddleware constructs middleware.
func NewMiddleware() *Middleware {
	return &Middleware{}
}

// Handle rejects requests without a usable bearer credential. Requests
// that pass carry decoded (unverified) claims in the request locals.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing or invalid token")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("missing or invalid token")
	}

	claims, err := DecodeUnverified(parts[1])
	if err != nil {
		return err
	}
	if claims.Email == "" {
		return apperrors.NewIdentityMissing()
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the decoded claims placed by Handle.
func ClaimsFromContext(c *fiber.Ctx) (*UnverifiedClaims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*UnverifiedClaims)
	return claims, ok
}

// RequireRole ensures the caller's declared role claim is one of the
// allowed roles. The role is taken from the unverified claims, so this
// is a routing guard, not an authentication check.
func RequireRole(allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[strings.ToLower(role)] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("missing or invalid token")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[strings.ToLower(claims.Role)]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
