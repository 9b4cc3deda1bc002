package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/skillified/skillified-api/internal/utils"
)

// Locals keys populated by the JWT middleware.
const (
	LocalsActorAddress = "actor_address"
	LocalsSessionID    = "session_id"
)

// JWTProtected validates bearer tokens issued by the wallet/provider layer.
// The token carries the caller's ledger address in the "address" claim and a
// session identifier in "jti"; roles are deliberately absent because role
// determination is a ledger capability check, not a token attribute.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		address := extractStringClaim(claims, "address", "sub")
		if address == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "token missing ledger address")
		}
		c.Locals(LocalsActorAddress, address)

		sessionID := extractStringClaim(claims, "jti", "sid")
		if sessionID == "" {
			// One workflow session per address when the provider issues no jti.
			sessionID = address
		}
		c.Locals(LocalsSessionID, sessionID)

		return c.Next()
	}
}

func extractStringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if str, ok := value.(string); ok {
				trimmed := strings.TrimSpace(str)
				if trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

// ActorAddress returns the authenticated ledger address bound to the request.
func ActorAddress(c *fiber.Ctx) string {
	if v := c.Locals(LocalsActorAddress); v != nil {
		if address, ok := v.(string); ok {
			return address
		}
	}
	return ""
}

// SessionID returns the workflow session identifier bound to the request.
func SessionID(c *fiber.Ctx) string {
	if v := c.Locals(LocalsSessionID); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
