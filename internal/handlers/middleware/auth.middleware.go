package middleware

import (
	"strings"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Actor identifies who performed a request, for audit notes and role
// gating. Tokens are issued and validated upstream; this middleware only
// verifies the signature and extracts claims.
type Actor struct {
	ID    string
	Role  string
	Email string
}

const (
	ActorKeyFiber = "Actor" // Fiber context key (string)

	RoleMember  = "member"
	RoleCleaner = "cleaner"
	RoleAdmin   = "admin"
)

// RequireAuth extracts the actor from a Bearer token. The gateway in
// front of this service has already authenticated the caller, so a
// signature check against the shared key is all that happens here.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireAuth")

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		tokenString := tokenParts[1]
		if tokenString == "" {
			log.Info("empty token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token required",
			})
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.Config.JWTSigningKey), nil
		})
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		actor := &Actor{
			ID:    claimString(claims, "sub"),
			Role:  claimString(claims, "role"),
			Email: claimString(claims, "email"),
		}
		if actor.ID == "" {
			log.Info("token missing subject claim")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(ActorKeyFiber, actor)
		return c.Next()
	}
}

// GetActor extracts the actor from Fiber context
func GetActor(c *fiber.Ctx) *Actor {
	actor, ok := c.Locals(ActorKeyFiber).(*Actor)
	if !ok {
		return nil
	}
	return actor
}

func claimString(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}
