package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims are the claims carried by admin API tokens.
type AdminClaims struct {
	Subject string `json:"sub_name,omitempty"`
	jwt.RegisteredClaims
}

const AdminClaimsKey = "admin_claims"

// AuthMiddleware validates bearer JWTs on the admin endpoints. SkipAuth is
// the development escape hatch.
func AuthMiddleware(secret string, skipAuth bool) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		if skipAuth {
			c.Locals(AdminClaimsKey, &AdminClaims{Subject: "dev-admin"})
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(AdminClaimsKey, token.Claims.(*AdminClaims))
		return c.Next()
	}
}
