package middleware

import (
	"github.com/freshtrio/backend/internal/config"
	"github.com/freshtrio/backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// ClaimSubject returns the subject (email) of the verified token stored by
// the JWT middleware, or "" when the route is unprotected.
func ClaimSubject(c *fiber.Ctx) string {
	claims, ok := tokenClaims(c)
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}

// ClaimRole returns the role claim of the verified token.
func ClaimRole(c *fiber.Ctx) string {
	claims, ok := tokenClaims(c)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

func tokenClaims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}
