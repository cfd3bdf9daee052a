package middleware

import (
	"secret-santa-backend/internal/config"
	"secret-santa-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(cfg.JWTSecret),
		ContextKey:   "session",
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token := c.Locals("session").(*jwt.Token)
			claims := token.Claims.(jwt.MapClaims)
			c.Locals("session_role", claims["role"])
			return c.Next()
		},
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return utils.Error(c, "Unauthorized", fiber.StatusUnauthorized)
}

func AdminOnly(c *fiber.Ctx) error {
	role, ok := c.Locals("session_role").(string)
	if !ok || role != "admin" {
		return utils.Error(c, "Admin access required", fiber.StatusForbidden)
	}
	return c.Next()
}
