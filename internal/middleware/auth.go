package middleware

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/config"
	"taskboard/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// UseToken verifies the bearer token and resolves the principal against the
// users table, so a deleted account is rejected even with a live token.
// On success locals carry userID, userName, email and role.
func UseToken(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No token provided", "success": false, "status": 401})
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token format", "success": false, "status": 401})
	}
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return config.SecretKey, nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token", "success": false, "status": 401})
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token claims", "success": false, "status": 401})
	}
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < time.Now().Unix() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token expired", "success": false, "status": 401})
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid subject in token", "success": false, "status": 401})
	}

	var (
		name  string
		email string
		role  string
	)
	err = config.DB.QueryRow("SELECT name, email, role FROM users WHERE id = $1", int(sub)).Scan(&name, &email, &role)
	if err != nil {
		logger.SecurityLogger.Warn("Token for unknown user", zap.Int("user_id", int(sub)))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "User not found", "success": false, "status": 401})
	}

	c.Locals("userID", int(sub))
	c.Locals("userName", name)
	c.Locals("email", email)
	c.Locals("role", role)
	return c.Next()
}

// RequireAdmin gates an endpoint to principals with the admin role. Must run
// after UseToken.
func RequireAdmin(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != "admin" {
		logger.SecurityLogger.Warn("Forbidden", zap.String("role", role), zap.String("url", c.OriginalURL()))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden", "success": false, "status": 403})
	}
	return c.Next()
}
