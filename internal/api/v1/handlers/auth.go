package handlers

import (
	"database/sql"
	"time"

	"taskboard/internal/config"
	"taskboard/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost for stored password hashes
const passwordHashCost = 12

// Auth handlers

// Register creates a user account. No token is issued here; clients log in
// afterwards to get one.
func Register(c *fiber.Ctx) error {
	type RegisterRequest struct {
		Name     string `json:"name" validate:"required,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error hashing password",
			"success": false,
			"status":  500,
		})
	}

	var userID int
	err = config.DB.QueryRow(
		"INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, 'user') RETURNING id",
		req.Name, req.Email, string(hashedPassword)).Scan(&userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				logger.SecurityLogger.Warn("Duplicate email", zap.String("email", req.Email))
				return c.Status(409).JSON(fiber.Map{
					"message": "Email already registered",
					"success": false,
					"status":  409,
				})
			}
		}
		logger.ErrorLogger.Error("Error creating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating user",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("User registered successfully", zap.Int("userID", userID))
	return c.Status(201).JSON(fiber.Map{
		"message": "User registered successfully",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"user_id":   userID,
			"user_name": req.Name,
			"role":      "user",
		},
	})
}

// Login checks credentials and issues a signed JWT. Unknown email and wrong
// password return the same 401 so accounts cannot be enumerated.
func Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	var user struct {
		ID           int
		Name         string
		Email        string
		PasswordHash string
		Role         string
	}

	err := config.DB.QueryRow(
		"SELECT id, name, email, password_hash, role FROM users WHERE email = $1",
		req.Email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		logger.SecurityLogger.Warn("Login with unknown email", zap.String("email", req.Email))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.SecurityLogger.Warn("Invalid password", zap.String("email", req.Email))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(config.JWTExpiry).Unix(),
	})

	tokenString, err := token.SignedString(config.SecretKey)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error generating token",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Login success", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return c.JSON(fiber.Map{
		"message": "Login success",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"user_id":      user.ID,
			"user_name":    user.Name,
			"role":         user.Role,
			"access_token": tokenString,
		},
	})
}

// Me returns the principal resolved by the token middleware.
func Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Current user",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"id":    c.Locals("userID"),
			"name":  c.Locals("userName"),
			"email": c.Locals("email"),
			"role":  c.Locals("role"),
		},
	})
}

// DeleteAccount removes a user after re-checking their password. The cascade
// takes every owned workspace, board, list, task, assignee and comment with it.
func DeleteAccount(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("userId")
	if err != nil {
		logger.ErrorLogger.Error("Invalid user ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	type DeleteAccountRequest struct {
		Password string `json:"password" validate:"required"`
	}

	var req DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in delete account", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	var passwordHash string
	err = config.DB.QueryRow("SELECT password_hash FROM users WHERE id = $1", targetID).Scan(&passwordHash)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching user",
			"success": false,
			"status":  500,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		logger.SecurityLogger.Warn("Account deletion with wrong password", zap.Int("user_id", targetID))
		return c.Status(401).JSON(fiber.Map{
			"message": "Incorrect password",
			"success": false,
			"status":  401,
		})
	}

	if _, err := config.DB.Exec("DELETE FROM users WHERE id = $1", targetID); err != nil {
		logger.ErrorLogger.Error("Error deleting account", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting account",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, userCacheKey(targetID))

	logger.AuditLogger.Info("Account deleted", zap.Int("user_id", targetID))
	return c.JSON(fiber.Map{
		"message": "Account deleted successfully",
		"success": true,
		"status":  200,
	})
}
