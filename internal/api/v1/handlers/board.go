package handlers

import (
	"database/sql"

	"taskboard/internal/config"
	"taskboard/internal/models"
	"taskboard/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Board handlers

// CreateBoard creates a board after checking the parent workspace exists.
func CreateBoard(c *fiber.Ctx) error {
	type CreateBoardRequest struct {
		Title       string `json:"title" validate:"required,max=150"`
		WorkspaceID int    `json:"workspace_id" validate:"required"`
	}

	var req CreateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create board", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in create board", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	var exists bool
	if err := config.DB.QueryRow("SELECT EXISTS (SELECT 1 FROM workspaces WHERE id = $1)", req.WorkspaceID).Scan(&exists); err != nil || !exists {
		return c.Status(404).JSON(fiber.Map{
			"message": "Workspace not found",
			"success": false,
			"status":  404,
		})
	}

	var boardID int
	err := config.DB.QueryRow(
		"INSERT INTO boards (title, workspace_id) VALUES ($1, $2) RETURNING id",
		req.Title, req.WorkspaceID).Scan(&boardID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating board", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating board",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Board created", zap.Int("board_id", boardID), zap.Int("workspace_id", req.WorkspaceID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Board created successfully",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id":           boardID,
			"title":        req.Title,
			"workspace_id": req.WorkspaceID,
		},
	})
}

// ListBoards returns every board with its workspace reference.
func ListBoards(c *fiber.Ctx) error {
	rows, err := config.DB.Query(`
		SELECT id, title, workspace_id, tasks_total, tasks_completed, tasks_pending, created_at, updated_at
		FROM boards ORDER BY id`)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching boards", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching boards",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	boards := []models.Board{}
	for rows.Next() {
		var board models.Board
		err := rows.Scan(&board.ID, &board.Title, &board.WorkspaceID, &board.TasksTotal, &board.TasksCompleted, &board.TasksPending, &board.CreatedAt, &board.UpdatedAt)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning boards", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning boards",
				"success": false,
				"status":  500,
			})
		}
		boards = append(boards, board)
	}
	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over boards", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over boards",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Boards fetched successfully",
		"success": true,
		"status":  200,
		"data":    boards,
	})
}

// GetBoard returns a single board.
func GetBoard(c *fiber.Ctx) error {
	boardID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid board ID",
			"success": false,
			"status":  400,
		})
	}

	var board models.Board
	err = config.DB.QueryRow(`
		SELECT id, title, workspace_id, tasks_total, tasks_completed, tasks_pending, created_at, updated_at
		FROM boards WHERE id = $1`,
		boardID).Scan(&board.ID, &board.Title, &board.WorkspaceID, &board.TasksTotal, &board.TasksCompleted, &board.TasksPending, &board.CreatedAt, &board.UpdatedAt)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Board not found",
			"success": false,
			"status":  404,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Board found",
		"success": true,
		"status":  200,
		"data":    board,
	})
}

// UpdateBoard applies a partial update. Moving the board to another
// workspace transfers its counter contribution in the same transaction.
func UpdateBoard(c *fiber.Ctx) error {
	boardID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid board ID",
			"success": false,
			"status":  400,
		})
	}

	type UpdateBoardRequest struct {
		Title       *string `json:"title"`
		WorkspaceID *int    `json:"workspace_id"`
	}

	var req UpdateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update board", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	var current models.Board
	err = config.DB.QueryRow(
		"SELECT id, workspace_id, tasks_total, tasks_completed, tasks_pending FROM boards WHERE id = $1",
		boardID).Scan(&current.ID, &current.WorkspaceID, &current.TasksTotal, &current.TasksCompleted, &current.TasksPending)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "Board not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching board", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching board",
			"success": false,
			"status":  500,
		})
	}

	newWorkspaceID := current.WorkspaceID
	if req.WorkspaceID != nil && *req.WorkspaceID != current.WorkspaceID {
		var exists bool
		if err := config.DB.QueryRow("SELECT EXISTS (SELECT 1 FROM workspaces WHERE id = $1)", *req.WorkspaceID).Scan(&exists); err != nil || !exists {
			return c.Status(404).JSON(fiber.Map{
				"message": "Workspace not found",
				"success": false,
				"status":  404,
			})
		}
		newWorkspaceID = *req.WorkspaceID
	}

	tx, err := config.DB.Begin()
	if err != nil {
		logger.ErrorLogger.Error("Error starting transaction", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating board",
			"success": false,
			"status":  500,
		})
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE boards
		SET title = COALESCE($1, title),
			workspace_id = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`,
		req.Title, newWorkspaceID, boardID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating board", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating board",
			"success": false,
			"status":  500,
		})
	}

	if newWorkspaceID != current.WorkspaceID {
		_, err = tx.Exec(`
			UPDATE workspaces
			SET tasks_total = tasks_total - $1,
				tasks_completed = tasks_completed - $2,
				tasks_pending = tasks_pending - $3,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = $4`,
			current.TasksTotal, current.TasksCompleted, current.TasksPending, current.WorkspaceID)
		if err == nil {
			_, err = tx.Exec(`
				UPDATE workspaces
				SET tasks_total = tasks_total + $1,
					tasks_completed = tasks_completed + $2,
					tasks_pending = tasks_pending + $3,
					updated_at = CURRENT_TIMESTAMP
				WHERE id = $4`,
				current.TasksTotal, current.TasksCompleted, current.TasksPending, newWorkspaceID)
		}
		if err != nil {
			logger.ErrorLogger.Error("Error transferring board counters", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error updating board",
				"success": false,
				"status":  500,
			})
		}
	}

	if err := tx.Commit(); err != nil {
		logger.ErrorLogger.Error("Error committing board update", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating board",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, workspaceCacheKey(current.WorkspaceID))
	if newWorkspaceID != current.WorkspaceID {
		config.RedisClient.Del(config.Ctx, workspaceCacheKey(newWorkspaceID))
	}

	var board models.Board
	err = config.DB.QueryRow(`
		SELECT id, title, workspace_id, tasks_total, tasks_completed, tasks_pending, created_at, updated_at
		FROM boards WHERE id = $1`,
		boardID).Scan(&board.ID, &board.Title, &board.WorkspaceID, &board.TasksTotal, &board.TasksCompleted, &board.TasksPending, &board.CreatedAt, &board.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated board", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching updated board",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Board updated", zap.Int("board_id", boardID))
	return c.JSON(fiber.Map{
		"message": "Board updated successfully",
		"success": true,
		"status":  200,
		"data":    board,
	})
}

// DeleteBoard removes a board and, through the FK cascade, its lists and
// tasks. Workspace counters are reduced by the board's own counters first.
func DeleteBoard(c *fiber.Ctx) error {
	boardID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid board ID",
			"success": false,
			"status":  400,
		})
	}

	var board models.Board
	err = config.DB.QueryRow(
		"SELECT id, workspace_id, tasks_total, tasks_completed, tasks_pending FROM boards WHERE id = $1",
		boardID).Scan(&board.ID, &board.WorkspaceID, &board.TasksTotal, &board.TasksCompleted, &board.TasksPending)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "Board not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching board", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching board",
			"success": false,
			"status":  500,
		})
	}

	tx, err := config.DB.Begin()
	if err != nil {
		logger.ErrorLogger.Error("Error starting transaction", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting board",
			"success": false,
			"status":  500,
		})
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM boards WHERE id = $1", boardID); err != nil {
		logger.ErrorLogger.Error("Error deleting board", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting board",
			"success": false,
			"status":  500,
		})
	}
	_, err = tx.Exec(`
		UPDATE workspaces
		SET tasks_total = tasks_total - $1,
			tasks_completed = tasks_completed - $2,
			tasks_pending = tasks_pending - $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4`,
		board.TasksTotal, board.TasksCompleted, board.TasksPending, board.WorkspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error adjusting workspace counters", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting board",
			"success": false,
			"status":  500,
		})
	}
	if err := tx.Commit(); err != nil {
		logger.ErrorLogger.Error("Error committing board delete", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting board",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, workspaceCacheKey(board.WorkspaceID))

	logger.AuditLogger.Info("Board deleted", zap.Int("board_id", boardID))
	return c.JSON(fiber.Map{
		"message": "Board deleted successfully",
		"success": true,
		"status":  200,
	})
}
