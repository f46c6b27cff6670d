package handlers

import (
	"database/sql"

	"taskboard/internal/config"
	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// List handlers

// CreateList creates a list after checking the parent board exists.
// Positions are caller-assigned and not checked for uniqueness.
func CreateList(c *fiber.Ctx) error {
	type CreateListRequest struct {
		Title    string `json:"title" validate:"required,max=150"`
		Position int    `json:"position"`
		BoardID  int    `json:"board_id" validate:"required"`
	}

	var req CreateListRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create list", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in create list", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	var exists bool
	if err := config.DB.QueryRow("SELECT EXISTS (SELECT 1 FROM boards WHERE id = $1)", req.BoardID).Scan(&exists); err != nil || !exists {
		return c.Status(404).JSON(fiber.Map{
			"message": "Board not found",
			"success": false,
			"status":  404,
		})
	}

	var listID int
	err := config.DB.QueryRow(
		"INSERT INTO lists (title, position, board_id) VALUES ($1, $2, $3) RETURNING id",
		req.Title, req.Position, req.BoardID).Scan(&listID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating list", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating list",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("List created", zap.Int("list_id", listID), zap.Int("board_id", req.BoardID))
	return c.Status(201).JSON(fiber.Map{
		"message": "List created successfully",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id":       listID,
			"title":    req.Title,
			"position": req.Position,
			"board_id": req.BoardID,
		},
	})
}

// ListLists returns every list ordered by board and position.
func ListLists(c *fiber.Ctx) error {
	rows, err := config.DB.Query("SELECT id, title, position, board_id FROM lists ORDER BY board_id, position, id")
	if err != nil {
		logger.ErrorLogger.Error("Error fetching lists", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching lists",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	lists := []models.List{}
	for rows.Next() {
		var list models.List
		if err := rows.Scan(&list.ID, &list.Title, &list.Position, &list.BoardID); err != nil {
			logger.ErrorLogger.Error("Error scanning lists", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning lists",
				"success": false,
				"status":  500,
			})
		}
		lists = append(lists, list)
	}
	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over lists", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over lists",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lists fetched successfully",
		"success": true,
		"status":  200,
		"data":    lists,
	})
}

// GetList returns a single list.
func GetList(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid list ID",
			"success": false,
			"status":  400,
		})
	}

	var list models.List
	err = config.DB.QueryRow(
		"SELECT id, title, position, board_id FROM lists WHERE id = $1",
		listID).Scan(&list.ID, &list.Title, &list.Position, &list.BoardID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "List not found",
			"success": false,
			"status":  404,
		})
	}

	return c.JSON(fiber.Map{
		"message": "List found",
		"success": true,
		"status":  200,
		"data":    list,
	})
}

// UpdateList applies a partial update. Moving the list to another board
// transfers its tasks' counter contribution in the same transaction.
func UpdateList(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid list ID",
			"success": false,
			"status":  400,
		})
	}

	type UpdateListRequest struct {
		Title    *string `json:"title"`
		Position *int    `json:"position"`
		BoardID  *int    `json:"board_id"`
	}

	var req UpdateListRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update list", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	oldBoardID, oldWorkspaceID, err := repository.LookupListChain(config.DB, listID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "List not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching list", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching list",
			"success": false,
			"status":  500,
		})
	}

	newBoardID := oldBoardID
	newWorkspaceID := oldWorkspaceID
	if req.BoardID != nil && *req.BoardID != oldBoardID {
		err = config.DB.QueryRow(
			"SELECT workspace_id FROM boards WHERE id = $1", *req.BoardID).Scan(&newWorkspaceID)
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{
				"message": "Board not found",
				"success": false,
				"status":  404,
			})
		}
		if err != nil {
			logger.ErrorLogger.Error("Error resolving board", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error resolving board",
				"success": false,
				"status":  500,
			})
		}
		newBoardID = *req.BoardID
	}

	var total, completed, pending int
	if newBoardID != oldBoardID {
		err = config.DB.QueryRow(`
			SELECT COUNT(id),
				COUNT(id) FILTER (WHERE task_status),
				COUNT(id) FILTER (WHERE NOT task_status)
			FROM tasks WHERE list_id = $1`,
			listID).Scan(&total, &completed, &pending)
		if err != nil {
			logger.ErrorLogger.Error("Error counting list tasks", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error counting list tasks",
				"success": false,
				"status":  500,
			})
		}
	}

	tx, err := config.DB.Begin()
	if err != nil {
		logger.ErrorLogger.Error("Error starting transaction", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating list",
			"success": false,
			"status":  500,
		})
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE lists
		SET title = COALESCE($1, title),
			position = COALESCE($2, position),
			board_id = $3
		WHERE id = $4`,
		req.Title, req.Position, newBoardID, listID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating list", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating list",
			"success": false,
			"status":  500,
		})
	}
	if newBoardID != oldBoardID && total > 0 {
		if err := repository.AdjustTaskCounters(tx, oldBoardID, oldWorkspaceID, -total, -completed, -pending); err != nil {
			logger.ErrorLogger.Error("Error adjusting counters", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error updating list",
				"success": false,
				"status":  500,
			})
		}
		if err := repository.AdjustTaskCounters(tx, newBoardID, newWorkspaceID, total, completed, pending); err != nil {
			logger.ErrorLogger.Error("Error adjusting counters", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error updating list",
				"success": false,
				"status":  500,
			})
		}
	}
	if err := tx.Commit(); err != nil {
		logger.ErrorLogger.Error("Error committing list update", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating list",
			"success": false,
			"status":  500,
		})
	}

	if newBoardID != oldBoardID {
		config.RedisClient.Del(config.Ctx, workspaceCacheKey(oldWorkspaceID))
		if newWorkspaceID != oldWorkspaceID {
			config.RedisClient.Del(config.Ctx, workspaceCacheKey(newWorkspaceID))
		}
	}

	var list models.List
	err = config.DB.QueryRow(
		"SELECT id, title, position, board_id FROM lists WHERE id = $1",
		listID).Scan(&list.ID, &list.Title, &list.Position, &list.BoardID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated list", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching updated list",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("List updated", zap.Int("list_id", listID))
	return c.JSON(fiber.Map{
		"message": "List updated successfully",
		"success": true,
		"status":  200,
		"data":    list,
	})
}

// DeleteList removes a list and its cascaded tasks, subtracting the list's
// task distribution from the board and workspace counters in the same
// transaction.
func DeleteList(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid list ID",
			"success": false,
			"status":  400,
		})
	}

	boardID, workspaceID, err := repository.LookupListChain(config.DB, listID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "List not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching list", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching list",
			"success": false,
			"status":  500,
		})
	}

	var total, completed, pending int
	err = config.DB.QueryRow(`
		SELECT COUNT(id),
			COUNT(id) FILTER (WHERE task_status),
			COUNT(id) FILTER (WHERE NOT task_status)
		FROM tasks WHERE list_id = $1`,
		listID).Scan(&total, &completed, &pending)
	if err != nil {
		logger.ErrorLogger.Error("Error counting list tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error counting list tasks",
			"success": false,
			"status":  500,
		})
	}

	tx, err := config.DB.Begin()
	if err != nil {
		logger.ErrorLogger.Error("Error starting transaction", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting list",
			"success": false,
			"status":  500,
		})
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM lists WHERE id = $1", listID); err != nil {
		logger.ErrorLogger.Error("Error deleting list", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting list",
			"success": false,
			"status":  500,
		})
	}
	if total > 0 {
		if err := repository.AdjustTaskCounters(tx, boardID, workspaceID, -total, -completed, -pending); err != nil {
			logger.ErrorLogger.Error("Error adjusting counters", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error deleting list",
				"success": false,
				"status":  500,
			})
		}
	}
	if err := tx.Commit(); err != nil {
		logger.ErrorLogger.Error("Error committing list delete", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting list",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, workspaceCacheKey(workspaceID))

	logger.AuditLogger.Info("List deleted", zap.Int("list_id", listID))
	return c.JSON(fiber.Map{
		"message": "List deleted successfully",
		"success": true,
		"status":  200,
	})
}
