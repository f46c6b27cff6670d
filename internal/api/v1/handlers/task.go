package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/models"
	"taskboard/internal/repository"
	myws "taskboard/internal/websocket"
	"taskboard/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EventHub receives board events from task mutations. Set at startup; nil in
// handlers-only tests.
var EventHub *myws.Hub

func notifyBoard(eventType string, boardID, taskID int) {
	if EventHub != nil {
		EventHub.Notify(myws.Event{Type: eventType, BoardID: boardID, TaskID: taskID})
	}
}

func taskCacheKey(id int) string {
	return fmt.Sprintf("task:%d", id)
}

func invalidateTaskCaches(taskID, workspaceID int) {
	config.RedisClient.Del(config.Ctx, taskCacheKey(taskID))
	config.RedisClient.Del(config.Ctx, workspaceCacheKey(workspaceID))
}

// Task handlers

// CreateTask inserts a task and bumps the board and workspace counters in
// the same transaction. The new task is always counted as pending, whatever
// status the request carried; the stored row keeps the submitted status.
func CreateTask(c *fiber.Ctx) error {
	type CreateTaskRequest struct {
		Title       string  `json:"title" validate:"required,max=150"`
		Description *string `json:"description"`
		Position    int     `json:"position"`
		TaskStatus  bool    `json:"task_status"`
		ListID      int     `json:"list_id" validate:"required"`
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	boardID, workspaceID, err := repository.LookupListChain(config.DB, req.ListID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "List not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error resolving list", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error resolving list",
			"success": false,
			"status":  500,
		})
	}

	tx, err := config.DB.Begin()
	if err != nil {
		logger.ErrorLogger.Error("Error starting transaction", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}
	defer tx.Rollback()

	var taskID int
	err = tx.QueryRow(
		"INSERT INTO tasks (title, description, position, task_status, list_id) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		req.Title, req.Description, req.Position, req.TaskStatus, req.ListID).Scan(&taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	if err := repository.CountTaskCreated(tx, boardID, workspaceID); err != nil {
		logger.ErrorLogger.Error("Error updating task counters", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	if err := tx.Commit(); err != nil {
		logger.ErrorLogger.Error("Error committing task create", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, workspaceCacheKey(workspaceID))
	notifyBoard("task_created", boardID, taskID)

	logger.AuditLogger.Info("Task created", zap.Int("task_id", taskID), zap.Int("list_id", req.ListID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id":          taskID,
			"title":       req.Title,
			"position":    req.Position,
			"task_status": req.TaskStatus,
			"list_id":     req.ListID,
		},
	})
}

// ListTasks returns every task with its list reference.
func ListTasks(c *fiber.Ctx) error {
	rows, err := config.DB.Query(`
		SELECT id, title, description, position, task_status, list_id, created_at, updated_at
		FROM tasks ORDER BY list_id, position, id`)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Position, &task.TaskStatus, &task.ListID, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning tasks", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning tasks",
				"success": false,
				"status":  500,
			})
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over tasks",
			"success": false,
			"status":  500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    tasks,
	})
}

// GetTask returns a task with its list, assignees and comments, served from
// Redis when cached.
func GetTask(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	cacheKey := taskCacheKey(taskID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var detail fiber.Map
		if err = json.Unmarshal([]byte(cached), &detail); err == nil {
			return c.JSON(fiber.Map{
				"message": "Task found (from cache)",
				"success": true,
				"status":  200,
				"data":    detail,
			})
		}
	}

	var task models.Task
	var listTitle string
	err = config.DB.QueryRow(`
		SELECT t.id, t.title, t.description, t.position, t.task_status, t.list_id, t.created_at, t.updated_at, l.title
		FROM tasks t
		JOIN lists l ON l.id = t.list_id
		WHERE t.id = $1`,
		taskID).Scan(&task.ID, &task.Title, &task.Description, &task.Position, &task.TaskStatus, &task.ListID, &task.CreatedAt, &task.UpdatedAt, &listTitle)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}

	assigneeRows, err := config.DB.Query(`
		SELECT a.id, u.id, u.name, u.email
		FROM task_assignees a
		JOIN users u ON u.id = a.user_id
		WHERE a.task_id = $1
		ORDER BY a.id`,
		taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching assignees", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching assignees",
			"success": false,
			"status":  500,
		})
	}
	defer assigneeRows.Close()

	assignees := []fiber.Map{}
	for assigneeRows.Next() {
		var assigneeID, assigneeUserID int
		var assigneeName, assigneeEmail string
		if err := assigneeRows.Scan(&assigneeID, &assigneeUserID, &assigneeName, &assigneeEmail); err != nil {
			logger.ErrorLogger.Error("Error scanning assignees", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning assignees",
				"success": false,
				"status":  500,
			})
		}
		assignees = append(assignees, fiber.Map{
			"id":         assigneeID,
			"user_id":    assigneeUserID,
			"user_name":  assigneeName,
			"user_email": assigneeEmail,
		})
	}
	if err = assigneeRows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over assignees", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over assignees",
			"success": false,
			"status":  500,
		})
	}

	commentRows, err := config.DB.Query(`
		SELECT co.id, co.content, co.created_at, u.id, u.name
		FROM comments co
		JOIN users u ON u.id = co.user_id
		WHERE co.task_id = $1
		ORDER BY co.id`,
		taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching comments", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching comments",
			"success": false,
			"status":  500,
		})
	}
	defer commentRows.Close()

	comments := []fiber.Map{}
	for commentRows.Next() {
		var commentID, commentUserID int
		var content, commentUserName string
		var createdAt time.Time
		if err := commentRows.Scan(&commentID, &content, &createdAt, &commentUserID, &commentUserName); err != nil {
			logger.ErrorLogger.Error("Error scanning comments", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning comments",
				"success": false,
				"status":  500,
			})
		}
		comments = append(comments, fiber.Map{
			"id":         commentID,
			"content":    content,
			"created_at": createdAt,
			"user_id":    commentUserID,
			"user_name":  commentUserName,
		})
	}
	if err = commentRows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over comments", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over comments",
			"success": false,
			"status":  500,
		})
	}

	detail := fiber.Map{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description.String,
		"position":    task.Position,
		"task_status": task.TaskStatus,
		"created_at":  task.CreatedAt,
		"updated_at":  task.UpdatedAt,
		"list": fiber.Map{
			"id":    task.ListID,
			"title": listTitle,
		},
		"assignees": assignees,
		"comments":  comments,
	}

	detailJSON, err := json.Marshal(detail)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, detailJSON, time.Hour)
	}

	logger.AuditLogger.Info("Task found", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task found",
		"success": true,
		"status":  200,
		"data":    detail,
	})
}

// UpdateTask applies a partial update. Status changes move the task between
// the pending and completed buckets; moving it to a list on another board
// transfers its counter contribution, all in one transaction.
func UpdateTask(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Position    *int    `json:"position"`
		TaskStatus  *bool   `json:"task_status"`
		ListID      *int    `json:"list_id"`
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	chain, err := repository.LookupTaskChain(config.DB, taskID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error resolving task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error resolving task",
			"success": false,
			"status":  500,
		})
	}

	newListID := chain.ListID
	newBoardID := chain.BoardID
	newWorkspaceID := chain.WorkspaceID
	if req.ListID != nil && *req.ListID != chain.ListID {
		newBoardID, newWorkspaceID, err = repository.LookupListChain(config.DB, *req.ListID)
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{
				"message": "List not found",
				"success": false,
				"status":  404,
			})
		}
		if err != nil {
			logger.ErrorLogger.Error("Error resolving list", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error resolving list",
				"success": false,
				"status":  500,
			})
		}
		newListID = *req.ListID
	}

	newCompleted := chain.Completed
	if req.TaskStatus != nil {
		newCompleted = *req.TaskStatus
	}

	// An explicit {"description": null} clears the column; an absent key
	// leaves it untouched.
	descTouched := bodyHasKey(c, "description")

	tx, err := config.DB.Begin()
	if err != nil {
		logger.ErrorLogger.Error("Error starting transaction", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE tasks
		SET title = COALESCE($1, title),
			description = CASE WHEN $2 THEN $3 ELSE description END,
			position = COALESCE($4, position),
			task_status = COALESCE($5, task_status),
			list_id = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $7`,
		req.Title, descTouched, req.Description, req.Position, req.TaskStatus, newListID, taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	if newBoardID != chain.BoardID {
		err = repository.CountTaskMoved(tx, chain, newBoardID, newWorkspaceID, chain.Completed, newCompleted)
	} else if newCompleted != chain.Completed {
		err = repository.CountTaskStatusChanged(tx, chain.BoardID, chain.WorkspaceID, newCompleted)
	}
	if err != nil {
		logger.ErrorLogger.Error("Error updating task counters", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	if err := tx.Commit(); err != nil {
		logger.ErrorLogger.Error("Error committing task update", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	invalidateTaskCaches(taskID, chain.WorkspaceID)
	if newWorkspaceID != chain.WorkspaceID {
		config.RedisClient.Del(config.Ctx, workspaceCacheKey(newWorkspaceID))
	}
	notifyBoard("task_updated", newBoardID, taskID)
	if newBoardID != chain.BoardID {
		notifyBoard("task_updated", chain.BoardID, taskID)
	}

	var updatedTask models.Task
	err = config.DB.QueryRow(`
		SELECT id, title, description, position, task_status, list_id, created_at, updated_at
		FROM tasks WHERE id = $1`,
		taskID).Scan(&updatedTask.ID, &updatedTask.Title, &updatedTask.Description, &updatedTask.Position, &updatedTask.TaskStatus, &updatedTask.ListID, &updatedTask.CreatedAt, &updatedTask.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching updated task",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  200,
		"data":    updatedTask,
	})
}

// ToggleTaskStatus flips a task between pending and completed and applies
// the matching counter deltas in the same transaction.
func ToggleTaskStatus(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	chain, err := repository.LookupTaskChain(config.DB, taskID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error resolving task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error resolving task",
			"success": false,
			"status":  500,
		})
	}

	newStatus := !chain.Completed

	tx, err := config.DB.Begin()
	if err != nil {
		logger.ErrorLogger.Error("Error starting transaction", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error toggling task status",
			"success": false,
			"status":  500,
		})
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"UPDATE tasks SET task_status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2",
		newStatus, taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error toggling task status", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error toggling task status",
			"success": false,
			"status":  500,
		})
	}
	if err := repository.CountTaskStatusChanged(tx, chain.BoardID, chain.WorkspaceID, newStatus); err != nil {
		logger.ErrorLogger.Error("Error updating task counters", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error toggling task status",
			"success": false,
			"status":  500,
		})
	}
	if err := tx.Commit(); err != nil {
		logger.ErrorLogger.Error("Error committing status toggle", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error toggling task status",
			"success": false,
			"status":  500,
		})
	}

	invalidateTaskCaches(taskID, chain.WorkspaceID)
	notifyBoard("task_updated", chain.BoardID, taskID)

	logger.AuditLogger.Info("Task status toggled", zap.Int("task_id", taskID), zap.Bool("task_status", newStatus))
	return c.JSON(fiber.Map{
		"message": "Task status toggled",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"id":          taskID,
			"task_status": newStatus,
		},
	})
}

// DeleteTask resolves the task's chain before the delete, then removes the
// row and its counter contribution in one transaction.
func DeleteTask(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	// Chain lookup must happen before the delete; afterwards the row is gone.
	chain, err := repository.LookupTaskChain(config.DB, taskID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error resolving task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error resolving task",
			"success": false,
			"status":  500,
		})
	}

	tx, err := config.DB.Begin()
	if err != nil {
		logger.ErrorLogger.Error("Error starting transaction", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM tasks WHERE id = $1", taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if err := repository.CountTaskDeleted(tx, chain.BoardID, chain.WorkspaceID, chain.Completed); err != nil {
		logger.ErrorLogger.Error("Error updating task counters", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}
	if err := tx.Commit(); err != nil {
		logger.ErrorLogger.Error("Error committing task delete", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}

	invalidateTaskCaches(taskID, chain.WorkspaceID)
	notifyBoard("task_deleted", chain.BoardID, taskID)

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
		"success": true,
		"status":  200,
	})
}

// AssignUser attaches a user to a task. Assigning the same user twice is
// accepted; there is no uniqueness constraint on assignments.
func AssignUser(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	type AssignUserRequest struct {
		UserID int `json:"user_id" validate:"required"`
	}

	var req AssignUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in assign user", zap.Error(err))
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

	var exists bool
	if err := config.DB.QueryRow("SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)", taskID).Scan(&exists); err != nil || !exists {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if err := config.DB.QueryRow("SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", req.UserID).Scan(&exists); err != nil || !exists {
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	var assigneeID int
	err = config.DB.QueryRow(
		"INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2) RETURNING id",
		taskID, req.UserID).Scan(&assigneeID)
	if err != nil {
		logger.ErrorLogger.Error("Error assigning user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error assigning user",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, taskCacheKey(taskID))

	logger.AuditLogger.Info("User assigned to task", zap.Int("task_id", taskID), zap.Int("user_id", req.UserID))
	return c.Status(201).JSON(fiber.Map{
		"message": "User assigned successfully",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id":      assigneeID,
			"task_id": taskID,
			"user_id": req.UserID,
		},
	})
}

// UnassignUser deletes an assignment row by its own id.
func UnassignUser(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}
	assigneeID, err := c.ParamsInt("assigneeId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid assignee ID",
			"success": false,
			"status":  400,
		})
	}

	res, err := config.DB.Exec(
		"DELETE FROM task_assignees WHERE id = $1 AND task_id = $2",
		assigneeID, taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error unassigning user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error unassigning user",
			"success": false,
			"status":  500,
		})
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message": "Assignee not found",
			"success": false,
			"status":  404,
		})
	}

	config.RedisClient.Del(config.Ctx, taskCacheKey(taskID))

	logger.AuditLogger.Info("User unassigned from task", zap.Int("task_id", taskID), zap.Int("assignee_id", assigneeID))
	return c.JSON(fiber.Map{
		"message": "User unassigned successfully",
		"success": true,
		"status":  200,
	})
}

// AddComment attaches a comment to a task on behalf of the given user.
func AddComment(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	type AddCommentRequest struct {
		Content string `json:"content" validate:"required"`
		UserID  int    `json:"user_id" validate:"required"`
	}

	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in add comment", zap.Error(err))
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

	var exists bool
	if err := config.DB.QueryRow("SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)", taskID).Scan(&exists); err != nil || !exists {
		return c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if err := config.DB.QueryRow("SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", req.UserID).Scan(&exists); err != nil || !exists {
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"success": false,
			"status":  404,
		})
	}

	var commentID int
	err = config.DB.QueryRow(
		"INSERT INTO comments (content, task_id, user_id) VALUES ($1, $2, $3) RETURNING id",
		req.Content, taskID, req.UserID).Scan(&commentID)
	if err != nil {
		logger.ErrorLogger.Error("Error adding comment", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error adding comment",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, taskCacheKey(taskID))

	logger.AuditLogger.Info("Comment added", zap.Int("task_id", taskID), zap.Int("comment_id", commentID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Comment added successfully",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id":      commentID,
			"content": req.Content,
			"task_id": taskID,
			"user_id": req.UserID,
		},
	})
}
