package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
	"taskboard/pkg/slug"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const maxSlugAttempts = 50

func workspaceCacheKey(id int) string {
	return fmt.Sprintf("workspace:%d", id)
}

// checkWorkspaceAccess returns 0 when the principal owns the workspace or is
// a member, 404 when the workspace does not exist and 403 otherwise.
func checkWorkspaceAccess(workspaceID, userID int) (int, error) {
	var ownerID int
	err := config.DB.QueryRow("SELECT owner_id FROM workspaces WHERE id = $1", workspaceID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 404, nil
	}
	if err != nil {
		return 500, err
	}
	if ownerID == userID {
		return 0, nil
	}
	var isMember bool
	err = config.DB.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM workspace_members WHERE workspace_id = $1 AND user_id = $2)",
		workspaceID, userID).Scan(&isMember)
	if err != nil {
		return 500, err
	}
	if !isMember {
		return 403, nil
	}
	return 0, nil
}

func denyWorkspaceAccess(c *fiber.Ctx, status int, err error) error {
	switch status {
	case 404:
		return c.Status(404).JSON(fiber.Map{
			"message": "Workspace not found",
			"success": false,
			"status":  404,
		})
	case 403:
		logger.SecurityLogger.Warn("Workspace access denied",
			zap.Int("user_id", c.Locals("userID").(int)),
			zap.String("url", c.OriginalURL()))
		return c.Status(403).JSON(fiber.Map{
			"message": "You don't have access to this workspace",
			"success": false,
			"status":  403,
		})
	default:
		logger.ErrorLogger.Error("Error checking workspace access", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error checking workspace access",
			"success": false,
			"status":  500,
		})
	}
}

func workspaceSummary(ws models.Workspace, memberCount, boardCount int) fiber.Map {
	return fiber.Map{
		"workspace_id": ws.ID,
		"id":           "ws-" + ws.Slug,
		"title":        ws.Name,
		"desc":         ws.Description.String,
		"cover":        ws.Cover.String,
		"theme":        ws.Theme,
		"theme_color":  ws.ThemeColor,
		"icon":         ws.Icon.String,
		"tasks": fiber.Map{
			"total":     ws.TasksTotal,
			"completed": ws.TasksCompleted,
			"pending":   ws.TasksPending,
		},
		"members":     memberCount,
		"boards":      boardCount,
		"is_favorite": ws.IsFavorite,
	}
}

func fetchWorkspaceSummary(workspaceID int) (fiber.Map, error) {
	var ws models.Workspace
	var memberCount, boardCount int
	err := config.DB.QueryRow(`
		SELECT w.id, w.name, w.slug, w.description, w.cover_url, w.theme, w.theme_color, w.icon,
			w.tasks_total, w.tasks_completed, w.tasks_pending, w.is_favorite,
			(SELECT COUNT(*) FROM workspace_members m WHERE m.workspace_id = w.id),
			(SELECT COUNT(*) FROM boards b WHERE b.workspace_id = w.id)
		FROM workspaces w
		WHERE w.id = $1`,
		workspaceID).Scan(
		&ws.ID, &ws.Name, &ws.Slug, &ws.Description, &ws.Cover, &ws.Theme, &ws.ThemeColor, &ws.Icon,
		&ws.TasksTotal, &ws.TasksCompleted, &ws.TasksPending, &ws.IsFavorite,
		&memberCount, &boardCount)
	if err != nil {
		return nil, err
	}
	return workspaceSummary(ws, memberCount, boardCount), nil
}

// Workspace handlers

// CreateWorkspace creates a workspace owned by the principal and registers
// the owner as a member with role 'owner'. The slug is derived from the name;
// collisions are retried with a numeric suffix.
func CreateWorkspace(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type CreateWorkspaceRequest struct {
		Name        string  `json:"name" validate:"required,max=150"`
		Description *string `json:"description"`
		Cover       *string `json:"cover"`
		Theme       *string `json:"theme"`
		ThemeColor  *string `json:"theme_color"`
		Icon        *string `json:"icon"`
	}

	var req CreateWorkspaceRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create workspace", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error in create workspace", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	theme := "indigo"
	if req.Theme != nil {
		theme = *req.Theme
	}
	themeColor := "#4F46E5"
	if req.ThemeColor != nil {
		themeColor = *req.ThemeColor
	}

	base := slug.Make(req.Name)
	var workspaceID int
	for attempt := 0; ; attempt++ {
		if attempt >= maxSlugAttempts {
			return c.Status(409).JSON(fiber.Map{
				"message": "Could not generate a unique workspace slug",
				"success": false,
				"status":  409,
			})
		}
		candidate := slug.WithSuffix(base, attempt)
		err := config.DB.QueryRow(`
			INSERT INTO workspaces (name, slug, description, cover_url, theme, theme_color, icon, owner_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			req.Name, candidate, req.Description, req.Cover, theme, themeColor, req.Icon, userID).Scan(&workspaceID)
		if err == nil {
			break
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			continue // slug taken, retry with suffix
		}
		logger.ErrorLogger.Error("Error creating workspace", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating workspace",
			"success": false,
			"status":  500,
		})
	}

	_, err := config.DB.Exec(
		"INSERT INTO workspace_members (workspace_id, user_id, role) VALUES ($1, $2, 'owner')",
		workspaceID, userID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating owner membership", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating owner membership",
			"success": false,
			"status":  500,
		})
	}

	summary, err := fetchWorkspaceSummary(workspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching created workspace", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching created workspace",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Workspace created", zap.Int("workspace_id", workspaceID), zap.Int("owner_id", userID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Workspace created successfully",
		"success": true,
		"status":  201,
		"data":    summary,
	})
}

// ListWorkspaces returns summaries of the workspaces where the principal is
// owner or member. Never the whole table.
func ListWorkspaces(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	rows, err := config.DB.Query(`
		SELECT w.id, w.name, w.slug, w.description, w.cover_url, w.theme, w.theme_color, w.icon,
			w.tasks_total, w.tasks_completed, w.tasks_pending, w.is_favorite,
			(SELECT COUNT(*) FROM workspace_members m WHERE m.workspace_id = w.id),
			(SELECT COUNT(*) FROM boards b WHERE b.workspace_id = w.id)
		FROM workspaces w
		WHERE w.owner_id = $1
			OR EXISTS (SELECT 1 FROM workspace_members m WHERE m.workspace_id = w.id AND m.user_id = $1)
		ORDER BY w.id`,
		userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching workspaces", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching workspaces",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	summaries := []fiber.Map{}
	for rows.Next() {
		var ws models.Workspace
		var memberCount, boardCount int
		err := rows.Scan(
			&ws.ID, &ws.Name, &ws.Slug, &ws.Description, &ws.Cover, &ws.Theme, &ws.ThemeColor, &ws.Icon,
			&ws.TasksTotal, &ws.TasksCompleted, &ws.TasksPending, &ws.IsFavorite,
			&memberCount, &boardCount)
		if err != nil {
			logger.ErrorLogger.Error("Error scanning workspaces", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning workspaces",
				"success": false,
				"status":  500,
			})
		}
		summaries = append(summaries, workspaceSummary(ws, memberCount, boardCount))
	}
	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over workspaces", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over workspaces",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Workspaces fetched successfully", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Workspaces fetched successfully",
		"success": true,
		"status":  200,
		"data":    summaries,
	})
}

// GetWorkspace returns one workspace with its owner and member detail.
func GetWorkspace(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	workspaceID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid workspace ID",
			"success": false,
			"status":  400,
		})
	}

	if status, err := checkWorkspaceAccess(workspaceID, userID); status != 0 {
		return denyWorkspaceAccess(c, status, err)
	}

	cacheKey := workspaceCacheKey(workspaceID)
	if cached, err := config.RedisClient.Get(config.Ctx, cacheKey).Result(); err == nil {
		var detail fiber.Map
		if err = json.Unmarshal([]byte(cached), &detail); err == nil {
			return c.JSON(fiber.Map{
				"message": "Workspace found (from cache)",
				"success": true,
				"status":  200,
				"data":    detail,
			})
		}
	}

	var ws models.Workspace
	var ownerName, ownerEmail string
	err = config.DB.QueryRow(`
		SELECT w.id, w.name, w.slug, w.description, w.cover_url, w.theme, w.theme_color, w.icon,
			w.tasks_total, w.tasks_completed, w.tasks_pending, w.is_favorite, w.owner_id,
			w.created_at, w.updated_at, u.name, u.email
		FROM workspaces w
		JOIN users u ON u.id = w.owner_id
		WHERE w.id = $1`,
		workspaceID).Scan(
		&ws.ID, &ws.Name, &ws.Slug, &ws.Description, &ws.Cover, &ws.Theme, &ws.ThemeColor, &ws.Icon,
		&ws.TasksTotal, &ws.TasksCompleted, &ws.TasksPending, &ws.IsFavorite, &ws.OwnerID,
		&ws.CreatedAt, &ws.UpdatedAt, &ownerName, &ownerEmail)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching workspace", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching workspace",
			"success": false,
			"status":  500,
		})
	}

	rows, err := config.DB.Query(`
		SELECT m.id, m.role, u.id, u.name, u.email
		FROM workspace_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.workspace_id = $1
		ORDER BY m.id`,
		workspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching workspace members", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching workspace members",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	membersDetail := []fiber.Map{}
	for rows.Next() {
		var memberID, memberUserID int
		var memberRole, memberName, memberEmail string
		if err := rows.Scan(&memberID, &memberRole, &memberUserID, &memberName, &memberEmail); err != nil {
			logger.ErrorLogger.Error("Error scanning workspace members", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning workspace members",
				"success": false,
				"status":  500,
			})
		}
		membersDetail = append(membersDetail, fiber.Map{
			"id":         memberID,
			"role":       memberRole,
			"user_id":    memberUserID,
			"user_name":  memberName,
			"user_email": memberEmail,
		})
	}
	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over workspace members", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over workspace members",
			"success": false,
			"status":  500,
		})
	}

	detail := fiber.Map{
		"workspace_id": ws.ID,
		"id":           "ws-" + ws.Slug,
		"title":        ws.Name,
		"desc":         ws.Description.String,
		"cover":        ws.Cover.String,
		"theme":        ws.Theme,
		"theme_color":  ws.ThemeColor,
		"icon":         ws.Icon.String,
		"is_favorite":  ws.IsFavorite,
		"tasks": fiber.Map{
			"total":     ws.TasksTotal,
			"completed": ws.TasksCompleted,
			"pending":   ws.TasksPending,
		},
		"owner": fiber.Map{
			"id":    ws.OwnerID,
			"name":  ownerName,
			"email": ownerEmail,
		},
		"members_detail": membersDetail,
	}

	detailJSON, err := json.Marshal(detail)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, cacheKey, detailJSON, time.Hour)
	}

	logger.AuditLogger.Info("Workspace found", zap.Int("workspace_id", workspaceID))
	return c.JSON(fiber.Map{
		"message": "Workspace found",
		"success": true,
		"status":  200,
		"data":    detail,
	})
}

// GetWorkspaceOverview returns per-board list/task counts and the workspace
// task distribution, all computed live from the tasks table rather than the
// denormalized counters.
func GetWorkspaceOverview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	workspaceID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid workspace ID",
			"success": false,
			"status":  400,
		})
	}

	if status, err := checkWorkspaceAccess(workspaceID, userID); status != 0 {
		return denyWorkspaceAccess(c, status, err)
	}

	var title string
	if err := config.DB.QueryRow("SELECT name FROM workspaces WHERE id = $1", workspaceID).Scan(&title); err != nil {
		logger.ErrorLogger.Error("Error fetching workspace", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching workspace",
			"success": false,
			"status":  500,
		})
	}

	var total, completed, pending int
	err = config.DB.QueryRow(`
		SELECT COUNT(t.id),
			COUNT(t.id) FILTER (WHERE t.task_status),
			COUNT(t.id) FILTER (WHERE NOT t.task_status)
		FROM tasks t
		JOIN lists l ON l.id = t.list_id
		JOIN boards b ON b.id = l.board_id
		WHERE b.workspace_id = $1`,
		workspaceID).Scan(&total, &completed, &pending)
	if err != nil {
		logger.ErrorLogger.Error("Error aggregating workspace tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error aggregating workspace tasks",
			"success": false,
			"status":  500,
		})
	}

	rows, err := config.DB.Query(`
		SELECT b.id, b.title,
			(SELECT COUNT(*) FROM lists l WHERE l.board_id = b.id),
			(SELECT COUNT(*) FROM tasks t JOIN lists l ON l.id = t.list_id WHERE l.board_id = b.id)
		FROM boards b
		WHERE b.workspace_id = $1
		ORDER BY b.id`,
		workspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error aggregating boards", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error aggregating boards",
			"success": false,
			"status":  500,
		})
	}
	defer rows.Close()

	boardStats := []fiber.Map{}
	for rows.Next() {
		var boardID, listCount, taskCount int
		var boardTitle string
		if err := rows.Scan(&boardID, &boardTitle, &listCount, &taskCount); err != nil {
			logger.ErrorLogger.Error("Error scanning board stats", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning board stats",
				"success": false,
				"status":  500,
			})
		}
		boardStats = append(boardStats, fiber.Map{
			"id":         boardID,
			"title":      boardTitle,
			"list_count": listCount,
			"task_count": taskCount,
		})
	}
	if err = rows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over board stats", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over board stats",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Workspace overview fetched", zap.Int("workspace_id", workspaceID))
	return c.JSON(fiber.Map{
		"message": "Workspace overview fetched",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"workspace_id": workspaceID,
			"title":        title,
			"tasks": fiber.Map{
				"total":     total,
				"completed": completed,
				"pending":   pending,
			},
			"board_stats": boardStats,
		},
	})
}

// GetWorkspaceFull loads the whole board -> list -> task tree of a workspace
// in one response.
func GetWorkspaceFull(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	workspaceID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid workspace ID",
			"success": false,
			"status":  400,
		})
	}

	if status, err := checkWorkspaceAccess(workspaceID, userID); status != 0 {
		return denyWorkspaceAccess(c, status, err)
	}

	var title string
	if err := config.DB.QueryRow("SELECT name FROM workspaces WHERE id = $1", workspaceID).Scan(&title); err != nil {
		logger.ErrorLogger.Error("Error fetching workspace", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching workspace",
			"success": false,
			"status":  500,
		})
	}

	taskRows, err := config.DB.Query(`
		SELECT t.id, t.title, t.description, t.position, t.task_status, t.list_id
		FROM tasks t
		JOIN lists l ON l.id = t.list_id
		JOIN boards b ON b.id = l.board_id
		WHERE b.workspace_id = $1
		ORDER BY t.position, t.id`,
		workspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching workspace tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching workspace tasks",
			"success": false,
			"status":  500,
		})
	}
	defer taskRows.Close()

	tasksByList := map[int][]fiber.Map{}
	for taskRows.Next() {
		var task models.Task
		if err := taskRows.Scan(&task.ID, &task.Title, &task.Description, &task.Position, &task.TaskStatus, &task.ListID); err != nil {
			logger.ErrorLogger.Error("Error scanning workspace tasks", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning workspace tasks",
				"success": false,
				"status":  500,
			})
		}
		tasksByList[task.ListID] = append(tasksByList[task.ListID], fiber.Map{
			"id":          task.ID,
			"title":       task.Title,
			"description": task.Description.String,
			"position":    task.Position,
			"task_status": task.TaskStatus,
		})
	}
	if err = taskRows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over workspace tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over workspace tasks",
			"success": false,
			"status":  500,
		})
	}

	listRows, err := config.DB.Query(`
		SELECT l.id, l.title, l.position, l.board_id
		FROM lists l
		JOIN boards b ON b.id = l.board_id
		WHERE b.workspace_id = $1
		ORDER BY l.position, l.id`,
		workspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching workspace lists", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching workspace lists",
			"success": false,
			"status":  500,
		})
	}
	defer listRows.Close()

	listsByBoard := map[int][]fiber.Map{}
	for listRows.Next() {
		var list models.List
		if err := listRows.Scan(&list.ID, &list.Title, &list.Position, &list.BoardID); err != nil {
			logger.ErrorLogger.Error("Error scanning workspace lists", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning workspace lists",
				"success": false,
				"status":  500,
			})
		}
		tasks := tasksByList[list.ID]
		if tasks == nil {
			tasks = []fiber.Map{}
		}
		listsByBoard[list.BoardID] = append(listsByBoard[list.BoardID], fiber.Map{
			"id":       list.ID,
			"title":    list.Title,
			"position": list.Position,
			"tasks":    tasks,
		})
	}
	if err = listRows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over workspace lists", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over workspace lists",
			"success": false,
			"status":  500,
		})
	}

	boardRows, err := config.DB.Query(
		"SELECT id, title FROM boards WHERE workspace_id = $1 ORDER BY id", workspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching workspace boards", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching workspace boards",
			"success": false,
			"status":  500,
		})
	}
	defer boardRows.Close()

	boardTrees := []fiber.Map{}
	for boardRows.Next() {
		var boardID int
		var boardTitle string
		if err := boardRows.Scan(&boardID, &boardTitle); err != nil {
			logger.ErrorLogger.Error("Error scanning workspace boards", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error scanning workspace boards",
				"success": false,
				"status":  500,
			})
		}
		lists := listsByBoard[boardID]
		if lists == nil {
			lists = []fiber.Map{}
		}
		boardTrees = append(boardTrees, fiber.Map{
			"id":    boardID,
			"title": boardTitle,
			"lists": lists,
		})
	}
	if err = boardRows.Err(); err != nil {
		logger.ErrorLogger.Error("Error iterating over workspace boards", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error iterating over workspace boards",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Workspace full tree fetched", zap.Int("workspace_id", workspaceID))
	return c.JSON(fiber.Map{
		"message": "Workspace full tree fetched",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"workspace_id": workspaceID,
			"title":        title,
			"board_trees":  boardTrees,
		},
	})
}

// UpdateWorkspace applies a partial update over the whitelisted fields.
func UpdateWorkspace(c *fiber.Ctx) error {
	workspaceID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid workspace ID",
			"success": false,
			"status":  400,
		})
	}

	type UpdateWorkspaceRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Cover       *string `json:"cover"`
		Theme       *string `json:"theme"`
		ThemeColor  *string `json:"theme_color"`
		Icon        *string `json:"icon"`
		IsFavorite  *bool   `json:"is_favorite"`
	}

	var req UpdateWorkspaceRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update workspace", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	var ws models.Workspace
	err = config.DB.QueryRow(`
		SELECT id, name, description, cover_url, theme, theme_color, icon, is_favorite
		FROM workspaces WHERE id = $1`,
		workspaceID).Scan(&ws.ID, &ws.Name, &ws.Description, &ws.Cover, &ws.Theme, &ws.ThemeColor, &ws.Icon, &ws.IsFavorite)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{
			"message": "Workspace not found",
			"success": false,
			"status":  404,
		})
	}
	if err != nil {
		logger.ErrorLogger.Error("Error fetching workspace", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching workspace",
			"success": false,
			"status":  500,
		})
	}

	// For nullable columns an explicit null in the body clears the value;
	// an absent key leaves it untouched.
	if req.Name != nil {
		ws.Name = *req.Name
	}
	if req.Description != nil {
		ws.Description = sql.NullString{String: *req.Description, Valid: true}
	} else if bodyHasKey(c, "description") {
		ws.Description = sql.NullString{}
	}
	if req.Cover != nil {
		ws.Cover = sql.NullString{String: *req.Cover, Valid: true}
	} else if bodyHasKey(c, "cover") {
		ws.Cover = sql.NullString{}
	}
	if req.Theme != nil {
		ws.Theme = *req.Theme
	}
	if req.ThemeColor != nil {
		ws.ThemeColor = *req.ThemeColor
	}
	if req.Icon != nil {
		ws.Icon = sql.NullString{String: *req.Icon, Valid: true}
	} else if bodyHasKey(c, "icon") {
		ws.Icon = sql.NullString{}
	}
	if req.IsFavorite != nil {
		ws.IsFavorite = *req.IsFavorite
	}

	_, err = config.DB.Exec(`
		UPDATE workspaces
		SET name = $1, description = $2, cover_url = $3, theme = $4, theme_color = $5,
			icon = $6, is_favorite = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8`,
		ws.Name, ws.Description, ws.Cover, ws.Theme, ws.ThemeColor, ws.Icon, ws.IsFavorite, workspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error updating workspace", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating workspace",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, workspaceCacheKey(workspaceID))

	summary, err := fetchWorkspaceSummary(workspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching updated workspace", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching updated workspace",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Workspace updated", zap.Int("workspace_id", workspaceID))
	return c.JSON(fiber.Map{
		"message": "Workspace updated successfully",
		"success": true,
		"status":  200,
		"data":    summary,
	})
}

// DeleteWorkspace removes a workspace; the FK cascade takes boards, lists,
// tasks, assignees and comments with it.
func DeleteWorkspace(c *fiber.Ctx) error {
	workspaceID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid workspace ID",
			"success": false,
			"status":  400,
		})
	}

	res, err := config.DB.Exec("DELETE FROM workspaces WHERE id = $1", workspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error deleting workspace", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting workspace",
			"success": false,
			"status":  500,
		})
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message": "Workspace not found",
			"success": false,
			"status":  404,
		})
	}

	config.RedisClient.Del(config.Ctx, workspaceCacheKey(workspaceID))

	logger.AuditLogger.Info("Workspace deleted", zap.Int("workspace_id", workspaceID))
	return c.JSON(fiber.Map{
		"message": "Workspace deleted successfully",
		"success": true,
		"status":  200,
	})
}

// AddWorkspaceMember adds a user to a workspace with the given role.
func AddWorkspaceMember(c *fiber.Ctx) error {
	workspaceID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid workspace ID",
			"success": false,
			"status":  400,
		})
	}

	type AddMemberRequest struct {
		UserID int    `json:"user_id" validate:"required"`
		Role   string `json:"role" validate:"required,max=50"`
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in add member", zap.Error(err))
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
	if err := config.DB.QueryRow("SELECT EXISTS (SELECT 1 FROM workspaces WHERE id = $1)", workspaceID).Scan(&exists); err != nil || !exists {
		return c.Status(404).JSON(fiber.Map{
			"message": "Workspace not found",
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

	var memberID int
	err = config.DB.QueryRow(
		"INSERT INTO workspace_members (workspace_id, user_id, role) VALUES ($1, $2, $3) RETURNING id",
		workspaceID, req.UserID, req.Role).Scan(&memberID)
	if err != nil {
		logger.ErrorLogger.Error("Error adding workspace member", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error adding workspace member",
			"success": false,
			"status":  500,
		})
	}

	config.RedisClient.Del(config.Ctx, workspaceCacheKey(workspaceID))

	logger.AuditLogger.Info("Workspace member added", zap.Int("workspace_id", workspaceID), zap.Int("user_id", req.UserID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Member added successfully",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id":           memberID,
			"workspace_id": workspaceID,
			"user_id":      req.UserID,
			"role":         req.Role,
		},
	})
}

// RemoveWorkspaceMember deletes a membership row by its own id.
func RemoveWorkspaceMember(c *fiber.Ctx) error {
	workspaceID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid workspace ID",
			"success": false,
			"status":  400,
		})
	}
	memberID, err := c.ParamsInt("memberId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid member ID",
			"success": false,
			"status":  400,
		})
	}

	res, err := config.DB.Exec(
		"DELETE FROM workspace_members WHERE id = $1 AND workspace_id = $2",
		memberID, workspaceID)
	if err != nil {
		logger.ErrorLogger.Error("Error removing workspace member", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error removing workspace member",
			"success": false,
			"status":  500,
		})
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.Status(404).JSON(fiber.Map{
			"message": "Member not found",
			"success": false,
			"status":  404,
		})
	}

	config.RedisClient.Del(config.Ctx, workspaceCacheKey(workspaceID))

	logger.AuditLogger.Info("Workspace member removed", zap.Int("workspace_id", workspaceID), zap.Int("member_id", memberID))
	return c.JSON(fiber.Map{
		"message": "Member removed successfully",
		"success": true,
		"status":  200,
	})
}
