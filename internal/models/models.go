package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Role            string         `json:"role"`
	ProfileImageURL sql.NullString `json:"profile_image_url"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type Workspace struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Description    sql.NullString `json:"description"`
	Cover          sql.NullString `json:"cover"`
	Theme          string         `json:"theme"`
	ThemeColor     string         `json:"theme_color"`
	Icon           sql.NullString `json:"icon"`
	TasksTotal     int            `json:"tasks_total"`
	TasksCompleted int            `json:"tasks_completed"`
	TasksPending   int            `json:"tasks_pending"`
	IsFavorite     bool           `json:"is_favorite"`
	OwnerID        int            `json:"owner_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type WorkspaceMember struct {
	ID          int    `json:"id"`
	WorkspaceID int    `json:"workspace_id"`
	UserID      int    `json:"user_id"`
	Role        string `json:"role"`
}

type Board struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	WorkspaceID    int       `json:"workspace_id"`
	TasksTotal     int       `json:"tasks_total"`
	TasksCompleted int       `json:"tasks_completed"`
	TasksPending   int       `json:"tasks_pending"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type List struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
	BoardID  int    `json:"board_id"`
}

type Task struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Description sql.NullString `json:"description"`
	Position    int            `json:"position"`
	TaskStatus  bool           `json:"task_status"`
	ListID      int            `json:"list_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type TaskAssignee struct {
	ID     int `json:"id"`
	TaskID int `json:"task_id"`
	UserID int `json:"user_id"`
}

type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	TaskID    int       `json:"task_id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
