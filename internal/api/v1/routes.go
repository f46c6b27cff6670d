package v1

import (
	"taskboard/internal/api/v1/handlers"
	"taskboard/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Auth
	api.Post("/auth/register", handlers.Register)
	api.Post("/auth/login", handlers.Login)
	api.Get("/auth/me", middleware.UseToken, handlers.Me)
	api.Delete("/auth/account/:userId", middleware.UseToken, handlers.DeleteAccount)

	// User
	userRoutes := api.Group("/users", middleware.UseToken)
	userRoutes.Get("/", middleware.RequireAdmin, handlers.GetAllUsers)
	userRoutes.Get("/:id", handlers.GetUser)
	userRoutes.Put("/:id", handlers.UpdateUser)
	userRoutes.Delete("/:id", handlers.DeleteUser)

	// Workspace
	workspaceRoutes := api.Group("/workspaces", middleware.UseToken)
	workspaceRoutes.Post("/", handlers.CreateWorkspace)
	workspaceRoutes.Get("/", handlers.ListWorkspaces)
	workspaceRoutes.Get("/:id", handlers.GetWorkspace)
	workspaceRoutes.Get("/:id/overview", handlers.GetWorkspaceOverview)
	workspaceRoutes.Get("/:id/full", handlers.GetWorkspaceFull)
	workspaceRoutes.Put("/:id", handlers.UpdateWorkspace)
	workspaceRoutes.Delete("/:id", handlers.DeleteWorkspace)
	workspaceRoutes.Post("/:id/members", handlers.AddWorkspaceMember)
	workspaceRoutes.Delete("/:id/members/:memberId", handlers.RemoveWorkspaceMember)

	// Board
	boardRoutes := api.Group("/boards", middleware.UseToken)
	boardRoutes.Post("/", handlers.CreateBoard)
	boardRoutes.Get("/", handlers.ListBoards)
	boardRoutes.Get("/:id", handlers.GetBoard)
	boardRoutes.Put("/:id", handlers.UpdateBoard)
	boardRoutes.Delete("/:id", handlers.DeleteBoard)

	// List
	listRoutes := api.Group("/lists", middleware.UseToken)
	listRoutes.Post("/", handlers.CreateList)
	listRoutes.Get("/", handlers.ListLists)
	listRoutes.Get("/:id", handlers.GetList)
	listRoutes.Put("/:id", handlers.UpdateList)
	listRoutes.Delete("/:id", handlers.DeleteList)

	// Task
	taskRoutes := api.Group("/tasks", middleware.UseToken)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Put("/:id", handlers.UpdateTask)
	taskRoutes.Patch("/:id/status", handlers.ToggleTaskStatus)
	taskRoutes.Delete("/:id", handlers.DeleteTask)
	taskRoutes.Post("/:id/assign", handlers.AssignUser)
	taskRoutes.Delete("/:id/assign/:assigneeId", handlers.UnassignUser)
	taskRoutes.Post("/:id/comments", handlers.AddComment)
}
