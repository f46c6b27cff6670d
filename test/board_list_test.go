package test

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCreateBoardRequiresWorkspace(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	status, _ := DoRequest(app, t, "POST", "/api/v1/boards", token, map[string]interface{}{
		"title":        "Orphan Board",
		"workspace_id": 999999,
	})
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown workspace, got %d", status)
	}

	status, _ = DoRequest(app, t, "POST", "/api/v1/boards", token, map[string]interface{}{
		"workspace_id": 1,
	})
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400 without title, got %d", status)
	}
}

func TestUpdateBoardTitle(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	workspaceID := createWorkspace(app, t, token, "Board Update Workspace")
	boardID := createBoard(app, t, token, workspaceID, "Old Title")

	status, result := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/boards/%d", boardID), token, map[string]interface{}{
		"title": "New Title",
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from board update, got %d", status)
	}
	data := Data(t, result)
	if data["title"] != "New Title" {
		t.Errorf("Expected updated title, got %v", data["title"])
	}
	// No workspace_id in the body, so the board stays put
	if int(data["workspace_id"].(float64)) != workspaceID {
		t.Errorf("Board changed workspace: %v", data["workspace_id"])
	}

	if status, _ := DoRequest(app, t, "PUT", "/api/v1/boards/999999", token, map[string]interface{}{
		"title": "Ghost",
	}); status != http.StatusNotFound {
		t.Errorf("Expected 404 updating missing board, got %d", status)
	}
}

func TestUpdateListPartial(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	workspaceID := createWorkspace(app, t, token, "List Update Workspace")
	boardID := createBoard(app, t, token, workspaceID, "List Update Board")
	listID := createList(app, t, token, boardID, "Backlog", 3)

	status, result := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/lists/%d", listID), token, map[string]interface{}{
		"position": 1,
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from list update, got %d", status)
	}
	data := Data(t, result)
	if int(data["position"].(float64)) != 1 {
		t.Errorf("Expected updated position, got %v", data["position"])
	}
	// Title untouched by a position-only update
	if data["title"] != "Backlog" {
		t.Errorf("Title changed unexpectedly: %v", data["title"])
	}
}

// Moving a board between workspaces carries its counter contribution along.
func TestUpdateBoardMoveAcrossWorkspaces(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	sourceWS := createWorkspace(app, t, token, "Board Move Source")
	targetWS := createWorkspace(app, t, token, "Board Move Target")
	boardID := createBoard(app, t, token, sourceWS, "Migrating Board")
	listID := createList(app, t, token, boardID, "Migrating List", 1)
	createTask(app, t, token, listID, "Carried task")

	status, result := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/boards/%d", boardID), token, map[string]interface{}{
		"workspace_id": targetWS,
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from board move, got %d", status)
	}
	if int(Data(t, result)["workspace_id"].(float64)) != targetWS {
		t.Fatalf("Board not reparented: %v", Data(t, result)["workspace_id"])
	}

	if total, completed, pending := workspaceCounters(app, t, token, sourceWS); total != 0 || completed != 0 || pending != 0 {
		t.Errorf("Source workspace counters not released: %d/%d/%d", total, completed, pending)
	}
	if total, completed, pending := workspaceCounters(app, t, token, targetWS); total != 1 || completed != 0 || pending != 1 {
		t.Errorf("Target workspace counters wrong: %d/%d/%d", total, completed, pending)
	}
	// The board itself keeps its own counters
	if total, completed, pending := boardCounters(app, t, token, boardID); total != 1 || completed != 0 || pending != 1 {
		t.Errorf("Board counters changed by the move: %d/%d/%d", total, completed, pending)
	}

	if status, _ := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/boards/%d", boardID), token, map[string]interface{}{
		"workspace_id": 999999,
	}); status != http.StatusNotFound {
		t.Errorf("Expected 404 moving to a missing workspace, got %d", status)
	}
}

// Moving a list between boards transfers its tasks' distribution.
func TestUpdateListMoveAcrossBoards(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	workspaceID := createWorkspace(app, t, token, "List Move Workspace")
	sourceBoard := createBoard(app, t, token, workspaceID, "List Move Source")
	targetBoard := createBoard(app, t, token, workspaceID, "List Move Target")
	listID := createList(app, t, token, sourceBoard, "Migrating List", 1)

	first := createTask(app, t, token, listID, "One")
	createTask(app, t, token, listID, "Two")
	if status, _ := DoRequest(app, t, "PATCH", fmt.Sprintf("/api/v1/tasks/%d/status", first), token, nil); status != http.StatusOK {
		t.Fatalf("Toggle failed")
	}

	status, result := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/lists/%d", listID), token, map[string]interface{}{
		"board_id": targetBoard,
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from list move, got %d", status)
	}
	if int(Data(t, result)["board_id"].(float64)) != targetBoard {
		t.Fatalf("List not reparented: %v", Data(t, result)["board_id"])
	}

	if total, completed, pending := boardCounters(app, t, token, sourceBoard); total != 0 || completed != 0 || pending != 0 {
		t.Errorf("Source board counters not released: %d/%d/%d", total, completed, pending)
	}
	if total, completed, pending := boardCounters(app, t, token, targetBoard); total != 2 || completed != 1 || pending != 1 {
		t.Errorf("Target board counters wrong: %d/%d/%d", total, completed, pending)
	}
	// Same workspace on both sides, so its totals are untouched
	if total, completed, pending := workspaceCounters(app, t, token, workspaceID); total != 2 || completed != 1 || pending != 1 {
		t.Errorf("Workspace counters changed by an intra-workspace move: %d/%d/%d", total, completed, pending)
	}

	if status, _ := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/lists/%d", listID), token, map[string]interface{}{
		"board_id": 999999,
	}); status != http.StatusNotFound {
		t.Errorf("Expected 404 moving to a missing board, got %d", status)
	}
}

func TestGetBoardAndListNotFound(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	if status, _ := DoRequest(app, t, "GET", "/api/v1/boards/999999", token, nil); status != http.StatusNotFound {
		t.Errorf("Expected 404 for missing board, got %d", status)
	}
	if status, _ := DoRequest(app, t, "GET", "/api/v1/lists/999999", token, nil); status != http.StatusNotFound {
		t.Errorf("Expected 404 for missing list, got %d", status)
	}
	if status, _ := DoRequest(app, t, "DELETE", "/api/v1/lists/999999", token, nil); status != http.StatusNotFound {
		t.Errorf("Expected 404 deleting missing list, got %d", status)
	}
}
