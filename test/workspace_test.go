package test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func createWorkspace(app *fiber.App, t *testing.T, token, name string) int {
	t.Helper()
	status, result := DoRequest(app, t, "POST", "/api/v1/workspaces", token, map[string]string{
		"name": name,
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 from create workspace, got %d", status)
	}
	return int(Data(t, result)["workspace_id"].(float64))
}

func createBoard(app *fiber.App, t *testing.T, token string, workspaceID int, title string) int {
	t.Helper()
	status, result := DoRequest(app, t, "POST", "/api/v1/boards", token, map[string]interface{}{
		"title":        title,
		"workspace_id": workspaceID,
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 from create board, got %d", status)
	}
	return int(Data(t, result)["id"].(float64))
}

func createList(app *fiber.App, t *testing.T, token string, boardID int, title string, position int) int {
	t.Helper()
	status, result := DoRequest(app, t, "POST", "/api/v1/lists", token, map[string]interface{}{
		"title":    title,
		"position": position,
		"board_id": boardID,
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 from create list, got %d", status)
	}
	return int(Data(t, result)["id"].(float64))
}

func TestCreateWorkspace(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	status, result := DoRequest(app, t, "POST", "/api/v1/workspaces", token, map[string]string{
		"name": "Marketing Campaign",
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}
	data := Data(t, result)

	id, _ := data["id"].(string)
	if !strings.HasPrefix(id, "ws-marketing-campaign") {
		t.Errorf("Expected slug id with ws- prefix, got %q", id)
	}
	if data["title"] != "Marketing Campaign" {
		t.Errorf("Expected title back, got %v", data["title"])
	}
	tasks := data["tasks"].(map[string]interface{})
	if tasks["total"].(float64) != 0 || tasks["completed"].(float64) != 0 || tasks["pending"].(float64) != 0 {
		t.Errorf("Expected zeroed counters, got %v", tasks)
	}
	// The owner membership row is created alongside the workspace
	if data["members"].(float64) != 1 {
		t.Errorf("Expected 1 member, got %v", data["members"])
	}
}

func TestWorkspaceSlugCollision(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	name := fmt.Sprintf("Slug Clash %d", time.Now().UnixNano())
	_, first := DoRequest(app, t, "POST", "/api/v1/workspaces", token, map[string]string{"name": name})
	_, second := DoRequest(app, t, "POST", "/api/v1/workspaces", token, map[string]string{"name": name})

	firstID := Data(t, first)["id"].(string)
	secondID := Data(t, second)["id"].(string)
	if firstID == secondID {
		t.Errorf("Expected distinct slugs for the same name, got %q twice", firstID)
	}
	if !strings.HasPrefix(secondID, firstID) {
		t.Errorf("Expected suffixed slug, got %q and %q", firstID, secondID)
	}
}

func TestListWorkspacesScoped(t *testing.T) {
	app := CreateTestApp()
	ownerToken, _, _ := CreateTestUser(app, t)
	memberToken, memberID, _ := CreateTestUser(app, t)

	workspaceID := createWorkspace(app, t, ownerToken, "Scoped Workspace")

	// The second user sees nothing yet
	_, result := DoRequest(app, t, "GET", "/api/v1/workspaces", memberToken, nil)
	for _, item := range result["data"].([]interface{}) {
		if int(item.(map[string]interface{})["workspace_id"].(float64)) == workspaceID {
			t.Fatalf("Non-member can see the workspace in their listing")
		}
	}

	status, _ := DoRequest(app, t, "POST", fmt.Sprintf("/api/v1/workspaces/%d/members", workspaceID), ownerToken, map[string]interface{}{
		"user_id": memberID,
		"role":    "member",
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 from add member, got %d", status)
	}

	_, result = DoRequest(app, t, "GET", "/api/v1/workspaces", memberToken, nil)
	found := false
	for _, item := range result["data"].([]interface{}) {
		if int(item.(map[string]interface{})["workspace_id"].(float64)) == workspaceID {
			found = true
		}
	}
	if !found {
		t.Errorf("Member does not see the workspace in their listing")
	}
}

// Existing but inaccessible workspaces return 403; missing ones return 404.
func TestWorkspaceAccessStatusCodes(t *testing.T) {
	app := CreateTestApp()
	ownerToken, _, _ := CreateTestUser(app, t)
	strangerToken, _, _ := CreateTestUser(app, t)

	workspaceID := createWorkspace(app, t, ownerToken, "Private Workspace")

	if status, _ := DoRequest(app, t, "GET", fmt.Sprintf("/api/v1/workspaces/%d", workspaceID), strangerToken, nil); status != http.StatusForbidden {
		t.Errorf("Expected 403 for stranger, got %d", status)
	}
	if status, _ := DoRequest(app, t, "GET", "/api/v1/workspaces/999999", ownerToken, nil); status != http.StatusNotFound {
		t.Errorf("Expected 404 for missing workspace, got %d", status)
	}
}

func TestUpdateWorkspace(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)
	workspaceID := createWorkspace(app, t, token, "Update Me")

	status, result := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/workspaces/%d", workspaceID), token, map[string]interface{}{
		"name":        "Updated Workspace",
		"is_favorite": true,
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from update, got %d", status)
	}
	data := Data(t, result)
	if data["title"] != "Updated Workspace" {
		t.Errorf("Expected updated title, got %v", data["title"])
	}
	if data["is_favorite"] != true {
		t.Errorf("Expected is_favorite true, got %v", data["is_favorite"])
	}
	// The slug keeps its creation-time value
	if !strings.HasPrefix(data["id"].(string), "ws-update-me") {
		t.Errorf("Slug changed on rename: %v", data["id"])
	}
}

// Nullable workspace fields are cleared by an explicit null but survive
// updates that omit them.
func TestUpdateWorkspaceExplicitNullClears(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	status, result := DoRequest(app, t, "POST", "/api/v1/workspaces", token, map[string]interface{}{
		"name":        "Nullable Workspace",
		"description": "campaign notes",
		"icon":        "rocket",
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}
	workspaceID := int(Data(t, result)["workspace_id"].(float64))

	// Renaming alone keeps both nullable fields
	status, result = DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/workspaces/%d", workspaceID), token, map[string]interface{}{
		"name": "Still Nullable",
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	data := Data(t, result)
	if data["desc"] != "campaign notes" || data["icon"] != "rocket" {
		t.Fatalf("Nullable fields lost by an unrelated update: %v / %v", data["desc"], data["icon"])
	}

	// Explicit null clears the description, icon stays
	status, result = DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/workspaces/%d", workspaceID), token, map[string]interface{}{
		"description": nil,
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	data = Data(t, result)
	if data["desc"] != "" {
		t.Errorf("Expected cleared description, got %v", data["desc"])
	}
	if data["icon"] != "rocket" {
		t.Errorf("Icon cleared by a description-only null: %v", data["icon"])
	}
}

func TestWorkspaceMembers(t *testing.T) {
	app := CreateTestApp()
	ownerToken, _, _ := CreateTestUser(app, t)
	_, memberUserID, memberEmail := CreateTestUser(app, t)

	workspaceID := createWorkspace(app, t, ownerToken, "Member Workspace")

	status, result := DoRequest(app, t, "POST", fmt.Sprintf("/api/v1/workspaces/%d/members", workspaceID), ownerToken, map[string]interface{}{
		"user_id": memberUserID,
		"role":    "member",
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 from add member, got %d", status)
	}
	membershipID := int(Data(t, result)["id"].(float64))

	_, result = DoRequest(app, t, "GET", fmt.Sprintf("/api/v1/workspaces/%d", workspaceID), ownerToken, nil)
	members := Data(t, result)["members_detail"].([]interface{})
	if len(members) != 2 {
		t.Fatalf("Expected owner plus member, got %d entries", len(members))
	}
	found := false
	for _, m := range members {
		entry := m.(map[string]interface{})
		if entry["user_email"] == memberEmail && entry["role"] == "member" {
			found = true
		}
	}
	if !found {
		t.Errorf("Added member missing from members_detail")
	}

	status, _ = DoRequest(app, t, "DELETE", fmt.Sprintf("/api/v1/workspaces/%d/members/%d", workspaceID, membershipID), ownerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from remove member, got %d", status)
	}
	status, _ = DoRequest(app, t, "DELETE", fmt.Sprintf("/api/v1/workspaces/%d/members/%d", workspaceID, membershipID), ownerToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 removing the same member twice, got %d", status)
	}

	// Unknown workspace and unknown user both 404
	status, _ = DoRequest(app, t, "POST", "/api/v1/workspaces/999999/members", ownerToken, map[string]interface{}{
		"user_id": memberUserID,
		"role":    "member",
	})
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown workspace, got %d", status)
	}
	status, _ = DoRequest(app, t, "POST", fmt.Sprintf("/api/v1/workspaces/%d/members", workspaceID), ownerToken, map[string]interface{}{
		"user_id": 999999,
		"role":    "member",
	})
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown user, got %d", status)
	}
}

func TestDeleteWorkspaceCascade(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	workspaceID := createWorkspace(app, t, token, "Cascade Workspace")
	boardID := createBoard(app, t, token, workspaceID, "Cascade Board")
	listID := createList(app, t, token, boardID, "Cascade List", 1)

	status, result := DoRequest(app, t, "POST", "/api/v1/tasks", token, map[string]interface{}{
		"title":   "Cascade Task",
		"list_id": listID,
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 from create task, got %d", status)
	}
	taskID := int(Data(t, result)["id"].(float64))

	if status, _ := DoRequest(app, t, "DELETE", fmt.Sprintf("/api/v1/workspaces/%d", workspaceID), token, nil); status != http.StatusOK {
		t.Fatalf("Expected 200 from workspace delete, got %d", status)
	}

	if status, _ := DoRequest(app, t, "GET", fmt.Sprintf("/api/v1/boards/%d", boardID), token, nil); status != http.StatusNotFound {
		t.Errorf("Board survived the cascade, got %d", status)
	}
	if status, _ := DoRequest(app, t, "GET", fmt.Sprintf("/api/v1/lists/%d", listID), token, nil); status != http.StatusNotFound {
		t.Errorf("List survived the cascade, got %d", status)
	}
	if status, _ := DoRequest(app, t, "GET", fmt.Sprintf("/api/v1/tasks/%d", taskID), token, nil); status != http.StatusNotFound {
		t.Errorf("Task survived the cascade, got %d", status)
	}
}

func TestWorkspaceOverviewAndFull(t *testing.T) {
	app := CreateTestApp()
	token, _, _ := CreateTestUser(app, t)

	workspaceID := createWorkspace(app, t, token, "Overview Workspace")
	boardID := createBoard(app, t, token, workspaceID, "Overview Board")
	todoID := createList(app, t, token, boardID, "Todo", 1)
	doneID := createList(app, t, token, boardID, "Done", 2)

	DoRequest(app, t, "POST", "/api/v1/tasks", token, map[string]interface{}{
		"title": "First", "list_id": todoID, "position": 1,
	})
	DoRequest(app, t, "POST", "/api/v1/tasks", token, map[string]interface{}{
		"title": "Second", "list_id": doneID, "position": 1, "task_status": true,
	})

	status, result := DoRequest(app, t, "GET", fmt.Sprintf("/api/v1/workspaces/%d/overview", workspaceID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from overview, got %d", status)
	}
	data := Data(t, result)
	tasks := data["tasks"].(map[string]interface{})
	// Overview aggregates live from the tasks table, so the completed flag
	// set at creation is visible here.
	if tasks["total"].(float64) != 2 || tasks["completed"].(float64) != 1 || tasks["pending"].(float64) != 1 {
		t.Errorf("Unexpected live aggregation: %v", tasks)
	}
	boardStats := data["board_stats"].([]interface{})
	if len(boardStats) != 1 {
		t.Fatalf("Expected one board in stats, got %d", len(boardStats))
	}
	stat := boardStats[0].(map[string]interface{})
	if stat["list_count"].(float64) != 2 || stat["task_count"].(float64) != 2 {
		t.Errorf("Unexpected board stats: %v", stat)
	}

	status, result = DoRequest(app, t, "GET", fmt.Sprintf("/api/v1/workspaces/%d/full", workspaceID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from full tree, got %d", status)
	}
	trees := Data(t, result)["board_trees"].([]interface{})
	if len(trees) != 1 {
		t.Fatalf("Expected one board tree, got %d", len(trees))
	}
	lists := trees[0].(map[string]interface{})["lists"].([]interface{})
	if len(lists) != 2 {
		t.Fatalf("Expected two lists in tree, got %d", len(lists))
	}
	firstList := lists[0].(map[string]interface{})
	if firstList["title"] != "Todo" {
		t.Errorf("Lists out of position order: %v", firstList["title"])
	}
	if len(firstList["tasks"].([]interface{})) != 1 {
		t.Errorf("Expected one task under Todo")
	}
}
