package test

import (
	"fmt"
	"net/http"
	"testing"
)

func TestGetAllUsersRequiresAdmin(t *testing.T) {
	app := CreateTestApp()

	userToken, _, _ := CreateTestUser(app, t)
	if status, _ := DoRequest(app, t, "GET", "/api/v1/users", userToken, nil); status != http.StatusForbidden {
		t.Errorf("Expected 403 for non-admin, got %d", status)
	}

	adminToken, _, _ := CreateTestAdmin(app, t)
	status, result := DoRequest(app, t, "GET", "/api/v1/users", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 for admin, got %d", status)
	}
	if data, ok := result["data"].([]interface{}); !ok || len(data) == 0 {
		t.Errorf("Expected non-empty user list")
	}
}

func TestGetUserSelfOrAdmin(t *testing.T) {
	app := CreateTestApp()
	token, userID, email := CreateTestUser(app, t)
	otherToken, _, _ := CreateTestUser(app, t)

	status, result := DoRequest(app, t, "GET", fmt.Sprintf("/api/v1/users/%d", userID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 reading own account, got %d", status)
	}
	if Data(t, result)["email"] != email {
		t.Errorf("Expected email %s, got %v", email, Data(t, result)["email"])
	}

	if status, _ := DoRequest(app, t, "GET", fmt.Sprintf("/api/v1/users/%d", userID), otherToken, nil); status != http.StatusForbidden {
		t.Errorf("Expected 403 reading someone else's account, got %d", status)
	}

	adminToken, _, _ := CreateTestAdmin(app, t)
	if status, _ := DoRequest(app, t, "GET", fmt.Sprintf("/api/v1/users/%d", userID), adminToken, nil); status != http.StatusOK {
		t.Errorf("Expected 200 for admin read, got %d", status)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	app := CreateTestApp()
	token, userID, email := CreateTestUser(app, t)

	status, result := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/users/%d", userID), token, map[string]string{
		"name": "Renamed User",
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from update, got %d", status)
	}
	data := Data(t, result)
	if data["name"] != "Renamed User" {
		t.Errorf("Expected updated name, got %v", data["name"])
	}
	// Untouched fields keep their values
	if data["email"] != email {
		t.Errorf("Email changed unexpectedly: %v", data["email"])
	}
}

func TestUpdateUserPasswordRotation(t *testing.T) {
	app := CreateTestApp()
	token, userID, email := CreateTestUser(app, t)

	status, _ := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/users/%d", userID), token, map[string]string{
		"password": "rotated456",
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from password update, got %d", status)
	}

	if status, _ := DoRequest(app, t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	}); status != http.StatusUnauthorized {
		t.Errorf("Old password still accepted, got %d", status)
	}
	if status, _ := DoRequest(app, t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "rotated456",
	}); status != http.StatusOK {
		t.Errorf("New password rejected, got %d", status)
	}
}

func TestUpdateUserExplicitNullClearsImage(t *testing.T) {
	app := CreateTestApp()
	token, userID, _ := CreateTestUser(app, t)

	status, result := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/users/%d", userID), token, map[string]interface{}{
		"profile_image_url": "https://cdn.example.com/avatar.png",
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 setting image, got %d", status)
	}
	img := Data(t, result)["profile_image_url"].(map[string]interface{})
	if img["Valid"] != true || img["String"] != "https://cdn.example.com/avatar.png" {
		t.Fatalf("Image not stored: %v", img)
	}

	// Name-only update keeps the image
	status, result = DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/users/%d", userID), token, map[string]interface{}{
		"name": "Image Keeper",
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	img = Data(t, result)["profile_image_url"].(map[string]interface{})
	if img["Valid"] != true {
		t.Fatalf("Image lost by an unrelated update: %v", img)
	}

	// Explicit null clears it
	status, result = DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/users/%d", userID), token, map[string]interface{}{
		"profile_image_url": nil,
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 clearing image, got %d", status)
	}
	img = Data(t, result)["profile_image_url"].(map[string]interface{})
	if img["Valid"] != false {
		t.Errorf("Expected cleared image, got %v", img)
	}
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	app := CreateTestApp()
	token, userID, _ := CreateTestUser(app, t)
	_, _, takenEmail := CreateTestUser(app, t)

	status, result := DoRequest(app, t, "PUT", fmt.Sprintf("/api/v1/users/%d", userID), token, map[string]interface{}{
		"email": takenEmail,
	})
	if status != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate email, got %d", status)
	}
	if result["message"] != "Email already registered" {
		t.Errorf("Unexpected message: %v", result["message"])
	}
}

func TestDeleteUser(t *testing.T) {
	app := CreateTestApp()
	token, userID, _ := CreateTestUser(app, t)
	_, otherID, _ := CreateTestUser(app, t)

	if status, _ := DoRequest(app, t, "DELETE", fmt.Sprintf("/api/v1/users/%d", otherID), token, nil); status != http.StatusForbidden {
		t.Errorf("Expected 403 deleting someone else, got %d", status)
	}

	if status, _ := DoRequest(app, t, "DELETE", fmt.Sprintf("/api/v1/users/%d", userID), token, nil); status != http.StatusOK {
		t.Errorf("Expected 200 deleting own account, got %d", status)
	}

	// Deleted principals no longer pass the token middleware.
	if status, _ := DoRequest(app, t, "GET", "/api/v1/auth/me", token, nil); status != http.StatusUnauthorized {
		t.Errorf("Expected 401 for deleted principal, got %d", status)
	}

	adminToken, _, _ := CreateTestAdmin(app, t)
	if status, _ := DoRequest(app, t, "DELETE", fmt.Sprintf("/api/v1/users/%d", otherID), adminToken, nil); status != http.StatusOK {
		t.Errorf("Expected 200 for admin delete, got %d", status)
	}
}
