package test

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestRegisterAndLogin(t *testing.T) {
	app := CreateTestApp()

	email := fmt.Sprintf("reg_%d@example.com", time.Now().UnixNano())
	status, result := DoRequest(app, t, "POST", "/api/v1/auth/register", "", map[string]string{
		"name":     "Registration Test",
		"email":    email,
		"password": "secret123",
	})
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 from register, got %d", status)
	}
	data := Data(t, result)
	if data["role"] != "user" {
		t.Errorf("Expected role 'user', got %v", data["role"])
	}
	if _, hasToken := data["access_token"]; hasToken {
		t.Errorf("Register must not issue a token")
	}

	status, result = DoRequest(app, t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from login, got %d", status)
	}
	if token, _ := Data(t, result)["access_token"].(string); token == "" {
		t.Errorf("Expected access_token in login response")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := CreateTestApp()

	email := fmt.Sprintf("dup_%d@example.com", time.Now().UnixNano())
	body := map[string]string{
		"name":     "Duplicate Test",
		"email":    email,
		"password": "secret123",
	}
	if status, _ := DoRequest(app, t, "POST", "/api/v1/auth/register", "", body); status != http.StatusCreated {
		t.Fatalf("Expected 201 from first register, got %d", status)
	}
	status, result := DoRequest(app, t, "POST", "/api/v1/auth/register", "", body)
	if status != http.StatusConflict {
		t.Errorf("Expected 409 from duplicate register, got %d", status)
	}
	if result["message"] != "Email already registered" {
		t.Errorf("Unexpected message: %v", result["message"])
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLoginUniformFailure(t *testing.T) {
	app := CreateTestApp()
	_, _, email := CreateTestUser(app, t)

	statusUnknown, resultUnknown := DoRequest(app, t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    fmt.Sprintf("ghost_%d@example.com", time.Now().UnixNano()),
		"password": "whatever1",
	})
	statusWrong, resultWrong := DoRequest(app, t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "not-the-password",
	})

	if statusUnknown != http.StatusUnauthorized || statusWrong != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for both failures, got %d and %d", statusUnknown, statusWrong)
	}
	if resultUnknown["message"] != resultWrong["message"] {
		t.Errorf("Failure messages differ: %v vs %v", resultUnknown["message"], resultWrong["message"])
	}
}

func TestMe(t *testing.T) {
	app := CreateTestApp()
	token, userID, email := CreateTestUser(app, t)

	status, result := DoRequest(app, t, "GET", "/api/v1/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from me, got %d", status)
	}
	data := Data(t, result)
	if int(data["id"].(float64)) != userID {
		t.Errorf("Expected id %d, got %v", userID, data["id"])
	}
	if data["email"] != email {
		t.Errorf("Expected email %s, got %v", email, data["email"])
	}
}

func TestMeRejectsMissingToken(t *testing.T) {
	app := CreateTestApp()

	if status, _ := DoRequest(app, t, "GET", "/api/v1/auth/me", "", nil); status != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", status)
	}
	if status, _ := DoRequest(app, t, "GET", "/api/v1/auth/me", "not-a-jwt", nil); status != http.StatusUnauthorized {
		t.Errorf("Expected 401 with garbage token, got %d", status)
	}
}

func TestDeleteAccount(t *testing.T) {
	app := CreateTestApp()
	token, userID, email := CreateTestUser(app, t)

	status, _ := DoRequest(app, t, "DELETE", fmt.Sprintf("/api/v1/auth/account/%d", userID), token, map[string]string{
		"password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("Expected 401 with wrong password, got %d", status)
	}

	status, _ = DoRequest(app, t, "DELETE", fmt.Sprintf("/api/v1/auth/account/%d", userID), token, map[string]string{
		"password": "secret123",
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 from account delete, got %d", status)
	}

	// The row is gone, so login must fail afterwards.
	status, _ = DoRequest(app, t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("Expected 401 after account delete, got %d", status)
	}
}
