package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGetProfileBeforeFirstWrite(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.register(t, "alice", "secret1")

	w := env.do(t, "GET", "/api/profile", nil, cookies)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "null" {
		t.Errorf("Expected null body before first write, got %q", w.Body.String())
	}
}

func TestUpdateProfileCreatesOnFirstWrite(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.register(t, "alice", "secret1")

	w := env.do(t, "PATCH", "/api/profile", gin.H{"display_name": "Alice", "bio": "hello"}, cookies)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["display_name"] != "Alice" {
		t.Errorf("Expected display_name Alice, got %v", body["display_name"])
	}
	if body["bio"] != "hello" {
		t.Errorf("Expected bio hello, got %v", body["bio"])
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.register(t, "alice", "secret1")

	env.do(t, "PATCH", "/api/profile", gin.H{"display_name": "Alice"}, cookies)
	w := env.do(t, "PATCH", "/api/profile", gin.H{"email": "alice@example.com"}, cookies)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	body := decodeBody(t, w)
	if body["display_name"] != "Alice" {
		t.Errorf("Partial update must preserve unsupplied fields, got %v", body["display_name"])
	}
	if body["email"] != "alice@example.com" {
		t.Errorf("Expected updated email, got %v", body["email"])
	}
}

func TestUpdateProfileValidationEnumeratesAllViolations(t *testing.T) {
	env := setupTestEnv(t)
	cookies := env.register(t, "alice", "secret1")

	w := env.do(t, "PATCH", "/api/profile", gin.H{
		"email":        "not-an-email",
		"avatar_url":   "not a url",
		"display_name": strings.Repeat("x", 101),
	}, cookies)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	message, _ := decodeBody(t, w)["message"].(string)
	for _, field := range []string{"email", "avatar_url", "display_name"} {
		if !strings.Contains(message, field) {
			t.Errorf("Expected message to mention %s, got %q", field, message)
		}
	}
}

func TestProfileUnauthenticated(t *testing.T) {
	env := setupTestEnv(t)

	if w := env.do(t, "GET", "/api/profile", nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	if w := env.do(t, "PATCH", "/api/profile", gin.H{"bio": "x"}, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
