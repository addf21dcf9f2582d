package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"todo-backend/backend/internal/config"
	"todo-backend/backend/internal/database"
	"todo-backend/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"
)

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("SQLITE_DB", filepath.Join(t.TempDir(), "todo.db"))

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(&database.Config{
		Path:         cfg.Database.Path,
		MaxOpenConns: 1,
		LogLevel:     logger.Silent,
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Init(db); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	return buildRouter(cfg, db)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, path, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createTask(t *testing.T, router *gin.Engine, title string) models.Task {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"title": title})
	w := doJSON(t, router, "POST", "/tasks", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d creating task, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to unmarshal created task: %v", err)
	}
	return task
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestServer(t)

	w := doJSON(t, router, "GET", "/", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != `{"message":"Healthy"}` {
		t.Errorf("Expected healthy message, got %s", w.Body.String())
	}
}

func TestCreateAndFetchRoundTrip(t *testing.T) {
	router := setupTestServer(t)

	created := createTask(t, router, "  Buy milk  ")
	if created.Title != "Buy milk" {
		t.Errorf("Expected trimmed title 'Buy milk', got %q", created.Title)
	}
	if created.Completed {
		t.Error("Expected new task to be incomplete")
	}

	w := doJSON(t, router, "GET", "/tasks/"+itoa(created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var fetched models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("Failed to unmarshal fetched task: %v", err)
	}
	if fetched != created {
		t.Errorf("Round trip mismatch: created %+v, fetched %+v", created, fetched)
	}
}

func TestListOrdering(t *testing.T) {
	router := setupTestServer(t)

	first := createTask(t, router, "first")
	second := createTask(t, router, "second")
	third := createTask(t, router, "third")

	if !(first.ID < second.ID && second.ID < third.ID) {
		t.Fatalf("Expected strictly increasing ids, got %d, %d, %d", first.ID, second.ID, third.ID)
	}

	w := doJSON(t, router, "GET", "/tasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var tasks []models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("Failed to unmarshal task list: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i-1].ID <= tasks[i].ID {
			t.Errorf("Expected descending id order, got %d before %d", tasks[i-1].ID, tasks[i].ID)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	router := setupTestServer(t)

	for _, body := range []string{`{"title":""}`, `{"title":"   "}`, `{}`} {
		w := doJSON(t, router, "POST", "/tasks", []byte(body))
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Body %s: expected status %d, got %d", body, http.StatusUnprocessableEntity, w.Code)
		}
	}

	w := doJSON(t, router, "GET", "/tasks", nil)
	var tasks []models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("Failed to unmarshal task list: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks after failed creates, got %d", len(tasks))
	}
}

func TestUpdateEmptyBodyLeavesTaskUntouched(t *testing.T) {
	router := setupTestServer(t)

	created := createTask(t, router, "untouched")

	w := doJSON(t, router, "PUT", "/tasks/"+itoa(created.ID), []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	w = doJSON(t, router, "GET", "/tasks/"+itoa(created.ID), nil)
	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to unmarshal task: %v", err)
	}
	if task != created {
		t.Errorf("Expected task unchanged after empty update, got %+v", task)
	}
}

func TestPartialUpdateKeepsTitle(t *testing.T) {
	router := setupTestServer(t)

	created := createTask(t, router, "keep my title")

	w := doJSON(t, router, "PUT", "/tasks/"+itoa(created.ID), []byte(`{"completed":true}`))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var updated models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to unmarshal task: %v", err)
	}
	if updated.Title != "keep my title" {
		t.Errorf("Expected title unchanged, got %q", updated.Title)
	}
	if !updated.Completed {
		t.Error("Expected task to be completed")
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("Expected created_at unchanged, got %q", updated.CreatedAt)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	router := setupTestServer(t)

	created := createTask(t, router, "flip me")

	w := doJSON(t, router, "POST", "/tasks/"+itoa(created.ID)+"/toggle", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	var once models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &once); err != nil {
		t.Fatalf("Failed to unmarshal task: %v", err)
	}
	if !once.Completed {
		t.Error("Expected first toggle to complete the task")
	}

	w = doJSON(t, router, "POST", "/tasks/"+itoa(created.ID)+"/toggle", nil)
	var twice models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &twice); err != nil {
		t.Fatalf("Failed to unmarshal task: %v", err)
	}
	if twice != created {
		t.Errorf("Expected double toggle to restore the task, got %+v", twice)
	}
}

func TestDeleteThenFetch(t *testing.T) {
	router := setupTestServer(t)

	created := createTask(t, router, "short lived")

	w := doJSON(t, router, "DELETE", "/tasks/"+itoa(created.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty delete response, got %q", w.Body.String())
	}

	w = doJSON(t, router, "GET", "/tasks/"+itoa(created.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d after delete, got %d", http.StatusNotFound, w.Code)
	}

	w = doJSON(t, router, "DELETE", "/tasks/"+itoa(created.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d deleting twice, got %d", http.StatusNotFound, w.Code)
	}
}

func TestNeverCreatedID(t *testing.T) {
	router := setupTestServer(t)

	w := doJSON(t, router, "GET", "/tasks/12345", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	router := setupTestServer(t)

	req, _ := http.NewRequest("GET", "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Expected credentials allowed, got %q", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	router := setupTestServer(t)

	req, _ := http.NewRequest("GET", "/tasks", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no allow-origin header for unknown origin, got %q", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := setupTestServer(t)

	w := doJSON(t, router, "GET", "/", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header on responses")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
