package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dychi/todo-api/internal/dto"
	"github.com/dychi/todo-api/internal/handlers"
	"github.com/dychi/todo-api/internal/repo"
	"github.com/dychi/todo-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewTodoHandler(service.NewTodoService(repo.NewMemoryTodoRepo(), nil))

	api := r.Group("/api/v1")
	api.POST("/todos", h.Create)
	api.GET("/todos", h.List)
	api.GET("/todos/search", h.Search)
	api.GET("/todos/:id", h.GetByID)
	api.PATCH("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
	api.POST("/todos/:id/complete", h.Complete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTodo(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.CreateTodoRequest{Text: "buy milk"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "buy milk", resp.Text)
	assert.False(t, resp.Completed)
}

func TestCreateTodoValidation(t *testing.T) {
	r := newTestRouter()

	t.Run("missing text", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/todos", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("text too long", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/todos",
			map[string]string{"text": strings.Repeat("a", 101)})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("text at limit", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/todos",
			map[string]string{"text": strings.Repeat("a", 100)})
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestGetTodoByID(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.CreateTodoRequest{Text: "find me"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "find me", resp.Text)
}

func TestGetTodoNotFound(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/api/v1/todos/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTodoInvalidID(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/api/v1/todos/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTodos(t *testing.T) {
	r := newTestRouter()

	for _, text := range []string{"one", "two", "three"} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.CreateTodoRequest{Text: text})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/todos", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 3)
}

func TestUpdateTodo(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.CreateTodoRequest{Text: "original"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Change only completed; text must survive.
	w = doJSON(t, r, http.MethodPatch, "/api/v1/todos/1", map[string]interface{}{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "original", resp.Text)
	assert.True(t, resp.Completed)

	// Change only text; completed must survive.
	w = doJSON(t, r, http.MethodPatch, "/api/v1/todos/1", map[string]interface{}{"text": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "renamed", resp.Text)
	assert.True(t, resp.Completed)
}

func TestUpdateTodoValidation(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.CreateTodoRequest{Text: "original"})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("empty text", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/v1/todos/1", map[string]interface{}{"text": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("text too long", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/api/v1/todos/1",
			map[string]interface{}{"text": strings.Repeat("a", 101)})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	// Rejected updates must not have touched the record.
	w = doJSON(t, r, http.MethodGet, "/api/v1/todos/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "original", resp.Text)
}

func TestUpdateTodoNotFound(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPatch, "/api/v1/todos/5", map[string]interface{}{"completed": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTodo(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.CreateTodoRequest{Text: "temp"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/todos/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/todos/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompleteTodo(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.CreateTodoRequest{Text: "task"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/todos/1/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Completed)
}

func TestSearchTodos(t *testing.T) {
	r := newTestRouter()

	for _, text := range []string{"buy milk", "buy bread", "walk the dog"} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.CreateTodoRequest{Text: text})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/todos/search?q=buy", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
}
