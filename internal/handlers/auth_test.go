package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dychi/todo-api/internal/auth"
	"github.com/dychi/todo-api/internal/dto"
	"github.com/dychi/todo-api/internal/handlers"
	"github.com/dychi/todo-api/internal/repo"
	"github.com/dychi/todo-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(sessionTTL time.Duration) (*gin.Engine, auth.SessionStore) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	sessions := auth.NewMemorySessionStore(sessionTTL)
	h := handlers.NewAuthHandler(sessions, service.NewUserService(repo.NewMemoryUserRepo()), sessionTTL)

	api := r.Group("/api/v1")
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
	return r, sessions
}

func sessionCookie(cookies []*http.Cookie) *http.Cookie {
	for _, c := range cookies {
		if c.Name == "session_id" {
			return c
		}
	}
	return nil
}

func TestRegisterSetsCookieWithSessionTTL(t *testing.T) {
	const ttl = 2 * time.Hour
	r, sessions := newAuthRouter(ttl)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		dto.RegisterRequest{Username: "alice", Password: "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	cookie := sessionCookie(w.Result().Cookies())
	require.NotNil(t, cookie, "session cookie must be set")
	assert.Equal(t, int(ttl.Seconds()), cookie.MaxAge, "cookie lifetime must follow the session TTL")
	assert.True(t, cookie.HttpOnly)

	_, ok := sessions.GetUserID(context.Background(), cookie.Value)
	assert.True(t, ok, "cookie must reference a live session")
}

func TestLoginSetsCookieWithSessionTTL(t *testing.T) {
	const ttl = 30 * time.Minute
	r, _ := newAuthRouter(ttl)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		dto.RegisterRequest{Username: "bob", Password: "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		dto.LoginRequest{Username: "bob", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK   bool             `json:"ok"`
		User dto.UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "bob", resp.User.Username)

	cookie := sessionCookie(w.Result().Cookies())
	require.NotNil(t, cookie)
	assert.Equal(t, int(ttl.Seconds()), cookie.MaxAge)
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := newAuthRouter(time.Hour)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		dto.RegisterRequest{Username: "carol", Password: "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		dto.LoginRequest{Username: "carol", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sessionCookie(w.Result().Cookies()))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r, _ := newAuthRouter(time.Hour)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		dto.RegisterRequest{Username: "dave", Password: "pw1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		dto.RegisterRequest{Username: "dave", Password: "pw2"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := newAuthRouter(time.Hour)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	cookie := sessionCookie(w.Result().Cookies())
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
