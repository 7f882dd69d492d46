package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationTokenAuthenticates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	s := app.register(t, "alice", "password123", "alice@example.com")
	assert.NotZero(t, s.UserID)
	assert.Equal(t, "alice@example.com", s.Email)

	status, raw := app.call(t, http.MethodPost, "/add_task", map[string]string{"title": "t1"}, s.Token)
	require.Equal(t, http.StatusOK, status, string(raw))

	var ownerID int64
	err := app.DB.QueryRow("SELECT user_id FROM tasks WHERE title = 't1'").Scan(&ownerID)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, ownerID)
}

func TestRegistration_Rejects(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	app.register(t, "alice", "password123", "alice@example.com")

	status, _ := app.call(t, http.MethodPost, "/users", map[string]string{
		"username": "alice", "password": "password456", "email": "other@example.com",
	}, "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = app.call(t, http.MethodPost, "/users", map[string]string{
		"username": "bob", "password": "short", "email": "bob@example.com",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	var count int
	require.NoError(t, app.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLogin_NoLockout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	first := app.register(t, "alice", "password123", "alice@example.com")

	for range 5 {
		status, _ := app.login(t, "alice", "wrongpass")
		require.Equal(t, http.StatusUnauthorized, status)
	}

	status, second := app.login(t, "alice", "password123")
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, first.Token, second.Token)

	status, _ = app.login(t, "nobody", "password123")
	assert.Equal(t, http.StatusNotFound, status)

	// Only the latest login holds a session.
	status, _ = app.call(t, http.MethodPost, "/add_task", map[string]string{"title": "t1"}, first.Token)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = app.call(t, http.MethodPost, "/add_task", map[string]string{"title": "t1"}, second.Token)
	assert.Equal(t, http.StatusOK, status)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	s := app.register(t, "alice", "password123", "alice@example.com")

	status, _ := app.call(t, http.MethodPost, "/users/logout", nil, s.Token)
	require.Equal(t, http.StatusNoContent, status)

	var token *string
	require.NoError(t, app.DB.QueryRow("SELECT token FROM users WHERE id = $1", s.UserID).Scan(&token))
	assert.Nil(t, token)

	status, _ = app.call(t, http.MethodPost, "/users/logout", nil, s.Token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestExpiredTokenRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestAppWithTTL(t, time.Second)
	defer app.Teardown(t)

	s := app.register(t, "alice", "password123", "alice@example.com")
	time.Sleep(2 * time.Second)

	status, expiredBody := app.call(t, http.MethodPost, "/add_task", map[string]string{"title": "t1"}, s.Token)
	assert.Equal(t, http.StatusUnauthorized, status)

	_, unknownBody := app.call(t, http.MethodPost, "/add_task", map[string]string{"title": "t1"}, "not-a-token")
	assert.Equal(t, string(unknownBody), string(expiredBody))
}
