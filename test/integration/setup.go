package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/vncsmyrnk/tasks/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/tasks/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/tasks/internal/config"
	"github.com/vncsmyrnk/tasks/internal/core/ports"
	"github.com/vncsmyrnk/tasks/internal/core/services"
	"github.com/vncsmyrnk/tasks/internal/logger"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Tasks       ports.TaskRepository
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupTestApp(t *testing.T) *TestApp {
	return setupTestAppWithTTL(t, time.Minute)
}

func setupTestAppWithTTL(t *testing.T, ttl time.Duration) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, repo.RunMigrations(ctx, db))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseURL = dbURL
	cfg.JWTSecret = "test-secret"
	cfg.TokenTTL = ttl
	cfg.HashCost = bcrypt.MinCost

	log := logger.Discard()
	userRepo := repo.NewUserRepository(db)
	taskRepo := repo.NewTaskRepository(db)
	creds := services.NewCredentialService(cfg)

	router := handler.NewHandler(handler.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
		Metrics:        handler.NewMetrics(prometheus.NewRegistry()),
		Health:         handler.NewHealthHandler(db, log),
		Users:          handler.NewUserHandler(services.NewUserService(userRepo, creds, log), log),
		Tasks:          handler.NewTaskHandler(services.NewTaskService(taskRepo, log), log),
		Auth:           handler.AuthMiddleware(userRepo, creds, log),
	})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Tasks:       taskRepo,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// call sends body as JSON and returns the status and raw response body.
func (app *TestApp) call(t *testing.T, method, path string, body any, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

type session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

func (app *TestApp) register(t *testing.T, username, password, email string) session {
	t.Helper()
	status, raw := app.call(t, http.MethodPost, "/users", map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	}, "")
	require.Equal(t, http.StatusOK, status, string(raw))

	var s session
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}

func (app *TestApp) login(t *testing.T, username, password string) (int, session) {
	t.Helper()
	status, raw := app.call(t, http.MethodPost, "/users/login", map[string]string{
		"username": username,
		"password": password,
	}, "")

	var s session
	if status == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &s))
	}
	return status, s
}
