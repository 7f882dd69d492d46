package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	AllowedOrigins []string
	Log            *slog.Logger
	Metrics        *Metrics
	Health         *HealthHandler
	Users          *UserHandler
	Tasks          *TaskHandler
	Auth           func(http.Handler) http.Handler
}

func NewHandler(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Get("/healthz", cfg.Health.Liveness)
	r.Get("/readyz", cfg.Health.Readiness)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", cfg.Users.Register)
		r.Post("/login", cfg.Users.Login)
		r.With(cfg.Auth).Post("/logout", cfg.Users.Logout)
	})

	r.With(cfg.Auth).Post("/add_task", cfg.Tasks.CreateTask)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", cfg.Tasks.ListTasks)
		r.Get("/{id}", cfg.Tasks.GetTask)
		r.Put("/{id}", cfg.Tasks.ReplaceTask)
		r.Patch("/{id}", cfg.Tasks.PatchTask)
		r.Delete("/{id}", cfg.Tasks.DeleteTask)
	})

	return r
}
