package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/tasks/internal/core/domain"
	"github.com/vncsmyrnk/tasks/internal/core/ports"
)

type contextKey string

const userContextKey contextKey = "user"

const unauthorizedBody = `{"error":"not authenticated: log in or sign up"}` + "\n"

// UserFromContext returns the user attached by AuthMiddleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok && user != nil
}

func withUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// AuthMiddleware resolves the bearer token to a user. The token is looked up
// before its signature and expiry are checked, and every rejection produces
// the same response so callers cannot tell the causes apart.
func AuthMiddleware(users ports.UserRepository, creds ports.CredentialService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, r, log, "missing bearer token")
				return
			}

			user, err := users.GetByToken(ctx, token)
			if err != nil {
				writeServiceError(w, r, log, err)
				return
			}
			if user == nil {
				unauthorized(w, r, log, "unknown session token")
				return
			}

			if err := creds.ValidateToken(token); err != nil {
				unauthorized(w, r, log, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(ctx, user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, log *slog.Logger, reason string) {
	log.DebugContext(r.Context(), "request not authenticated", "reason", reason)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(unauthorizedBody))
}
