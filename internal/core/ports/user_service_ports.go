package ports

import (
	"context"

	"github.com/vncsmyrnk/tasks/internal/core/domain"
)

type RegisterInput struct {
	Username string `validate:"required"`
	Password string `validate:"min=8,max=72"`
	Email    string `validate:"required,email"`
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) // returns user, session token, error
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	Logout(ctx context.Context, user *domain.User) error
}
