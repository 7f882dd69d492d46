package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/tasks/internal/core/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	GetByIDIncludingDeleted(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	Replace(ctx context.Context, task *domain.Task) error
	UpdatePartial(ctx context.Context, id int64, patch domain.TaskPatch) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type CreateTaskInput struct {
	Title       string
	Priority    *string
	Description *string
}

type TaskService interface {
	Create(ctx context.Context, owner *domain.User, input CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	Replace(ctx context.Context, task *domain.Task) error
	UpdatePartial(ctx context.Context, id int64, patch domain.TaskPatch) error
	SoftDelete(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
}
