package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vncsmyrnk/tasks/internal/core/domain"
	"github.com/vncsmyrnk/tasks/internal/core/ports"
)

// TaskService runs task CRUD. Like UserService, its writes ignore request
// cancellation; each touches at most one row.
type TaskService struct {
	repo ports.TaskRepository
	log  *slog.Logger
	now  func() time.Time
}

func NewTaskService(repo ports.TaskRepository, log *slog.Logger) ports.TaskService {
	return &TaskService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func (s *TaskService) Create(ctx context.Context, owner *domain.User, input ports.CreateTaskInput) (*domain.Task, error) {
	if owner == nil {
		return nil, domain.ErrUnauthorized
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	ownerID := owner.ID
	task := &domain.Task{
		Title:       title,
		Priority:    input.Priority,
		Description: input.Description,
		UserID:      &ownerID,
	}
	if err := s.repo.Create(context.WithoutCancel(ctx), task); err != nil {
		return nil, fmt.Errorf("%w: failed to create task: %w", domain.ErrPersistence, err)
	}

	s.log.InfoContext(ctx, "task created", "task_id", task.ID, "user_id", ownerID)
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get task")
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tasks: %w", domain.ErrPersistence, err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Replace overwrites every column of the row, including deleted_at and
// is_default. A body that omits them restores a soft-deleted task.
func (s *TaskService) Replace(ctx context.Context, task *domain.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	if err := s.repo.Replace(context.WithoutCancel(ctx), task); err != nil {
		return storeError(err, "failed to replace task")
	}
	return nil
}

func (s *TaskService) UpdatePartial(ctx context.Context, id int64, patch domain.TaskPatch) error {
	if patch.Title.Set {
		if !patch.Title.Valid {
			return fmt.Errorf("%w: title cannot be null", domain.ErrValidation)
		}
		patch.Title.Value = strings.TrimSpace(patch.Title.Value)
		if patch.Title.Value == "" {
			return fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
	}

	if patch.IsEmpty() {
		_, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return storeError(err, "failed to get task")
		}
		return nil
	}

	if err := s.repo.UpdatePartial(context.WithoutCancel(ctx), id, patch); err != nil {
		return storeError(err, "failed to update task")
	}
	return nil
}

func (s *TaskService) SoftDelete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(context.WithoutCancel(ctx), id, s.now().UTC()); err != nil {
		return storeError(err, "failed to delete task")
	}
	s.log.InfoContext(ctx, "task soft deleted", "task_id", id)
	return nil
}

func (s *TaskService) HardDelete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByIDIncludingDeleted(ctx, id); err != nil {
		return storeError(err, "failed to get task")
	}

	rows, err := s.repo.Delete(context.WithoutCancel(ctx), id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete task: %w", domain.ErrPersistence, err)
	}
	if rows != 1 {
		return fmt.Errorf("%w: %d rows affected", domain.ErrDeleteMismatch, rows)
	}

	s.log.InfoContext(ctx, "task deleted", "task_id", id)
	return nil
}

// storeError passes not-found through and marks everything else as a
// persistence failure.
func storeError(err error, msg string) error {
	if errors.Is(err, domain.ErrTaskNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, msg, err)
}
