package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vncsmyrnk/tasks/internal/core/domain"
	"github.com/vncsmyrnk/tasks/internal/core/ports"
)

const taskColumns = `id, title, priority, description, user_id, completed_at, deleted_at, is_default`

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) ports.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (title, priority, description, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_default
	`
	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Priority, task.Description, task.UserID,
	).Scan(&task.ID, &task.IsDefault)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND deleted_at IS NULL`
	return r.getOne(ctx, query, id)
}

func (r *taskRepository) GetByIDIncludingDeleted(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *taskRepository) getOne(ctx context.Context, query string, id int64) (*domain.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (r *taskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	conds := []string{"deleted_at IS NULL"}
	var args []any

	addCond := func(column string, value *string) {
		switch {
		case value == nil:
		case *value == "":
			conds = append(conds, column+" IS NULL")
		default:
			args = append(args, *value)
			conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	addCond("title", filter.Title)
	addCond("priority", filter.Priority)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepository) Replace(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, priority = $2, description = $3, user_id = $4,
			completed_at = $5, deleted_at = $6, is_default = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		task.Title, task.Priority, task.Description, task.UserID,
		task.CompletedAt, task.DeletedAt, task.IsDefault, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to replace task: %w", err)
	}
	return expectOneRow(res)
}

func (r *taskRepository) UpdatePartial(ctx context.Context, id int64, patch domain.TaskPatch) error {
	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title.Set {
		set("title", patch.Title.Value)
	}
	if patch.Priority.Set {
		set("priority", patch.Priority.Ptr())
	}
	if patch.Description.Set {
		set("description", patch.Description.Ptr())
	}
	if patch.CompletedAt.Set {
		set("completed_at", patch.CompletedAt.Ptr())
	}
	if len(sets) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d AND deleted_at IS NULL`, strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return expectOneRow(res)
}

func (r *taskRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE tasks SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete task: %w", err)
	}
	return expectOneRow(res)
}

func (r *taskRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID, &task.Title, &task.Priority, &task.Description, &task.UserID,
		&task.CompletedAt, &task.DeletedAt, &task.IsDefault,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
