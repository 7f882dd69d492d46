package domain

import "time"

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Priority    *string    `json:"priority"`
	Description *string    `json:"description"`
	UserID      *int64     `json:"user_id"`
	CompletedAt *time.Time `json:"completed_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
	IsDefault   *bool      `json:"is_default"`
}

// TaskFilter constrains List. A nil field imposes no constraint, a pointer
// to an empty string matches NULL and any other value matches exactly.
type TaskFilter struct {
	Title    *string
	Priority *string
}

// TaskPatch carries a partial update. Title cannot be cleared, so only its
// Set/Value states are meaningful.
type TaskPatch struct {
	Title       Optional[string]
	Priority    Optional[string]
	Description Optional[string]
	CompletedAt Optional[time.Time]
}

func (p TaskPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Priority.Set && !p.Description.Set && !p.CompletedAt.Set
}
