package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vncsmyrnk/tasks/internal/core/domain"
)

var errStoreDown = errors.New("connection refused")

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*domain.User
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Token != nil && *u.Token == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.Username] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[user.Username]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	r.users[user.Username] = &cp
	return nil
}

type fakeTaskRepo struct {
	mu        sync.Mutex
	nextID    int64
	tasks     map[int64]*domain.Task
	err       error
	deleteRow int64 // overrides rows affected by Delete when non-zero
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*domain.Task{}}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	task.ID = r.nextID
	if task.IsDefault == nil {
		f := false
		task.IsDefault = &f
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.tasks[id]
	if !ok || t.DeletedAt != nil {
		return nil, domain.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) GetByIDIncludingDeleted(_ context.Context, id int64) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if t.DeletedAt != nil {
			continue
		}
		if !matches(filter.Title, &t.Title) || !matches(filter.Priority, t.Priority) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matches(want, got *string) bool {
	switch {
	case want == nil:
		return true
	case *want == "":
		return got == nil
	default:
		return got != nil && *got == *want
	}
}

func (r *fakeTaskRepo) Replace(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) UpdatePartial(_ context.Context, id int64, patch domain.TaskPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	t, ok := r.tasks[id]
	if !ok || t.DeletedAt != nil {
		return domain.ErrTaskNotFound
	}
	if patch.Title.Set {
		t.Title = patch.Title.Value
	}
	if patch.Priority.Set {
		t.Priority = patch.Priority.Ptr()
	}
	if patch.Description.Set {
		t.Description = patch.Description.Ptr()
	}
	if patch.CompletedAt.Set {
		t.CompletedAt = patch.CompletedAt.Ptr()
	}
	return nil
}

func (r *fakeTaskRepo) SoftDelete(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	t, ok := r.tasks[id]
	if !ok || t.DeletedAt != nil {
		return domain.ErrTaskNotFound
	}
	t.DeletedAt = &at
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	if r.deleteRow != 0 {
		return r.deleteRow, nil
	}
	if _, ok := r.tasks[id]; !ok {
		return 0, nil
	}
	delete(r.tasks, id)
	return 1, nil
}
