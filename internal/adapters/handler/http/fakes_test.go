package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vncsmyrnk/tasks/internal/core/domain"
	"github.com/vncsmyrnk/tasks/internal/core/ports"
	"github.com/vncsmyrnk/tasks/internal/logger"
)

type fakeUserRepo struct {
	byToken map[string]*domain.User
	err     error
}

func (f *fakeUserRepo) GetByUsername(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not used")
}

func (f *fakeUserRepo) GetByToken(_ context.Context, token string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byToken[token], nil
}

func (f *fakeUserRepo) Create(context.Context, *domain.User) error { return errors.New("not used") }
func (f *fakeUserRepo) Update(context.Context, *domain.User) error { return errors.New("not used") }

// fakeCreds treats any token prefixed with "valid" as cryptographically valid.
type fakeCreds struct{}

func (fakeCreds) HashPassword(string) (string, error)         { return "", nil }
func (fakeCreds) VerifyPassword(string, string) (bool, error) { return true, nil }
func (fakeCreds) IssueToken() (string, error)                 { return "valid-new", nil }

func (fakeCreds) ValidateToken(token string) error {
	switch {
	case strings.HasPrefix(token, "valid"):
		return nil
	case strings.HasPrefix(token, "expired"):
		return domain.ErrTokenExpired
	default:
		return domain.ErrTokenInvalid
	}
}

type fakeUserService struct {
	registerFn func(ports.RegisterInput) (*domain.User, string, error)
	loginFn    func(username, password string) (*domain.User, string, error)
	loggedOut  *domain.User
	logoutErr  error
}

func (f *fakeUserService) Register(_ context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	return f.registerFn(in)
}

func (f *fakeUserService) Login(_ context.Context, username, password string) (*domain.User, string, error) {
	return f.loginFn(username, password)
}

func (f *fakeUserService) Logout(_ context.Context, user *domain.User) error {
	f.loggedOut = user
	return f.logoutErr
}

type fakeTaskService struct {
	created  ports.CreateTaskInput
	owner    *domain.User
	filter   domain.TaskFilter
	replaced *domain.Task
	patched  domain.TaskPatch
	softID   int64
	hardID   int64
	tasks    []*domain.Task
	err      error
}

func (f *fakeTaskService) Create(_ context.Context, owner *domain.User, in ports.CreateTaskInput) (*domain.Task, error) {
	f.owner, f.created = owner, in
	if f.err != nil {
		return nil, f.err
	}
	id := owner.ID
	return &domain.Task{ID: 1, Title: in.Title, Priority: in.Priority, Description: in.Description, UserID: &id}, nil
}

func (f *fakeTaskService) Get(_ context.Context, id int64) (*domain.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Task{ID: id, Title: "t1"}, nil
}

func (f *fakeTaskService) List(_ context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

func (f *fakeTaskService) Replace(_ context.Context, task *domain.Task) error {
	f.replaced = task
	return f.err
}

func (f *fakeTaskService) UpdatePartial(_ context.Context, _ int64, patch domain.TaskPatch) error {
	f.patched = patch
	return f.err
}

func (f *fakeTaskService) SoftDelete(_ context.Context, id int64) error {
	f.softID = id
	return f.err
}

func (f *fakeTaskService) HardDelete(_ context.Context, id int64) error {
	f.hardID = id
	return f.err
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type testServer struct {
	handler http.Handler
	users   *fakeUserService
	tasks   *fakeTaskService
	repo    *fakeUserRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.Discard()
	ts := &testServer{
		users: &fakeUserService{},
		tasks: &fakeTaskService{},
		repo: &fakeUserRepo{byToken: map[string]*domain.User{
			"valid-alice":   {ID: 1, Username: "alice"},
			"expired-alice": {ID: 1, Username: "alice"},
			"forged-alice":  {ID: 1, Username: "alice"},
		}},
	}
	ts.handler = NewHandler(RouterConfig{
		AllowedOrigins: []string{"*"},
		Log:            log,
		Metrics:        NewMetrics(prometheus.NewRegistry()),
		Health:         NewHealthHandler(fakePinger{}, log),
		Users:          NewUserHandler(ts.users, log),
		Tasks:          NewTaskHandler(ts.tasks, log),
		Auth:           AuthMiddleware(ts.repo, fakeCreds{}, log),
	})
	return ts
}

func (ts *testServer) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}
