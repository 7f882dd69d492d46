package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/tasks/internal/core/domain"
	"github.com/vncsmyrnk/tasks/internal/core/ports"
)

type TaskHandler struct {
	service ports.TaskService
	log     *slog.Logger
}

func NewTaskHandler(service ports.TaskService, log *slog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		log:     log,
	}
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Priority    *string `json:"priority"`
	Description *string `json:"description"`
}

type patchTaskRequest struct {
	Title       domain.Optional[string]    `json:"title"`
	Priority    domain.Optional[string]    `json:"priority"`
	Description domain.Optional[string]    `json:"description"`
	CompletedAt domain.Optional[time.Time] `json:"completed_at"`
}

// CreateTask godoc
// @Summary      Creates a task owned by the authenticated user
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /add_task [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := UserFromContext(r.Context())
	if !ok {
		writeServiceError(w, r, h.log, domain.ErrUnauthorized)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.service.Create(r.Context(), owner, ports.CreateTaskInput{
		Title:       req.Title,
		Priority:    req.Priority,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// GetTask godoc
// @Summary      Gets an active task
// @Tags         tasks
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      404
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// ListTasks godoc
// @Summary      Lists active tasks
// @Description  title and priority filter by equality. An empty value matches tasks where the field is null.
// @Tags         tasks
// @Produce      json
// @Param        title     query  string  false  "title"
// @Param        priority  query  string  false  "priority"
// @Success      200
// @Router       /tasks [get]
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.TaskFilter
	if q.Has("title") {
		title := q.Get("title")
		filter.Title = &title
	}
	if q.Has("priority") {
		priority := q.Get("priority")
		filter.Priority = &priority
	}

	tasks, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// ReplaceTask godoc
// @Summary      Replaces a task
// @Description  Every column is overwritten. Omitted nullable fields are stored as null.
// @Tags         tasks
// @Accept       json
// @Success      200
// @Failure      400
// @Failure      404
// @Router       /tasks/{id} [put]
func (h *TaskHandler) ReplaceTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var task domain.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task.ID = id

	if err := h.service.Replace(r.Context(), &task); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeOK(w)
}

// PatchTask godoc
// @Summary      Partially updates a task
// @Description  Absent fields are kept, null clears a field. title cannot be cleared.
// @Tags         tasks
// @Accept       json
// @Success      200
// @Failure      400
// @Failure      404
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req patchTaskRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Priority:    req.Priority,
		Description: req.Description,
		CompletedAt: req.CompletedAt,
	}
	if err := h.service.UpdatePartial(r.Context(), id, patch); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeOK(w)
}

// DeleteTask godoc
// @Summary      Deletes a task
// @Description  is_soft=true marks the task deleted, is_soft=false removes the row.
// @Tags         tasks
// @Param        is_soft  query  bool  true  "soft delete"
// @Success      200
// @Failure      400
// @Failure      404
// @Failure      417
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	soft, err := strconv.ParseBool(r.URL.Query().Get("is_soft"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "is_soft must be true or false")
		return
	}

	if soft {
		err = h.service.SoftDelete(r.Context(), id)
	} else {
		err = h.service.HardDelete(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeOK(w)
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}
