package handler

import (
	"log/slog"
	"net/http"

	"tasker/internal/delivery/http/middleware"
	"tasker/internal/delivery/http/response"
	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TaskHandler holds dependencies for task handlers.
type TaskHandler struct {
	uc     usecase.TaskUsecase
	logger *slog.Logger
}

// NewTaskHandler is the constructor for TaskHandler, injected by Fx.
func NewTaskHandler(uc usecase.TaskUsecase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		uc:     uc,
		logger: logger,
	}
}

// Create handles the task creation request.
func (h *TaskHandler) Create(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid
	}

	var input usecase.CreateTaskInput
	if err := c.Bind(&input); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed task body")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	task, err := h.uc.CreateTask(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]any{
		"task": task,
	}, "Task created successfully")
}

// List returns the caller's tasks, newest first. An unrecognized status
// filter value is ignored rather than rejected.
func (h *TaskHandler) List(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid
	}

	var status *entity.TaskStatus
	if raw := c.QueryParam("status"); raw != "" {
		candidate := entity.TaskStatus(raw)
		if candidate.Valid() {
			status = &candidate
		}
	}

	output, err := h.uc.ListTasks(c.Request().Context(), userID, status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Tasks retrieved successfully")
}

// Get returns a single task owned by the caller.
func (h *TaskHandler) Get(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrTaskNotFound
	}

	task, err := h.uc.GetTask(c.Request().Context(), userID, taskID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"task": task,
	}, "Task retrieved successfully")
}

// Update applies a partial update to a task owned by the caller.
func (h *TaskHandler) Update(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrTaskNotFound
	}

	var input usecase.UpdateTaskInput
	if err := c.Bind(&input); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed task body")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	task, err := h.uc.UpdateTask(c.Request().Context(), userID, taskID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"task": task,
	}, "Task updated successfully")
}

// Delete removes a task owned by the caller.
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return domainerrors.ErrTokenInvalid
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrTaskNotFound
	}

	if err := h.uc.DeleteTask(c.Request().Context(), userID, taskID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Task deleted successfully")
}

// currentUserID reads the identity the auth middleware attached.
func currentUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)

	return userID, ok
}
