package impl

import (
	"context"
	"log/slog"

	deliverycontext "tasker/internal/delivery/context"
	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"
	"tasker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// taskService implements the TaskUsecase interface.
type taskService struct {
	txManager repository.TransactionManager
	taskRepo  repository.TaskRepository
	logger    *slog.Logger
}

// TaskServiceParams holds dependencies for taskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	TaskRepo  repository.TaskRepository
	Logger    *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		txManager: params.TxManager,
		taskRepo:  params.TaskRepo,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateTask persists a new task owned by the given user. The status defaults
// to pending when omitted.
func (srv *taskService) CreateTask(ctx context.Context, userID uuid.UUID, input usecase.CreateTaskInput) (*entity.Task, error) {
	status := entity.TaskStatusPending
	if input.Status != "" {
		status = entity.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("invalid task status")
		}
	}

	task := &entity.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
	}

	if err := srv.taskRepo.Create(ctx, task); err != nil {
		srv.log(ctx).Error("Failed to create task", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create task")
	}

	srv.log(ctx).Debug("Task created", slog.Any("taskID", task.ID), slog.Any("userID", userID))

	return task, nil
}

// ListTasks returns the user's tasks, newest first, optionally filtered by status.
func (srv *taskService) ListTasks(ctx context.Context, userID uuid.UUID, status *entity.TaskStatus) (*usecase.TaskListOutput, error) {
	tasks, err := srv.taskRepo.ListByUserID(ctx, userID, status)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	return &usecase.TaskListOutput{
		Count: len(tasks),
		Tasks: tasks,
	}, nil
}

// GetTask retrieves a single task owned by the user.
func (srv *taskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*entity.Task, error) {
	task, err := srv.taskRepo.FindByIDForUser(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrTaskNotFound
		}

		return nil, errors.Wrap(err, "failed to load task")
	}

	return task, nil
}

// UpdateTask applies a partial update to a task owned by the user. Fields
// left nil in the input keep their stored values. The read-modify-write runs
// in one transaction so concurrent updates cannot interleave between the load
// and the save.
func (srv *taskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input usecase.UpdateTaskInput) (*entity.Task, error) {
	var task *entity.Task
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		taskRepo := repoFactory.TaskRepo()

		found, err := taskRepo.FindByIDForUser(ctx, taskID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				return domainerrors.ErrTaskNotFound
			}

			return errors.Wrap(err, "failed to load task for update")
		}

		if input.Title != nil {
			found.Title = *input.Title
		}
		if input.Description != nil {
			found.Description = *input.Description
		}
		if input.Status != nil {
			status := entity.TaskStatus(*input.Status)
			if !status.Valid() {
				return domainerrors.ErrValidationFailed.WithDetails("invalid task status")
			}
			found.Status = status
		}

		if err := taskRepo.Update(ctx, found); err != nil {
			srv.log(ctx).Error("Failed to update task", slog.Any("taskID", taskID), slog.Any("error", err))

			return errors.Wrap(err, "failed to update task")
		}

		task = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// DeleteTask removes a task owned by the user.
func (srv *taskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if err := srv.taskRepo.DeleteForUser(ctx, taskID, userID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return domainerrors.ErrTaskNotFound
		}

		return errors.Wrap(err, "failed to delete task")
	}

	srv.log(ctx).Debug("Task deleted", slog.Any("taskID", taskID), slog.Any("userID", userID))

	return nil
}
