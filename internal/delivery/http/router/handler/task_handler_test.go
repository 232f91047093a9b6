package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTask(userID uuid.UUID) *entity.Task {
	return &entity.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Write report",
		Status:    entity.TaskStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestTaskHandler_Create_Success(t *testing.T) {
	srv := newTestServer(t)
	userID := uuid.New()
	token := srv.seedAuthenticatedUser(userID)

	srv.tasks.createFn = func(_ context.Context, id uuid.UUID, input usecase.CreateTaskInput) (*entity.Task, error) {
		assert.Equal(t, userID, id)
		assert.Equal(t, "Write report", input.Title)

		return sampleTask(id), nil
	}

	rec := srv.request(http.MethodPost, "/api/tasks",
		`{"title":"Write report"}`, map[string]string{"Authorization": "Bearer " + token})

	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	task, ok := env.Data["task"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Write report", task["title"])
}

func TestTaskHandler_Create_TitleRequired(t *testing.T) {
	srv := newTestServer(t)
	token := srv.seedAuthenticatedUser(uuid.New())

	srv.tasks.createFn = func(context.Context, uuid.UUID, usecase.CreateTaskInput) (*entity.Task, error) {
		t.Fatal("usecase must not be reached on validation failure")

		return nil, nil
	}

	rec := srv.request(http.MethodPost, "/api/tasks",
		`{"description":"no title"}`, map[string]string{"Authorization": "Bearer " + token})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Location)
}

func TestTaskHandler_Create_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.request(http.MethodPost, "/api/tasks", `{"title":"X"}`, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTaskHandler_List_Success(t *testing.T) {
	srv := newTestServer(t)
	userID := uuid.New()
	token := srv.seedAuthenticatedUser(userID)

	srv.tasks.listFn = func(_ context.Context, id uuid.UUID, status *entity.TaskStatus) (*usecase.TaskListOutput, error) {
		assert.Nil(t, status)

		return &usecase.TaskListOutput{
			Count: 2,
			Tasks: []*entity.Task{sampleTask(id), sampleTask(id)},
		}, nil
	}

	rec := srv.request(http.MethodGet, "/api/tasks", "", map[string]string{
		"Authorization": "Bearer " + token,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, float64(2), env.Data["count"])

	tasks, ok := env.Data["tasks"].([]any)
	require.True(t, ok)
	assert.Len(t, tasks, 2)
}

func TestTaskHandler_List_ValidStatusFilter(t *testing.T) {
	srv := newTestServer(t)
	token := srv.seedAuthenticatedUser(uuid.New())

	srv.tasks.listFn = func(_ context.Context, _ uuid.UUID, status *entity.TaskStatus) (*usecase.TaskListOutput, error) {
		require.NotNil(t, status)
		assert.Equal(t, entity.TaskStatusDone, *status)

		return &usecase.TaskListOutput{Count: 0, Tasks: []*entity.Task{}}, nil
	}

	rec := srv.request(http.MethodGet, "/api/tasks?status=done", "", map[string]string{
		"Authorization": "Bearer " + token,
	})

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskHandler_List_UnknownStatusIgnored(t *testing.T) {
	srv := newTestServer(t)
	token := srv.seedAuthenticatedUser(uuid.New())

	srv.tasks.listFn = func(_ context.Context, _ uuid.UUID, status *entity.TaskStatus) (*usecase.TaskListOutput, error) {
		// An unrecognized filter value falls back to "no filter".
		assert.Nil(t, status)

		return &usecase.TaskListOutput{Count: 0, Tasks: []*entity.Task{}}, nil
	}

	rec := srv.request(http.MethodGet, "/api/tasks?status=archived", "", map[string]string{
		"Authorization": "Bearer " + token,
	})

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskHandler_Get_NotFound(t *testing.T) {
	srv := newTestServer(t)
	token := srv.seedAuthenticatedUser(uuid.New())

	srv.tasks.getFn = func(context.Context, uuid.UUID, uuid.UUID) (*entity.Task, error) {
		return nil, domainerrors.ErrTaskNotFound
	}

	rec := srv.request(http.MethodGet, "/api/tasks/"+uuid.NewString(), "", map[string]string{
		"Authorization": "Bearer " + token,
	})

	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "TASK_NOT_FOUND", env.Error.Location)
}

func TestTaskHandler_Get_MalformedIDLooksMissing(t *testing.T) {
	srv := newTestServer(t)
	token := srv.seedAuthenticatedUser(uuid.New())

	rec := srv.request(http.MethodGet, "/api/tasks/not-a-uuid", "", map[string]string{
		"Authorization": "Bearer " + token,
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandler_Update_Success(t *testing.T) {
	srv := newTestServer(t)
	userID := uuid.New()
	token := srv.seedAuthenticatedUser(userID)

	srv.tasks.updateFn = func(_ context.Context, _ uuid.UUID, _ uuid.UUID, input usecase.UpdateTaskInput) (*entity.Task, error) {
		require.NotNil(t, input.Status)
		assert.Equal(t, "done", *input.Status)
		assert.Nil(t, input.Title)

		task := sampleTask(userID)
		task.Status = entity.TaskStatusDone

		return task, nil
	}

	rec := srv.request(http.MethodPut, "/api/tasks/"+uuid.NewString(),
		`{"status":"done"}`, map[string]string{"Authorization": "Bearer " + token})

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	task, ok := env.Data["task"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "done", task["status"])
}

func TestTaskHandler_Update_InvalidStatusRejected(t *testing.T) {
	srv := newTestServer(t)
	token := srv.seedAuthenticatedUser(uuid.New())

	srv.tasks.updateFn = func(context.Context, uuid.UUID, uuid.UUID, usecase.UpdateTaskInput) (*entity.Task, error) {
		t.Fatal("usecase must not be reached on validation failure")

		return nil, nil
	}

	rec := srv.request(http.MethodPut, "/api/tasks/"+uuid.NewString(),
		`{"status":"archived"}`, map[string]string{"Authorization": "Bearer " + token})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_Delete_Success(t *testing.T) {
	srv := newTestServer(t)
	userID := uuid.New()
	token := srv.seedAuthenticatedUser(userID)
	taskID := uuid.New()

	srv.tasks.deleteFn = func(_ context.Context, id, tid uuid.UUID) error {
		assert.Equal(t, userID, id)
		assert.Equal(t, taskID, tid)

		return nil
	}

	rec := srv.request(http.MethodDelete, "/api/tasks/"+taskID.String(), "", map[string]string{
		"Authorization": "Bearer " + token,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
}

func TestTaskHandler_Delete_OtherOwnerLooksMissing(t *testing.T) {
	srv := newTestServer(t)
	token := srv.seedAuthenticatedUser(uuid.New())

	srv.tasks.deleteFn = func(context.Context, uuid.UUID, uuid.UUID) error {
		return domainerrors.ErrTaskNotFound
	}

	rec := srv.request(http.MethodDelete, "/api/tasks/"+uuid.NewString(), "", map[string]string{
		"Authorization": "Bearer " + token,
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
}
