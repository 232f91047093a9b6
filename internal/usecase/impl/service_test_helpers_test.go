package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"tasker/internal/domain/entity"
	"tasker/internal/domain/repository"
	"tasker/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- in-memory repositories ---

type memUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if user, ok := r.users[id]; ok {
		cloned := *user

		return &cloned, nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			cloned := *user

			return &cloned, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	cloned := *user
	r.users[user.ID] = &cloned

	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()

	cloned := *user
	r.users[user.ID] = &cloned

	return nil
}

type memSessionRepo struct {
	sessions  map[uuid.UUID]*entity.Session
	deleteErr error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]*entity.Session)}
}

func (r *memSessionRepo) Upsert(_ context.Context, session *entity.Session) error {
	cloned := *session
	r.sessions[session.UserID] = &cloned

	return nil
}

func (r *memSessionRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Session, error) {
	if session, ok := r.sessions[userID]; ok {
		cloned := *session

		return &cloned, nil
	}

	return nil, repository.ErrSessionNotFound
}

func (r *memSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for userID, session := range r.sessions {
		if session.TokenHash == tokenHash {
			delete(r.sessions, userID)
		}
	}

	return nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context) error {
	now := time.Now()
	for userID, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, userID)
		}
	}

	return nil
}

type memTaskRepo struct {
	tasks map[uuid.UUID]*entity.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[uuid.UUID]*entity.Task)}
}

func (r *memTaskRepo) Create(_ context.Context, task *entity.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	cloned := *task
	r.tasks[task.ID] = &cloned

	return nil
}

func (r *memTaskRepo) FindByIDForUser(_ context.Context, id, userID uuid.UUID) (*entity.Task, error) {
	if task, ok := r.tasks[id]; ok && task.UserID == userID {
		cloned := *task

		return &cloned, nil
	}

	return nil, repository.ErrTaskNotFound
}

func (r *memTaskRepo) ListByUserID(_ context.Context, userID uuid.UUID, status *entity.TaskStatus) ([]*entity.Task, error) {
	var tasks []*entity.Task
	for _, task := range r.tasks {
		if task.UserID != userID {
			continue
		}
		if status != nil && task.Status != *status {
			continue
		}
		cloned := *task
		tasks = append(tasks, &cloned)
	}

	return tasks, nil
}

func (r *memTaskRepo) Update(_ context.Context, task *entity.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()

	cloned := *task
	r.tasks[task.ID] = &cloned

	return nil
}

func (r *memTaskRepo) DeleteForUser(_ context.Context, id, userID uuid.UUID) error {
	if task, ok := r.tasks[id]; ok && task.UserID == userID {
		delete(r.tasks, id)

		return nil
	}

	return repository.ErrTaskNotFound
}

// --- transaction manager passing the in-memory repos straight through ---

type memRepoFactory struct {
	userRepo    *memUserRepo
	sessionRepo *memSessionRepo
	taskRepo    *memTaskRepo
}

func (f *memRepoFactory) UserRepo() repository.UserRepository       { return f.userRepo }
func (f *memRepoFactory) SessionRepo() repository.SessionRepository { return f.sessionRepo }
func (f *memRepoFactory) TaskRepo() repository.TaskRepository       { return f.taskRepo }

type memTxManager struct {
	factory *memRepoFactory
}

func (tm *memTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(tm.factory)
}

// --- deterministic service stubs ---

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Check(password, hash string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("password mismatch")
	}

	return nil
}

// stubTokenService issues readable tokens so assertions stay simple. A serial
// counter makes every refresh token distinct, which rotation tests rely on.
type stubTokenService struct {
	serial int
}

func (s *stubTokenService) IssueAccessToken(userID uuid.UUID) (string, error) {
	s.serial++

	return fmt.Sprintf("access|%s|%d", userID, s.serial), nil
}

func (s *stubTokenService) IssueRefreshToken(userID uuid.UUID) (string, error) {
	s.serial++

	return fmt.Sprintf("refresh|%s|%d", userID, s.serial), nil
}

func (s *stubTokenService) VerifyAccessToken(token string) (uuid.UUID, error) {
	return s.verify(token, "access")
}

func (s *stubTokenService) VerifyRefreshToken(token string) (uuid.UUID, error) {
	return s.verify(token, "refresh")
}

func (s *stubTokenService) verify(token, kind string) (uuid.UUID, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 || parts[0] != kind {
		return uuid.Nil, service.ErrInvalidToken
	}

	userID, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, service.ErrInvalidToken
	}

	return userID, nil
}

func (s *stubTokenService) HashToken(token string) string {
	return "h:" + token
}

func (s *stubTokenService) RefreshTokenTTL() time.Duration {
	return 7 * 24 * time.Hour
}

// --- wiring ---

type authServiceFixtures struct {
	service     *authService
	userRepo    *memUserRepo
	sessionRepo *memSessionRepo
	tokens      *stubTokenService
}

func createTestAuthService() authServiceFixtures {
	userRepo := newMemUserRepo()
	sessionRepo := newMemSessionRepo()
	taskRepo := newMemTaskRepo()
	tokens := &stubTokenService{}

	factory := &memRepoFactory{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		taskRepo:    taskRepo,
	}

	svc := &authService{
		txManager:    &memTxManager{factory: factory},
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		hasher:       stubHasher{},
		tokenService: tokens,
		logger:       newDiscardLogger(),
	}

	return authServiceFixtures{
		service:     svc,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
	}
}

type taskServiceFixtures struct {
	service  *taskService
	taskRepo *memTaskRepo
}

func createTestTaskService() taskServiceFixtures {
	taskRepo := newMemTaskRepo()

	factory := &memRepoFactory{
		userRepo:    newMemUserRepo(),
		sessionRepo: newMemSessionRepo(),
		taskRepo:    taskRepo,
	}

	svc := &taskService{
		txManager: &memTxManager{factory: factory},
		taskRepo:  taskRepo,
		logger:    newDiscardLogger(),
	}

	return taskServiceFixtures{
		service:  svc,
		taskRepo: taskRepo,
	}
}
