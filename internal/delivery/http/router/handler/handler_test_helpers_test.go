package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tasker/config"
	"tasker/internal/delivery/http/middleware"
	"tasker/internal/delivery/http/validator"
	"tasker/internal/domain/entity"
	"tasker/internal/domain/repository"
	"tasker/internal/domain/service"
	"tasker/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// fakeAuthUsecase lets each test script the auth behavior it needs.
type fakeAuthUsecase struct {
	registerFn func(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error)
	loginFn    func(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error)
	logoutFn   func(ctx context.Context, refreshToken string) error
	currentFn  func(ctx context.Context, userID uuid.UUID) (*usecase.UserView, error)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	return f.registerFn(ctx, input)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	return f.loginFn(ctx, input)
}

func (f *fakeAuthUsecase) Refresh(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error) {
	return f.refreshFn(ctx, refreshToken)
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	return f.logoutFn(ctx, refreshToken)
}

func (f *fakeAuthUsecase) CurrentUser(ctx context.Context, userID uuid.UUID) (*usecase.UserView, error) {
	return f.currentFn(ctx, userID)
}

// fakeTaskUsecase mirrors fakeAuthUsecase for the task operations.
type fakeTaskUsecase struct {
	createFn func(ctx context.Context, userID uuid.UUID, input usecase.CreateTaskInput) (*entity.Task, error)
	listFn   func(ctx context.Context, userID uuid.UUID, status *entity.TaskStatus) (*usecase.TaskListOutput, error)
	getFn    func(ctx context.Context, userID, taskID uuid.UUID) (*entity.Task, error)
	updateFn func(ctx context.Context, userID, taskID uuid.UUID, input usecase.UpdateTaskInput) (*entity.Task, error)
	deleteFn func(ctx context.Context, userID, taskID uuid.UUID) error
}

func (f *fakeTaskUsecase) CreateTask(ctx context.Context, userID uuid.UUID, input usecase.CreateTaskInput) (*entity.Task, error) {
	return f.createFn(ctx, userID, input)
}

func (f *fakeTaskUsecase) ListTasks(ctx context.Context, userID uuid.UUID, status *entity.TaskStatus) (*usecase.TaskListOutput, error) {
	return f.listFn(ctx, userID, status)
}

func (f *fakeTaskUsecase) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*entity.Task, error) {
	return f.getFn(ctx, userID, taskID)
}

func (f *fakeTaskUsecase) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input usecase.UpdateTaskInput) (*entity.Task, error) {
	return f.updateFn(ctx, userID, taskID, input)
}

func (f *fakeTaskUsecase) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return f.deleteFn(ctx, userID, taskID)
}

// fakeGuardTokenService accepts exactly one token string per user id.
type fakeGuardTokenService struct {
	valid map[string]uuid.UUID
}

func (f *fakeGuardTokenService) IssueAccessToken(userID uuid.UUID) (string, error)  { return "", nil }
func (f *fakeGuardTokenService) IssueRefreshToken(userID uuid.UUID) (string, error) { return "", nil }

func (f *fakeGuardTokenService) VerifyAccessToken(token string) (uuid.UUID, error) {
	if userID, ok := f.valid[token]; ok {
		return userID, nil
	}

	return uuid.Nil, service.ErrInvalidToken
}

func (f *fakeGuardTokenService) VerifyRefreshToken(token string) (uuid.UUID, error) {
	return f.VerifyAccessToken(token)
}

func (f *fakeGuardTokenService) HashToken(token string) string  { return "h:" + token }
func (f *fakeGuardTokenService) RefreshTokenTTL() time.Duration { return 7 * 24 * time.Hour }

// fakeGuardUserRepo resolves only the ids it was seeded with.
type fakeGuardUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (f *fakeGuardUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeGuardUserRepo) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrUserNotFound
}

func (f *fakeGuardUserRepo) Create(context.Context, *entity.User) error { return nil }
func (f *fakeGuardUserRepo) Update(context.Context, *entity.User) error { return nil }

// testServer bundles the wired echo instance with the fakes behind it.
type testServer struct {
	echo     *echo.Echo
	auth     *fakeAuthUsecase
	tasks    *fakeTaskUsecase
	tokens   *fakeGuardTokenService
	userRepo *fakeGuardUserRepo
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{RefreshTokenTTL: 7 * 24 * time.Hour}

	return cfg
}

// newTestServer wires the real router, validator, guard and error boundary
// around scriptable usecase fakes, so tests exercise the same request path
// production traffic takes.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := newTestConfig()

	auth := &fakeAuthUsecase{}
	tasks := &fakeTaskUsecase{}
	tokens := &fakeGuardTokenService{valid: make(map[string]uuid.UUID)}
	userRepo := &fakeGuardUserRepo{users: make(map[uuid.UUID]*entity.User)}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger, cfg).HandleHTTPError

	// Route registration mirrors router.RegisterRoutes; importing the router
	// package here would create an import cycle with this package.
	authMW := middleware.NewAuthMiddleware(tokens, userRepo)
	authHandler := NewAuthHandler(auth, logger, cfg)
	taskHandler := NewTaskHandler(tasks, logger)

	e.GET("/health", HealthCheck)

	api := e.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout, authMW.Authenticate)
	authGroup.GET("/me", authHandler.Me, authMW.Authenticate)

	taskGroup := api.Group("/tasks")
	taskGroup.Use(authMW.Authenticate)
	taskGroup.POST("", taskHandler.Create)
	taskGroup.GET("", taskHandler.List)
	taskGroup.GET("/:id", taskHandler.Get)
	taskGroup.PUT("/:id", taskHandler.Update)
	taskGroup.DELETE("/:id", taskHandler.Delete)

	return &testServer{
		echo:     e,
		auth:     auth,
		tasks:    tasks,
		tokens:   tokens,
		userRepo: userRepo,
	}
}

// seedAuthenticatedUser registers a user the guard will accept and returns
// the bearer token for it.
func (s *testServer) seedAuthenticatedUser(userID uuid.UUID) string {
	token := "valid-token-" + userID.String()
	s.tokens.valid[token] = userID
	s.userRepo.users[userID] = &entity.User{
		ID:    userID,
		Name:  "Seeded User",
		Email: "seeded@example.com",
	}

	return token
}

func (s *testServer) request(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

// envelope mirrors the response contract for assertions.
type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Error   *struct {
		Location string `json:"location"`
		Data     any    `json:"data"`
		Stack    string `json:"stack"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return env
}

// findCookie returns the named cookie from the response, or nil.
func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	res := http.Response{Header: rec.Header()}
	for _, cookie := range res.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}

	return nil
}
