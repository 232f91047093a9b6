// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "tasker/internal/delivery/context"
	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"
	"tasker/internal/domain/service"
	"tasker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	SessionRepo  repository.SessionRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		sessionRepo:  params.SessionRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account and immediately opens a session for it, so
// a fresh registration behaves exactly like a first login.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	newUser := &entity.User{
		Name:  input.Name,
		Email: input.Email,
	}
	if err := newUser.SetPassword(input.Password, srv.hasher); err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var output *usecase.AuthOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, err := userRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return domainerrors.ErrEmailTaken
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check email availability")
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		output, err = srv.openSession(ctx, repoFactory.SessionRepo(), newUser)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return output, nil
}

// Login verifies credentials and opens a session. An unknown email and a
// wrong password produce the same error, so the response never reveals
// whether an account exists.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	// Check password outside the transaction (bcrypt is CPU-bound).
	if err := srv.hasher.Check(input.Password, user.PasswordHash); err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials
	}

	var output *usecase.AuthOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		output, err = srv.openSession(ctx, repoFactory.SessionRepo(), user)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session for login")
	}

	srv.log(ctx).Info("Login succeeded", slog.Any("userID", user.ID))

	return output, nil
}

// Refresh exchanges a valid refresh token for a new pair. Beyond carrying a
// valid signature, the presented token must match the hash stored for the
// user, so a token that was already rotated away is rejected even though it
// has not expired.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error) {
	userID, err := srv.tokenService.VerifyRefreshToken(refreshToken)
	if err != nil {
		srv.log(ctx).Warn("Refresh rejected: token failed verification")

		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	var output *usecase.AuthOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		sessionRepo := repoFactory.SessionRepo()

		session, err := sessionRepo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return domainerrors.ErrRefreshTokenInvalid
			}

			return errors.Wrap(err, "failed to load session for refresh")
		}

		if session.Expired(time.Now()) {
			return domainerrors.ErrRefreshTokenInvalid
		}

		if session.TokenHash != srv.tokenService.HashToken(refreshToken) {
			return domainerrors.ErrRefreshTokenInvalid
		}

		user, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrRefreshTokenInvalid
			}

			return errors.Wrap(err, "failed to load user for refresh")
		}

		output, err = srv.rotateSession(ctx, sessionRepo, user, session.IssuedAt)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Refresh completed", slog.Any("userID", userID))

	return output, nil
}

// Logout revokes the session holding the given refresh token. A missing,
// expired or already-revoked token is not an error; the operation only
// guarantees that the token is unusable afterwards.
func (srv *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	tokenHash := srv.tokenService.HashToken(refreshToken)
	if err := srv.sessionRepo.DeleteByTokenHash(ctx, tokenHash); err != nil {
		// Logout never fails outward. The client discards its cookie either
		// way; a session the sweep or the next rotation will remove is not
		// worth surfacing as a 500.
		srv.log(ctx).Warn("Failed to revoke session during logout", slog.Any("error", err))

		return nil
	}

	srv.log(ctx).Debug("Logout completed")

	return nil
}

// CurrentUser loads the authenticated user's own record.
func (srv *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*usecase.UserView, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to load current user")
	}

	return usecase.NewUserView(user), nil
}

// openSession issues a fresh token pair and stores the refresh token hash,
// replacing whatever session the user held before.
func (srv *authService) openSession(ctx context.Context, sessionRepo repository.SessionRepository, user *entity.User) (*usecase.AuthOutput, error) {
	return srv.writeSession(ctx, sessionRepo, user, time.Now())
}

// rotateSession issues a fresh token pair while preserving the session's
// original issue time.
func (srv *authService) rotateSession(ctx context.Context, sessionRepo repository.SessionRepository, user *entity.User, issuedAt time.Time) (*usecase.AuthOutput, error) {
	return srv.writeSession(ctx, sessionRepo, user, issuedAt)
}

func (srv *authService) writeSession(ctx context.Context, sessionRepo repository.SessionRepository, user *entity.User, issuedAt time.Time) (*usecase.AuthOutput, error) {
	accessToken, err := srv.tokenService.IssueAccessToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := srv.tokenService.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue refresh token")
	}

	now := time.Now()
	session := &entity.Session{
		UserID:    user.ID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		IssuedAt:  issuedAt,
		RotatedAt: now,
		ExpiresAt: now.Add(srv.tokenService.RefreshTokenTTL()),
	}

	if err := sessionRepo.Upsert(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         usecase.NewUserView(user),
	}, nil
}
