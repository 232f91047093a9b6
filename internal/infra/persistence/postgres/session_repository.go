package postgres

import (
	"context"
	"time"

	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"
	"tasker/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionRepository implements the domain.SessionRepository interface using GORM.
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Upsert writes the user's session row, replacing any existing one. The
// ON CONFLICT clause on the user id makes this a single atomic statement,
// so rotation never leaves a window with two valid tokens.
func (repo *sessionRepository) Upsert(ctx context.Context, session *entity.Session) error {
	sessionM := fromSessionDomain(session)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token_hash", "rotated_at", "expires_at"}),
		}).
		Create(sessionM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAccountNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert session")
	}

	return nil
}

// FindByUserID retrieves a user's current session.
func (repo *sessionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	var sessionM model.SessionModel
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).First(&sessionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find session by user id")
	}

	return toSessionDomain(&sessionM), nil
}

// DeleteByTokenHash removes the session holding the given token hash.
// Deleting a session that does not exist is not an error; logout must stay
// idempotent.
func (repo *sessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&model.SessionModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete session by token hash")
	}

	return nil
}

// DeleteExpired removes all sessions whose refresh token lifetime has passed.
func (repo *sessionRepository) DeleteExpired(ctx context.Context) error {
	if err := repo.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.SessionModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete expired sessions")
	}

	return nil
}

// --- Mapper Functions ---

// toSessionDomain converts a GORM SessionModel to a domain Session entity.
func toSessionDomain(data *model.SessionModel) *entity.Session {
	if data == nil {
		return nil
	}

	return &entity.Session{
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		IssuedAt:  data.IssuedAt,
		RotatedAt: data.RotatedAt,
		ExpiresAt: data.ExpiresAt,
	}
}

// fromSessionDomain converts a domain Session entity to a GORM SessionModel.
func fromSessionDomain(data *entity.Session) *model.SessionModel {
	if data == nil {
		return nil
	}

	return &model.SessionModel{
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		IssuedAt:  data.IssuedAt,
		RotatedAt: data.RotatedAt,
		ExpiresAt: data.ExpiresAt,
	}
}
