package impl

import (
	"context"
	"log/slog"
	"time"

	"tasker/internal/domain/repository"

	"go.uber.org/fx"
)

const sessionCleanupInterval = time.Hour

// SessionCleanupParams defines the required parameters
type SessionCleanupParams struct {
	fx.In
	fx.Lifecycle

	Logger      *slog.Logger
	SessionRepo repository.SessionRepository
}

// StartSessionCleanup runs a background sweep that deletes sessions whose
// refresh token lifetime has passed. Expired sessions already fail
// verification; the sweep only keeps dead rows from accumulating.
func StartSessionCleanup(params SessionCleanupParams) {
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go cleanupSessions(cleanupCtx, params.Logger, params.SessionRepo, sessionCleanupInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelCleanup()

			return nil
		},
	})
}

func cleanupSessions(ctx context.Context, logger *slog.Logger, sessionRepo repository.SessionRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessionRepo.DeleteExpired(ctx); err != nil {
				logger.LogAttrs(ctx, slog.LevelWarn, "Failed to delete expired sessions", slog.Any("error", err))
			}
		}
	}
}
