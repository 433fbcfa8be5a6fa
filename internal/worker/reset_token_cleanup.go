package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/repository"
)

// ResetTokenCleanupWorker purges password reset tokens some time after they
// expire.
type ResetTokenCleanupWorker struct {
	repo            repository.ResetTokenRepository
	retention       time.Duration
	cleanupInterval time.Duration
	logger          *zerolog.Logger
	now             func() time.Time
}

func NewResetTokenCleanupWorker(repo repository.ResetTokenRepository, retention, cleanupInterval time.Duration, logger *zerolog.Logger) *ResetTokenCleanupWorker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}
	return &ResetTokenCleanupWorker{
		repo:            repo,
		retention:       retention,
		cleanupInterval: cleanupInterval,
		logger:          logger,
		now:             time.Now,
	}
}

// Start runs until ctx is cancelled.
func (w *ResetTokenCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Cleanup(ctx); err != nil {
				// Log error but continue
				w.logger.Error().Err(err).Msg("reset token cleanup failed")
			}
		}
	}
}

// Cleanup runs one purge pass.
func (w *ResetTokenCleanupWorker) Cleanup(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.retention)

	rows, err := w.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup reset tokens: %w", err)
	}

	if rows > 0 {
		w.logger.Info().Int64("rows", rows).Time("cutoff", cutoff).Msg("purged expired reset tokens")
	}
	return rows, nil
}
