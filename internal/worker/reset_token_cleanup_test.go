package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/repository/memory"
)

func TestCleanupRemovesOnlyExpiredTokens(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	repos := memory.New()

	require.NoError(t, repos.ResetTokens.Create(ctx, &model.ResetToken{Token: "old", DoctorID: "d1", ExpiresAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, repos.ResetTokens.Create(ctx, &model.ResetToken{Token: "recent", DoctorID: "d1", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repos.ResetTokens.Create(ctx, &model.ResetToken{Token: "live", DoctorID: "d1", ExpiresAt: now.Add(time.Hour)}))

	w := NewResetTokenCleanupWorker(repos.ResetTokens, 24*time.Hour, time.Minute, nil)
	w.now = func() time.Time { return now }

	rows, err := w.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = w.Cleanup(ctx)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestStartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewResetTokenCleanupWorker(memory.New().ResetTokens, time.Hour, time.Millisecond, nil)

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
