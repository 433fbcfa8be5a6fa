package postgres

import (
	"context"
	"time"

	"github.com/jwalitptl/admin-console/internal/model"
)

func (r *resetTokenRepository) Create(ctx context.Context, token *model.ResetToken) error {
	query := `
		INSERT INTO reset_tokens (token, doctor_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, token.Token, token.DoctorID, token.ExpiresAt, token.CreatedAt)
	r.observe("reset_token_create", start, err)
	return translate(err, "store reset token")
}

func (r *resetTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, `DELETE FROM reset_tokens WHERE expires_at < $1`, cutoff)
	r.observe("reset_token_delete_expired", start, err)
	if err != nil {
		return 0, translate(err, "delete expired reset tokens")
	}
	return result.RowsAffected()
}
