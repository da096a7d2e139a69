package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/evalca-server/internal/model"
)

var _ model.BlacklistStore = (*BlacklistRepository)(nil)

type BlacklistRepository struct {
	db *Connection
}

func NewBlacklistRepository(db *Connection) *BlacklistRepository {
	return &BlacklistRepository{
		db: db,
	}
}

func (r *BlacklistRepository) Add(ctx context.Context, entry model.BlacklistedToken) error {
	query := `INSERT INTO blacklisted_tokens (fingerprint, expires_at, is_active)
			  VALUES ($1, $2, TRUE)
			  ON CONFLICT (fingerprint) DO NOTHING`

	_, err := r.db.Exec(ctx, query, entry.Fingerprint, entry.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

func (r *BlacklistRepository) Exists(ctx context.Context, fingerprint string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE fingerprint = $1 AND is_active)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, fingerprint).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check blacklisted token: %w", err)
	}

	return exists, nil
}

func (r *BlacklistRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM blacklisted_tokens WHERE expires_at <= $1`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}
