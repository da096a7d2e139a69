package model

import (
	"context"
	"time"
)

// BlacklistStore persists revoked tokens by fingerprint.
type BlacklistStore interface {
	// Add inserts the entry; adding an existing fingerprint is not an error.
	Add(ctx context.Context, entry BlacklistedToken) error
	Exists(ctx context.Context, fingerprint string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// BlacklistedToken is a revoked token. It is never mutated after creation.
type BlacklistedToken struct {
	ID          int64
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	IsActive    bool
}
