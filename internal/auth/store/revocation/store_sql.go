package revocation

import (
	"context"
	"fmt"
	"time"

	"practiceadmin/internal/platform/database"
)

// SQLTRL persists revoked token IDs next to the record tables, for deployments
// that run on a database but without Redis.
type SQLTRL struct {
	db    *database.DB
	clock Clock
}

type SQLTRLOption func(*SQLTRL)

func WithSQLClock(clock Clock) SQLTRLOption {
	return func(t *SQLTRL) {
		if clock != nil {
			t.clock = clock
		}
	}
}

func NewSQLTRL(db *database.DB, opts ...SQLTRLOption) *SQLTRL {
	trl := &SQLTRL{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(trl)
	}
	return trl
}

func (t *SQLTRL) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	now := t.clock()
	expiresAt := now.Add(ttl).UnixMilli()

	if _, err := t.db.ExecContext(ctx, t.db.Rebind(`DELETE FROM token_revocations WHERE expires_at <= ?`), now.UnixMilli()); err != nil {
		return fmt.Errorf("prune token revocations: %w", err)
	}
	_, err := t.db.ExecContext(ctx, t.db.Rebind(`
		INSERT INTO token_revocations (jti, expires_at)
		VALUES (?, ?)
		ON CONFLICT (jti) DO UPDATE SET expires_at = excluded.expires_at
	`), jti, expiresAt)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (t *SQLTRL) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	var n int
	err := t.db.QueryRowContext(ctx,
		t.db.Rebind(`SELECT COUNT(*) FROM token_revocations WHERE jti = ? AND expires_at > ?`),
		jti, t.clock().UnixMilli(),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}
