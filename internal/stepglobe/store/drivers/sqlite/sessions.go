package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store/drivers/sqlite/gen"
)

type sessionsRepo struct {
	q   *gen.Queries
	now func() time.Time
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	now := ts(r.now())
	err := r.q.CreateSession(ctx, gen.CreateSessionParams{
		ID:        s.ID,
		AccountID: s.AccountID,
		TokenHash: s.TokenHash,
		ExpiresAt: ts(s.ExpiresAt),
		CreatedAt: now,
		UpdatedAt: now,
	})
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByHash(ctx context.Context, hash string) (domain.Session, error) {
	row, err := r.q.GetSessionByHash(ctx, hash)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, hash string) error {
	return expectRows(r.q.RevokeSession(ctx, gen.RevokeSessionParams{
		UpdatedAt: ts(r.now()),
		TokenHash: hash,
	}))
}

func (r *sessionsRepo) RevokeAccountSessions(ctx context.Context, accountID string) error {
	return r.q.RevokeAccountSessions(ctx, gen.RevokeAccountSessionsParams{
		UpdatedAt: ts(r.now()),
		AccountID: accountID,
	})
}

func (r *sessionsRepo) DeleteStaleSessions(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteStaleSessions(ctx, ts(now))
}
