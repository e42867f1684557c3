package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConstraint is a CHECK violation, such as a step total out of range.
	ErrConstraint = errors.New("store: constraint violated")
)

// Store is the root data access interface. Sub-repositories are reached
// through methods so a Tx cannot start another transaction.
type Store interface {
	Accounts() Accounts
	Sessions() Sessions
	Screenshots() Screenshots

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller must Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a Store scoped to one transaction.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Accounts updates return ErrNotFound when no row matched.
type Accounts interface {
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail resolves the derived key of a bridged identity.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// ListAccounts returns the whole roster, oldest first.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// CreateAccount returns ErrAlreadyExists on a duplicate id or email.
	CreateAccount(ctx context.Context, a domain.Account) error

	// SaveProfile writes nickname, avatar and total steps of an existing
	// account. It never recreates a deleted one.
	SaveProfile(ctx context.Context, a domain.Account) error

	UpdateProfile(ctx context.Context, id, nickname, avatarURL string) error

	// SetTotalSteps overwrites the total. Last writer wins. A total outside
	// [0, domain.MaxTotalSteps] is ErrConstraint.
	SetTotalSteps(ctx context.Context, id string, total int64) error

	// IncrementSteps adds delta in a single statement and returns the new
	// total. Passing domain.MaxTotalSteps is ErrConstraint.
	IncrementSteps(ctx context.Context, id string, delta int64) (int64, error)

	SetApproved(ctx context.Context, id string, approved bool) error
	SetRole(ctx context.Context, id string, role domain.Role) error
	UpdateCredentialHash(ctx context.Context, id, hash string) error

	// DeleteAccount cascades to sessions and screenshots.
	DeleteAccount(ctx context.Context, id string) error

	CountAccounts(ctx context.Context) (int64, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByHash looks a refresh token up by its fingerprint.
	GetSessionByHash(ctx context.Context, hash string) (domain.Session, error)

	RevokeSession(ctx context.Context, hash string) error

	// RevokeAccountSessions signs an account out everywhere (block, delete).
	RevokeAccountSessions(ctx context.Context, accountID string) error

	// DeleteStaleSessions removes expired and revoked sessions.
	DeleteStaleSessions(ctx context.Context, now time.Time) (int64, error)
}

type Screenshots interface {
	CreateScreenshot(ctx context.Context, s domain.Screenshot) error

	// SetScreenshotSteps records what vision read off a stored screenshot.
	SetScreenshotSteps(ctx context.Context, id string, steps int64) error

	// ListScreenshotsBefore returns up to limit screenshots created before t.
	ListScreenshotsBefore(ctx context.Context, t time.Time, limit int) ([]domain.Screenshot, error)

	ListAccountScreenshots(ctx context.Context, accountID string) ([]domain.Screenshot, error)

	DeleteScreenshot(ctx context.Context, id string) error
}
