package storage

import (
	"context"
	"errors"
	"time"

	"ecofinance/internal/core"
)

var (
	// ErrNotFound is returned for point lookups of absent rows.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user insert violates email uniqueness.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateCategory is returned when a category name collides for
	// the same user.
	ErrDuplicateCategory = errors.New("category already exists")
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user core.User) (core.User, error)
	UserByID(ctx context.Context, id int64) (core.User, error)
	UserByEmail(ctx context.Context, email string) (core.User, error)
	UpdateUserProfile(ctx context.Context, id int64, firstName, lastName, email string) (core.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// TransactionStore persists transaction records. Rows are insert, read and
// delete only; there is no update path.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	TransactionByID(ctx context.Context, id int64) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	// TransactionsByUser lists every transaction of the user, newest
	// creation first.
	TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
	// TransactionsByMonth lists the user's transactions dated inside the
	// given calendar month.
	TransactionsByMonth(ctx context.Context, userID int64, year, month int) ([]core.Transaction, error)
}

// CategoryStore persists user-defined categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, cat core.Category) (core.Category, error)
	CategoryByID(ctx context.Context, id int64) (core.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	// CategoriesByUser lists the user's categories, optionally filtered by
	// kind (empty kind means all).
	CategoriesByUser(ctx context.Context, userID int64, kind core.TransactionKind) ([]core.Category, error)
}

// ResetTokenStore persists hashed password reset tokens.
type ResetTokenStore interface {
	CreateResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	// ConsumeResetToken redeems an unexpired, unused token by hash and
	// returns the owning user id. Absent, expired and already-consumed
	// tokens all yield ErrNotFound.
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (int64, error)
}

// Store is the full persistence surface of the service.
type Store interface {
	UserStore
	TransactionStore
	CategoryStore
	ResetTokenStore
	Close() error
}

// monthWindow returns the UTC half-open interval [start, end) covering the
// given calendar month. Both SQL backends filter with the same boundaries
// so month extraction semantics never diverge between engines.
func monthWindow(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
