package core

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

type (
	TransactionKind string

	User struct {
		ID           int64
		Email        string
		PasswordHash string
		FirstName    string
		LastName     string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// Transaction is immutable after creation except for deletion.
	// EcoImpact is computed once at creation time and never recomputed,
	// even if multiplier policy changes later.
	Transaction struct {
		ID          int64
		UserID      int64
		Kind        TransactionKind
		Amount      decimal.Decimal
		Category    string
		Description string
		Date        time.Time // UTC midnight of the calendar day
		EcoImpact   decimal.Decimal
		CreatedAt   time.Time
	}

	Category struct {
		ID          int64
		UserID      int64
		Name        string
		Kind        TransactionKind
		Color       string
		Icon        string
		BudgetLimit *decimal.Decimal
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidKind      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// Built-in category keys shipped with every account. User-defined
// categories supplement these; they are never persisted per user.
var (
	BuiltinIncomeCategories  = []string{"salary", "freelance", "investment", "business", "rental", "other_income"}
	BuiltinExpenseCategories = []string{"food", "transport", "utilities", "entertainment", "healthcare", "shopping", "education", "other_expense"}
)

func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	if c.BudgetLimit != nil && c.BudgetLimit.IsNegative() {
		return errors.New("budget limit cannot be negative")
	}
	return nil
}

// ValidateEmail checks the address with the mail package's RFC 5322 parser.
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	return nil
}

// DateOnly normalizes t to UTC midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
