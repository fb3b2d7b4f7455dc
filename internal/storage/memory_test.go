package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecofinance/internal/core"
)

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user, err := store.CreateUser(ctx, core.User{
		Email:        "mario@example.com",
		PasswordHash: "hash",
		FirstName:    "Mario",
		LastName:     "Rossi",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected non-zero id")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	_, err = store.CreateUser(ctx, core.User{Email: "MARIO@example.com", PasswordHash: "other"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate email: got %v, want ErrDuplicateEmail", err)
	}

	got, err := store.UserByEmail(ctx, "Mario@Example.com")
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("UserByEmail id = %d, want %d", got.ID, user.ID)
	}

	if _, err := store.UserByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: got %v, want ErrNotFound", err)
	}

	updated, err := store.UpdateUserProfile(ctx, user.ID, "Maria", "Bianchi", "maria@example.com")
	if err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if updated.FirstName != "Maria" || updated.Email != "maria@example.com" {
		t.Errorf("unexpected profile after update: %+v", updated)
	}

	if err := store.UpdateUserPassword(ctx, user.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	got, _ = store.UserByID(ctx, user.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("password hash not updated: %q", got.PasswordHash)
	}
}

func TestMemoryStoreProfileUpdateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, _ := store.CreateUser(ctx, core.User{Email: "a@example.com", PasswordHash: "h"})
	store.CreateUser(ctx, core.User{Email: "b@example.com", PasswordHash: "h"})

	if _, err := store.UpdateUserProfile(ctx, first.ID, "A", "A", "B@example.com"); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("got %v, want ErrDuplicateEmail", err)
	}
	// Keeping your own email is not a conflict.
	if _, err := store.UpdateUserProfile(ctx, first.ID, "A", "A", "a@example.com"); err != nil {
		t.Errorf("same email update: %v", err)
	}
}

func TestMemoryStoreTransactions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	for i, day := range []int{5, 20, 28} {
		_, err := store.CreateTransaction(ctx, core.Transaction{
			UserID:    1,
			Kind:      core.Expense,
			Amount:    decimal.NewFromInt(int64(10 * (i + 1))),
			Category:  "food",
			Date:      time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}
	// Different user and different month are outside every window below.
	store.CreateTransaction(ctx, core.Transaction{
		UserID: 2, Kind: core.Expense, Amount: decimal.NewFromInt(99),
		Category: "food", Date: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
	})
	store.CreateTransaction(ctx, core.Transaction{
		UserID: 1, Kind: core.Expense, Amount: decimal.NewFromInt(50),
		Category: "food", Date: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: base.Add(48 * time.Hour),
	})

	all, err := store.TransactionsByUser(ctx, 1)
	if err != nil {
		t.Fatalf("TransactionsByUser: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d transactions, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("transactions not ordered newest first at index %d", i)
		}
	}

	march, err := store.TransactionsByMonth(ctx, 1, 2025, 3)
	if err != nil {
		t.Fatalf("TransactionsByMonth: %v", err)
	}
	if len(march) != 3 {
		t.Errorf("march window: got %d transactions, want 3", len(march))
	}

	april, _ := store.TransactionsByMonth(ctx, 1, 2025, 4)
	if len(april) != 1 {
		t.Errorf("april window: got %d transactions, want 1", len(april))
	}

	if err := store.DeleteTransaction(ctx, march[0].ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if _, err := store.TransactionByID(ctx, march[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted transaction: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreMonthWindowBoundaries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Last instant of January and first instant of February.
	store.CreateTransaction(ctx, core.Transaction{
		UserID: 1, Kind: core.Expense, Amount: decimal.NewFromInt(1),
		Category: "food", Date: time.Date(2025, time.January, 31, 23, 59, 59, 0, time.UTC),
	})
	store.CreateTransaction(ctx, core.Transaction{
		UserID: 1, Kind: core.Expense, Amount: decimal.NewFromInt(2),
		Category: "food", Date: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
	})

	jan, _ := store.TransactionsByMonth(ctx, 1, 2025, 1)
	if len(jan) != 1 || !jan[0].Amount.Equal(decimal.NewFromInt(1)) {
		t.Errorf("january window: %+v", jan)
	}
	feb, _ := store.TransactionsByMonth(ctx, 1, 2025, 2)
	if len(feb) != 1 || !feb[0].Amount.Equal(decimal.NewFromInt(2)) {
		t.Errorf("february window: %+v", feb)
	}
}

func TestMemoryStoreCategories(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	cat, err := store.CreateCategory(ctx, core.Category{
		UserID: 1, Name: "Groceries", Kind: core.Expense, Color: "#22C55E", Icon: "🥦",
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	store.CreateCategory(ctx, core.Category{UserID: 1, Name: "Salary", Kind: core.Income})
	store.CreateCategory(ctx, core.Category{UserID: 2, Name: "Groceries", Kind: core.Expense})

	if _, err := store.CreateCategory(ctx, core.Category{UserID: 1, Name: "Groceries", Kind: core.Expense}); !errors.Is(err, ErrDuplicateCategory) {
		t.Errorf("duplicate category: got %v, want ErrDuplicateCategory", err)
	}

	all, err := store.CategoriesByUser(ctx, 1, "")
	if err != nil {
		t.Fatalf("CategoriesByUser: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d categories, want 2", len(all))
	}

	expenses, _ := store.CategoriesByUser(ctx, 1, core.Expense)
	if len(expenses) != 1 || expenses[0].Name != "Groceries" {
		t.Errorf("expense filter: %+v", expenses)
	}

	if err := store.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := store.CategoryByID(ctx, cat.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted category: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreResetTokens(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	if err := store.CreateResetToken(ctx, 7, "hash-a", now.Add(time.Hour)); err != nil {
		t.Fatalf("CreateResetToken: %v", err)
	}

	userID, err := store.ConsumeResetToken(ctx, "hash-a", now)
	if err != nil {
		t.Fatalf("ConsumeResetToken: %v", err)
	}
	if userID != 7 {
		t.Errorf("userID = %d, want 7", userID)
	}

	// Second use fails: the token is gone.
	if _, err := store.ConsumeResetToken(ctx, "hash-a", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("reused token: got %v, want ErrNotFound", err)
	}

	// Expired tokens are rejected and removed.
	store.CreateResetToken(ctx, 7, "hash-b", now.Add(-time.Minute))
	if _, err := store.ConsumeResetToken(ctx, "hash-b", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired token: got %v, want ErrNotFound", err)
	}

	if _, err := store.ConsumeResetToken(ctx, "hash-unknown", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown token: got %v, want ErrNotFound", err)
	}
}
