package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"ecofinance/internal/core"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// timeLayout is the canonical timestamp format in SQLite columns. RFC 3339
// UTC strings compare correctly both lexicographically and as dates.
const timeLayout = time.RFC3339Nano

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runSQLiteMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runSQLiteMigrations(dbPath string) error {
	// Separate connection so migration locking does not interfere with the
	// main pool.
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user core.User) (core.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		now.Format(timeLayout), now.Format(timeLayout)).Scan(&user.ID)
	if err != nil {
		if isSQLiteUniqueViolation(err, "users.email") {
			return core.User{}, ErrDuplicateEmail
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", user.ID)
	return user, nil
}

func (s *SQLiteStore) UserByID(ctx context.Context, id int64) (core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		FROM users WHERE id = ?
	`, id))
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		FROM users WHERE email = ?
	`, email))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (core.User, error) {
	var (
		user                 core.User
		createdAt, updatedAt string
	)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	if user.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return core.User{}, fmt.Errorf("parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return core.User{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) UpdateUserProfile(ctx context.Context, id int64, firstName, lastName, email string) (core.User, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET first_name = ?, last_name = ?, email = ?, updated_at = ?
		WHERE id = ?
	`, firstName, lastName, email, time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		if isSQLiteUniqueViolation(err, "users.email") {
			return core.User{}, ErrDuplicateEmail
		}
		return core.User{}, fmt.Errorf("update user profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.User{}, ErrNotFound
	}
	return s.UserByID(ctx, id)
}

func (s *SQLiteStore) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
	`, passwordHash, time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.CreatedAt = time.Now().UTC()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, type, amount, category, description, date, eco_impact, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, tx.UserID, string(tx.Kind), tx.Amount.String(), tx.Category, tx.Description,
		tx.Date.UTC().Format(timeLayout), tx.EcoImpact.String(),
		tx.CreatedAt.Format(timeLayout)).Scan(&tx.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"user_id", tx.UserID,
		"type", string(tx.Kind),
		"category", tx.Category,
		"amount", tx.Amount.String(),
		"eco_impact", tx.EcoImpact.String())
	return tx, nil
}

func (s *SQLiteStore) TransactionByID(ctx context.Context, id int64) (core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, category, description, date, eco_impact, created_at
		FROM transactions WHERE id = ?
	`, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	defer rows.Close()

	txs, err := scanSQLiteTransactions(rows)
	if err != nil {
		return core.Transaction{}, err
	}
	if len(txs) == 0 {
		return core.Transaction{}, ErrNotFound
	}
	return txs[0], nil
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, category, description, date, eco_impact, created_at
		FROM transactions WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanSQLiteTransactions(rows)
}

func (s *SQLiteStore) TransactionsByMonth(ctx context.Context, userID int64, year, month int) ([]core.Transaction, error) {
	start, end := monthWindow(year, month)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, category, description, date, eco_impact, created_at
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY created_at DESC, id DESC
	`, userID, start.Format(timeLayout), end.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("list month transactions: %w", err)
	}
	defer rows.Close()
	return scanSQLiteTransactions(rows)
}

func scanSQLiteTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var (
			tx                            core.Transaction
			kind, amount, impact          string
			date, createdAt               string
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &kind, &amount, &tx.Category,
			&tx.Description, &date, &impact, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = core.TransactionKind(kind)

		var err error
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount: %w", err)
		}
		if tx.EcoImpact, err = decimal.NewFromString(impact); err != nil {
			return nil, fmt.Errorf("parse eco_impact: %w", err)
		}
		if tx.Date, err = time.Parse(timeLayout, date); err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		if tx.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	cat.CreatedAt = time.Now().UTC()

	var budget any
	if cat.BudgetLimit != nil {
		budget = cat.BudgetLimit.String()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (user_id, name, type, color, icon, budget_limit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, cat.UserID, cat.Name, string(cat.Kind), cat.Color, cat.Icon, budget,
		cat.CreatedAt.Format(timeLayout)).Scan(&cat.ID)
	if err != nil {
		if isSQLiteUniqueViolation(err, "categories") {
			return core.Category{}, ErrDuplicateCategory
		}
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

func (s *SQLiteStore) CategoryByID(ctx context.Context, id int64) (core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, color, icon, budget_limit, created_at
		FROM categories WHERE id = ?
	`, id)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	defer rows.Close()

	cats, err := scanSQLiteCategories(rows)
	if err != nil {
		return core.Category{}, err
	}
	if len(cats) == 0 {
		return core.Category{}, ErrNotFound
	}
	return cats[0], nil
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CategoriesByUser(ctx context.Context, userID int64, kind core.TransactionKind) ([]core.Category, error) {
	query := `
		SELECT id, user_id, name, type, color, icon, budget_limit, created_at
		FROM categories WHERE user_id = ?`
	args := []any{userID}
	if kind != "" {
		query += ` AND type = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	return scanSQLiteCategories(rows)
}

func scanSQLiteCategories(rows *sql.Rows) ([]core.Category, error) {
	var out []core.Category
	for rows.Next() {
		var (
			cat       core.Category
			kind      string
			budget    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &kind,
			&cat.Color, &cat.Icon, &budget, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cat.Kind = core.TransactionKind(kind)

		var err error
		if budget.Valid {
			limit, err := decimal.NewFromString(budget.String)
			if err != nil {
				return nil, fmt.Errorf("parse budget_limit: %w", err)
			}
			cat.BudgetLimit = &limit
		}
		if cat.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (token_hash, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, tokenHash, userID, expiresAt.UTC().Format(timeLayout), time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (int64, error) {
	var (
		userID    int64
		expiresAt string
	)
	err := s.db.QueryRowContext(ctx, `
		DELETE FROM password_reset_tokens WHERE token_hash = ?
		RETURNING user_id, expires_at
	`, tokenHash).Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("consume reset token: %w", err)
	}

	expiry, err := time.Parse(timeLayout, expiresAt)
	if err != nil {
		return 0, fmt.Errorf("parse expires_at: %w", err)
	}
	if now.After(expiry) {
		return 0, ErrNotFound
	}
	return userID, nil
}

func isSQLiteUniqueViolation(err error, target string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, target)
}
