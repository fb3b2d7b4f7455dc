package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"ecofinance/internal/core"
)

const pgUniqueViolation = "23505"

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runPostgresMigrations(pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func runPostgresMigrations(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("create pgx driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user core.User) (core.User, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, user.Email, user.PasswordHash, user.FirstName, user.LastName).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isPGUniqueViolation(err) {
			return core.User{}, ErrDuplicateEmail
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", user.ID)
	return user, nil
}

func (s *PostgresStore) UserByID(ctx context.Context, id int64) (core.User, error) {
	return s.scanUserRow(s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		FROM users WHERE id = $1
	`, id))
}

func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.scanUserRow(s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		FROM users WHERE lower(email) = lower($1)
	`, email))
}

func (s *PostgresStore) scanUserRow(row pgx.Row) (core.User, error) {
	var user core.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) UpdateUserProfile(ctx context.Context, id int64, firstName, lastName, email string) (core.User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET first_name = $1, last_name = $2, email = $3, updated_at = now()
		WHERE id = $4
		RETURNING id, email, password_hash, first_name, last_name, created_at, updated_at
	`, firstName, lastName, email, id)

	user, err := s.scanUserRow(row)
	if err != nil {
		if isPGUniqueViolation(err) {
			return core.User{}, ErrDuplicateEmail
		}
		return core.User{}, err
	}
	return user, nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, type, amount, category, description, date, eco_impact)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, tx.UserID, string(tx.Kind), tx.Amount.String(), tx.Category,
		tx.Description, tx.Date.UTC(), tx.EcoImpact.String()).
		Scan(&tx.ID, &tx.CreatedAt)
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

func (s *PostgresStore) TransactionByID(ctx context.Context, id int64) (core.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, type, amount::text, category, description, date, eco_impact::text, created_at
		FROM transactions WHERE id = $1
	`, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	defer rows.Close()

	txs, err := scanPGTransactions(rows)
	if err != nil {
		return core.Transaction{}, err
	}
	if len(txs) == 0 {
		return core.Transaction{}, ErrNotFound
	}
	return txs[0], nil
}

func (s *PostgresStore) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, type, amount::text, category, description, date, eco_impact::text, created_at
		FROM transactions WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanPGTransactions(rows)
}

func (s *PostgresStore) TransactionsByMonth(ctx context.Context, userID int64, year, month int) ([]core.Transaction, error) {
	start, end := monthWindow(year, month)
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, type, amount::text, category, description, date, eco_impact::text, created_at
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY created_at DESC, id DESC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list month transactions: %w", err)
	}
	defer rows.Close()
	return scanPGTransactions(rows)
}

func scanPGTransactions(rows pgx.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var (
			tx                   core.Transaction
			kind, amount, impact string
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &kind, &amount, &tx.Category,
			&tx.Description, &tx.Date, &impact, &tx.CreatedAt); err != nil {
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
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	var budget any
	if cat.BudgetLimit != nil {
		budget = cat.BudgetLimit.String()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (user_id, name, type, color, icon, budget_limit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, cat.UserID, cat.Name, string(cat.Kind), cat.Color, cat.Icon, budget).
		Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		if isPGUniqueViolation(err) {
			return core.Category{}, ErrDuplicateCategory
		}
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

func (s *PostgresStore) CategoryByID(ctx context.Context, id int64) (core.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, type, color, icon, budget_limit::text, created_at
		FROM categories WHERE id = $1
	`, id)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	defer rows.Close()

	cats, err := scanPGCategories(rows)
	if err != nil {
		return core.Category{}, err
	}
	if len(cats) == 0 {
		return core.Category{}, ErrNotFound
	}
	return cats[0], nil
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *PostgresStore) CategoriesByUser(ctx context.Context, userID int64, kind core.TransactionKind) ([]core.Category, error) {
	query := `
		SELECT id, user_id, name, type, color, icon, budget_limit::text, created_at
		FROM categories WHERE user_id = $1`
	args := []any{userID}
	if kind != "" {
		query += ` AND type = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	return scanPGCategories(rows)
}

func scanPGCategories(rows pgx.Rows) ([]core.Category, error) {
	var out []core.Category
	for rows.Next() {
		var (
			cat    core.Category
			kind   string
			budget *string
		)
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &kind,
			&cat.Color, &cat.Icon, &budget, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cat.Kind = core.TransactionKind(kind)
		if budget != nil {
			limit, err := decimal.NewFromString(*budget)
			if err != nil {
				return nil, fmt.Errorf("parse budget_limit: %w", err)
			}
			cat.BudgetLimit = &limit
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO password_reset_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, tokenHash, userID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	return nil
}

func (s *PostgresStore) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (int64, error) {
	var (
		userID    int64
		expiresAt time.Time
	)
	err := s.pool.QueryRow(ctx, `
		DELETE FROM password_reset_tokens WHERE token_hash = $1
		RETURNING user_id, expires_at
	`, tokenHash).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("consume reset token: %w", err)
	}
	if now.After(expiresAt) {
		return 0, ErrNotFound
	}
	return userID, nil
}

func isPGUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
