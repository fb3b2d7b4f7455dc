package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ecofinance/internal/core"
)

// MemoryStore is an in-memory Store used by tests and local runs without a
// database. All methods are safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[int64]core.User
	transactions map[int64]core.Transaction
	categories   map[int64]core.Category
	resetTokens  map[string]resetToken

	nextUserID        int64
	nextTransactionID int64
	nextCategoryID    int64
}

type resetToken struct {
	userID    int64
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[int64]core.User),
		transactions: make(map[int64]core.Transaction),
		categories:   make(map[int64]core.Category),
		resetTokens:  make(map[string]resetToken),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateUser(ctx context.Context, user core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return core.User{}, ErrDuplicateEmail
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return user, nil
}

func (s *MemoryStore) UserByID(ctx context.Context, id int64) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return core.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return core.User{}, ErrNotFound
}

func (s *MemoryStore) UpdateUserProfile(ctx context.Context, id int64, firstName, lastName, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return core.User{}, ErrNotFound
	}
	for otherID, other := range s.users {
		if otherID != id && strings.EqualFold(other.Email, email) {
			return core.User{}, ErrDuplicateEmail
		}
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return user, nil
}

func (s *MemoryStore) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return nil
}

func (s *MemoryStore) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTransactionID++
	tx.ID = s.nextTransactionID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	s.transactions[tx.ID] = tx
	return tx, nil
}

func (s *MemoryStore) TransactionByID(ctx context.Context, id int64) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (s *MemoryStore) DeleteTransaction(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.transactions, id)
	return nil
}

func (s *MemoryStore) TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sortTransactions(out)
	return out, nil
}

func (s *MemoryStore) TransactionsByMonth(ctx context.Context, userID int64, year, month int) ([]core.Transaction, error) {
	start, end := monthWindow(year, month)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.UserID != userID {
			continue
		}
		if tx.Date.Before(start) || !tx.Date.Before(end) {
			continue
		}
		out = append(out, tx)
	}
	sortTransactions(out)
	return out, nil
}

// sortTransactions orders newest creation first, id desc as tie-break.
func sortTransactions(txs []core.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.After(txs[j].CreatedAt)
		}
		return txs[i].ID > txs[j].ID
	})
}

func (s *MemoryStore) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.UserID == cat.UserID && existing.Name == cat.Name {
			return core.Category{}, ErrDuplicateCategory
		}
	}
	s.nextCategoryID++
	cat.ID = s.nextCategoryID
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = time.Now().UTC()
	}
	s.categories[cat.ID] = cat
	return cat, nil
}

func (s *MemoryStore) CategoryByID(ctx context.Context, id int64) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, ok := s.categories[id]
	if !ok {
		return core.Category{}, ErrNotFound
	}
	return cat, nil
}

func (s *MemoryStore) DeleteCategory(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.categories, id)
	return nil
}

func (s *MemoryStore) CategoriesByUser(ctx context.Context, userID int64, kind core.TransactionKind) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Category
	for _, cat := range s.categories {
		if cat.UserID != userID {
			continue
		}
		if kind != "" && cat.Kind != kind {
			continue
		}
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetTokens[tokenHash] = resetToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.resetTokens[tokenHash]
	if !ok {
		return 0, ErrNotFound
	}
	// Single use: the token disappears whether or not it was still fresh.
	delete(s.resetTokens, tokenHash)
	if now.After(token.expiresAt) {
		return 0, ErrNotFound
	}
	return token.userID, nil
}
