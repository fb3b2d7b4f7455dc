package http

import (
	"time"

	"github.com/shopspring/decimal"

	"ecofinance/internal/core"
)

// userResponse is the public projection of an account, never including
// the password hash.
type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// transactionResponse serializes money and CO2 values as decimal strings
// so clients never see float rounding artifacts.
type transactionResponse struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	EcoImpact   decimal.Decimal `json:"ecoImpact"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Type:        string(tx.Kind),
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
		EcoImpact:   tx.EcoImpact,
		CreatedAt:   tx.CreatedAt,
	}
}

func toTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return out
}

type categoryResponse struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"userId"`
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Color       string           `json:"color"`
	Icon        string           `json:"icon"`
	BudgetLimit *decimal.Decimal `json:"budgetLimit"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func toCategoryResponse(cat core.Category) categoryResponse {
	return categoryResponse{
		ID:          cat.ID,
		UserID:      cat.UserID,
		Name:        cat.Name,
		Type:        string(cat.Kind),
		Color:       cat.Color,
		Icon:        cat.Icon,
		BudgetLimit: cat.BudgetLimit,
		CreatedAt:   cat.CreatedAt,
	}
}

func toCategoryResponses(cats []core.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryResponse(cat))
	}
	return out
}
