package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ecofinance/internal/core"
	"ecofinance/internal/storage"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.TransactionsByUser(r.Context(), authedUserID(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction listing failed", "error", err)
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, toTransactionResponses(txs))
}

type createTransactionRequest struct {
	Type        string          `json:"type"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"` // YYYY-MM-DD
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	userID := authedUserID(r)
	tx := core.Transaction{
		UserID:      userID,
		Kind:        core.TransactionKind(req.Type),
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        core.DateOnly(day),
		// The CO2 estimate is frozen at creation time. Later multiplier
		// changes never rewrite stored rows.
		EcoImpact: core.EstimateImpact(req.Category, amount),
	}
	if err := tx.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateTransaction(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction creation failed", "error", err)
		respondInternalError(w)
		return
	}

	s.invalidateUserCaches(userID, created.Date)

	respondJSON(w, http.StatusOK, toTransactionResponse(created))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	userID := authedUserID(r)
	tx, err := s.store.TransactionByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction lookup failed", "error", err)
		respondInternalError(w)
		return
	}

	if tx.UserID != userID {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Transaction deletion failed", "error", err)
		respondInternalError(w)
		return
	}

	s.invalidateUserCaches(userID, tx.Date)

	w.WriteHeader(http.StatusNoContent)
}

// invalidateUserCaches drops the cached dashboard view and the cached
// report of the month the written transaction belongs to.
func (s *Server) invalidateUserCaches(userID int64, txDate time.Time) {
	s.statsCache.Delete(statsCacheKey(userID))
	s.reportCache.Delete(reportCacheKey(userID, int(txDate.Month()), txDate.Year()))
}
