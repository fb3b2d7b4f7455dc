package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"ecofinance/internal/core"
	"ecofinance/internal/storage"
)

// Defaults applied when a client omits the cosmetic fields.
const (
	defaultCategoryColor = "#6366F1"
	defaultCategoryIcon  = "💰"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	kind := core.TransactionKind(r.URL.Query().Get("type"))
	if kind != "" && !kind.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid category type filter")
		return
	}

	cats, err := s.store.CategoriesByUser(r.Context(), authedUserID(r), kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "Category listing failed", "error", err)
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, toCategoryResponses(cats))
}

// handleDefaultCategories lists the built-in category keys every account
// starts with. They are fixed content, never persisted per user.
func (s *Server) handleDefaultCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"income":  core.BuiltinIncomeCategories,
		"expense": core.BuiltinExpenseCategories,
	})
}

type createCategoryRequest struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Color       string          `json:"color"`
	Icon        string          `json:"icon"`
	BudgetLimit json.RawMessage `json:"budgetLimit"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var budget *decimal.Decimal
	if len(req.BudgetLimit) > 0 && string(req.BudgetLimit) != "null" {
		limit, err := parseAmount(req.BudgetLimit)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid budget limit")
			return
		}
		budget = &limit
	}

	cat := core.Category{
		UserID:      authedUserID(r),
		Name:        req.Name,
		Kind:        core.TransactionKind(req.Type),
		Color:       req.Color,
		Icon:        req.Icon,
		BudgetLimit: budget,
	}
	if cat.Color == "" {
		cat.Color = defaultCategoryColor
	}
	if cat.Icon == "" {
		cat.Icon = defaultCategoryIcon
	}
	if err := cat.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateCategory(r.Context(), cat)
	if errors.Is(err, storage.ErrDuplicateCategory) {
		respondError(w, http.StatusBadRequest, "A category with this name already exists")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Category creation failed", "error", err)
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, toCategoryResponse(created))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	cat, err := s.store.CategoryByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Category lookup failed", "error", err)
		respondInternalError(w)
		return
	}

	if cat.UserID != authedUserID(r) {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Category deletion failed", "error", err)
		respondInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
