package http

import (
	"errors"
	"log/slog"
	"net/http"

	"ecofinance/internal/auth"
	"ecofinance/internal/core"
	"ecofinance/internal/storage"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.UserByID(r.Context(), authedUserID(r))
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Profile lookup failed", "error", err)
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

type updateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := core.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	user, err := s.store.UpdateUserProfile(r.Context(), authedUserID(r), req.FirstName, req.LastName, req.Email)
	if errors.Is(err, storage.ErrDuplicateEmail) {
		respondError(w, http.StatusBadRequest, "A user with this email already exists")
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Profile update failed", "error", err)
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := core.ValidatePassword(req.NewPassword); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.UserByID(r.Context(), authedUserID(r))
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Password change lookup failed", "error", err)
		respondInternalError(w)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		respondError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
		respondInternalError(w)
		return
	}

	if err := s.store.UpdateUserPassword(r.Context(), user.ID, hash); err != nil {
		slog.ErrorContext(r.Context(), "Password update failed", "error", err)
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, messageBody{Message: "Password changed successfully"})
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	userID := authedUserID(r)

	user, err := s.store.UserByID(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "User stats lookup failed", "error", err)
		respondInternalError(w)
		return
	}

	all, err := s.store.TransactionsByUser(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "User stats listing failed", "error", err)
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, core.BuildUserStats(all, user.CreatedAt, s.now()))
}
