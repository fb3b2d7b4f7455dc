package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"ecofinance/internal/auth"
	"ecofinance/internal/core"
	"ecofinance/internal/storage"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := core.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if err := core.ValidatePassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
		respondInternalError(w)
		return
	}

	user, err := s.store.CreateUser(r.Context(), core.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	if errors.Is(err, storage.ErrDuplicateEmail) {
		respondError(w, http.StatusBadRequest, "A user with this email already exists")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Registration failed", "error", err)
		respondInternalError(w)
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token issue failed", "error", err)
		respondInternalError(w)
		return
	}

	// Delivery failures must not fail the registration.
	if s.dispatcher != nil {
		if err := s.dispatcher.DispatchWelcome(r.Context(), user.Email, user.FirstName); err != nil {
			slog.WarnContext(r.Context(), "Welcome email dispatch failed", "error", err)
		}
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Unknown email and wrong password produce the same answer, so the
	// endpoint cannot be used to probe which accounts exist.
	user, err := s.store.UserByEmail(r.Context(), req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Login lookup failed", "error", err)
		respondInternalError(w)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token issue failed", "error", err)
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The response is identical whether or not the account exists.
	const reply = "If the email is registered, password reset instructions have been sent"

	user, err := s.store.UserByEmail(r.Context(), req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		respondJSON(w, http.StatusOK, messageBody{Message: reply})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Forgot password lookup failed", "error", err)
		respondInternalError(w)
		return
	}

	token, err := auth.NewResetToken()
	if err != nil {
		slog.ErrorContext(r.Context(), "Reset token generation failed", "error", err)
		respondInternalError(w)
		return
	}

	expiresAt := s.now().Add(auth.ResetTokenTTL)
	if err := s.store.CreateResetToken(r.Context(), user.ID, auth.HashResetToken(token), expiresAt); err != nil {
		slog.ErrorContext(r.Context(), "Reset token persistence failed", "error", err)
		respondInternalError(w)
		return
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	if s.dispatcher != nil {
		if err := s.dispatcher.DispatchPasswordReset(r.Context(), user.Email, user.FirstName, resetLink); err != nil {
			slog.WarnContext(r.Context(), "Reset email dispatch failed", "error", err)
		}
	}

	respondJSON(w, http.StatusOK, messageBody{Message: reply})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Token == "" {
		respondError(w, http.StatusBadRequest, "Reset token is required")
		return
	}
	if err := core.ValidatePassword(req.NewPassword); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := s.store.ConsumeResetToken(r.Context(), auth.HashResetToken(req.Token), s.now())
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Reset token redemption failed", "error", err)
		respondInternalError(w)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
		respondInternalError(w)
		return
	}

	if err := s.store.UpdateUserPassword(r.Context(), userID, hash); err != nil {
		slog.ErrorContext(r.Context(), "Password update failed", "error", err)
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, messageBody{Message: "Password changed successfully"})
}
