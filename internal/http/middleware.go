package http

import (
	"context"
	"net/http"
	"strings"
)

type userIDKey struct{}

// requireAuth verifies the Bearer token and stores the authenticated user
// id in the request context. A missing token is 401, a bad one is 403.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			respondError(w, http.StatusForbidden, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		next(w, r.WithContext(ctx))
	}
}

// authedUserID returns the user id placed in the context by requireAuth.
func authedUserID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey{}).(int64)
	return id
}
