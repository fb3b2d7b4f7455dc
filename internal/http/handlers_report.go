package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"ecofinance/internal/core"
)

func statsCacheKey(userID int64) string {
	return fmt.Sprintf("stats:%d", userID)
}

func reportCacheKey(userID int64, month, year int) string {
	return fmt.Sprintf("report:%d:%d-%02d", userID, year, month)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID := authedUserID(r)

	key := statsCacheKey(userID)
	if stats, ok := s.statsCache.Get(key); ok {
		respondJSON(w, http.StatusOK, stats)
		return
	}

	now := s.now().UTC()
	monthly, err := s.store.TransactionsByMonth(r.Context(), userID, now.Year(), int(now.Month()))
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard stats query failed", "error", err)
		respondInternalError(w)
		return
	}

	stats := core.BuildDashboardStats(monthly)
	s.statsCache.Set(key, stats)

	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	userID := authedUserID(r)
	now := s.now().UTC()

	// Omitted or unparsable month/year fall back to the current month.
	month := int(now.Month())
	if v, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil {
		month = v
	}
	year := now.Year()
	if v, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		year = v
	}
	if month < 1 || month > 12 {
		respondError(w, http.StatusBadRequest, "Month must be between 1 and 12")
		return
	}

	key := reportCacheKey(userID, month, year)
	if report, ok := s.reportCache.Get(key); ok {
		respondJSON(w, http.StatusOK, report)
		return
	}

	window, err := s.store.TransactionsByMonth(r.Context(), userID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly report query failed", "error", err)
		respondInternalError(w)
		return
	}

	report := core.BuildMonthlyReport(month, year, window)
	s.reportCache.Set(key, report)

	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleEcoRecommendations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct {
		Recommendations []string `json:"recommendations"`
	}{Recommendations: core.EcoRecommendations()})
}
