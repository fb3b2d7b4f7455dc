package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecofinance/internal/auth"
	"ecofinance/internal/core"
	"ecofinance/internal/storage"
)

// recordingDispatcher captures dispatched emails instead of sending them.
type recordingDispatcher struct {
	welcomes   []string
	resetLinks []string
}

func (d *recordingDispatcher) DispatchWelcome(ctx context.Context, to, firstName string) error {
	d.welcomes = append(d.welcomes, to)
	return nil
}

func (d *recordingDispatcher) DispatchPasswordReset(ctx context.Context, to, firstName, resetLink string) error {
	d.resetLinks = append(d.resetLinks, resetLink)
	return nil
}

func newTestServer(t *testing.T) (*Server, *recordingDispatcher) {
	t.Helper()
	store := storage.NewMemoryStore()
	tokens := auth.NewTokenIssuer("test-secret", 7*24*time.Hour)
	dispatcher := &recordingDispatcher{}
	// Min bcrypt cost keeps the auth tests fast.
	srv := NewServer(":0", store, tokens, dispatcher, 4, "http://localhost:5173")
	srv.now = func() time.Time {
		return time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)
	}
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
	})
	return srv, dispatcher
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

func registerUser(t *testing.T, srv *Server, email string) (string, userResponse) {
	t.Helper()
	rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     email,
		"password":  "secret123",
		"firstName": "Mario",
		"lastName":  "Rossi",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[authResponse](t, rr)
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return resp.Token, resp.User
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "", nil)
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rr.Code)
		}
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	srv, dispatcher := newTestServer(t)

	token, user := registerUser(t, srv, "mario@example.com")
	if user.Email != "mario@example.com" || user.FirstName != "Mario" {
		t.Errorf("unexpected user payload: %+v", user)
	}
	if len(dispatcher.welcomes) != 1 || dispatcher.welcomes[0] != "mario@example.com" {
		t.Errorf("welcome email dispatches = %v", dispatcher.welcomes)
	}

	// Duplicate email is rejected.
	rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "mario@example.com", "password": "secret123",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("duplicate register status = %d", rr.Code)
	}

	// Login with correct credentials.
	rr = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "mario@example.com", "password": "secret123",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rr.Code, rr.Body.String())
	}

	// Wrong password and unknown email give the same status and message.
	wrongPass := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "mario@example.com", "password": "nope12",
	})
	unknown := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "secret123",
	})
	if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Errorf("login failures: wrong pass %d, unknown %d", wrongPass.Code, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Errorf("login failure bodies differ: %q vs %q", wrongPass.Body.String(), unknown.Body.String())
	}

	// Token works on a protected endpoint.
	rr = doJSON(t, srv, http.MethodGet, "/api/user/profile", token, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("profile status = %d", rr.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"invalid email", map[string]string{"email": "not-an-email", "password": "secret123"}},
		{"short password", map[string]string{"email": "a@example.com", "password": "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	// Missing token
	rr := doJSON(t, srv, http.MethodGet, "/api/transactions", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", rr.Code)
	}

	// Garbage token
	rr = doJSON(t, srv, http.MethodGet, "/api/transactions", "not.a.token", nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("invalid token status = %d, want 403", rr.Code)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "mario@example.com")

	// Amount as a JSON string, the shape web clients send.
	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", token, map[string]any{
		"type":        "expense",
		"amount":      "100",
		"category":    "transport",
		"description": "Fuel",
		"date":        "2025-05-10",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	created := decodeBody[transactionResponse](t, rr)
	if !created.EcoImpact.Equal(decimal.NewFromInt(20)) {
		t.Errorf("ecoImpact = %s, want 20", created.EcoImpact)
	}
	if !created.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("amount = %s, want 100", created.Amount)
	}
	if !created.Date.Equal(time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v, want UTC midnight of 2025-05-10", created.Date)
	}

	// Amount as a JSON number works the same.
	rr = doJSON(t, srv, http.MethodPost, "/api/transactions", token, map[string]any{
		"type": "income", "amount": 2500.50, "category": "salary", "date": "2025-05-01",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("numeric amount create status = %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/transactions", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	list := decodeBody[[]transactionResponse](t, rr)
	if len(list) != 2 {
		t.Fatalf("listed %d transactions, want 2", len(list))
	}

	rr = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", created.ID), token, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rr.Code)
	}

	// Deleting again is a 404, the row is gone.
	rr = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", created.ID), token, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

func TestTransactionOwnership(t *testing.T) {
	srv, _ := newTestServer(t)
	ownerToken, _ := registerUser(t, srv, "owner@example.com")
	otherToken, _ := registerUser(t, srv, "other@example.com")

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", ownerToken, map[string]any{
		"type": "expense", "amount": "10", "category": "food", "date": "2025-05-10",
	})
	created := decodeBody[transactionResponse](t, rr)

	// Another user sees 403, not 404: the row exists but is not theirs.
	rr = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", created.ID), otherToken, nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("foreign delete status = %d, want 403", rr.Code)
	}

	// And their listings stay empty.
	rr = doJSON(t, srv, http.MethodGet, "/api/transactions", otherToken, nil)
	list := decodeBody[[]transactionResponse](t, rr)
	if len(list) != 0 {
		t.Errorf("foreign listing has %d transactions, want 0", len(list))
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "mario@example.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad type", map[string]any{"type": "transfer", "amount": "10", "category": "food", "date": "2025-05-10"}},
		{"zero amount", map[string]any{"type": "expense", "amount": "0", "category": "food", "date": "2025-05-10"}},
		{"negative amount", map[string]any{"type": "expense", "amount": -5, "category": "food", "date": "2025-05-10"}},
		{"non-numeric amount", map[string]any{"type": "expense", "amount": "abc", "category": "food", "date": "2025-05-10"}},
		{"missing category", map[string]any{"type": "expense", "amount": "10", "category": "", "date": "2025-05-10"}},
		{"bad date", map[string]any{"type": "expense", "amount": "10", "category": "food", "date": "10/05/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/transactions", token, tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestCategoryEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "mario@example.com")

	rr := doJSON(t, srv, http.MethodPost, "/api/categories", token, map[string]any{
		"name": "Groceries", "type": "expense", "color": "#22C55E", "icon": "🥦",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	groceries := decodeBody[categoryResponse](t, rr)

	// Defaults fill in when cosmetic fields are omitted.
	rr = doJSON(t, srv, http.MethodPost, "/api/categories", token, map[string]any{
		"name": "Salary", "type": "income",
	})
	salary := decodeBody[categoryResponse](t, rr)
	if salary.Color != defaultCategoryColor || salary.Icon != defaultCategoryIcon {
		t.Errorf("defaults not applied: color %q icon %q", salary.Color, salary.Icon)
	}

	// Duplicate name for the same user is rejected.
	rr = doJSON(t, srv, http.MethodPost, "/api/categories", token, map[string]any{
		"name": "Groceries", "type": "expense",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d, want 400", rr.Code)
	}

	// Type filter.
	rr = doJSON(t, srv, http.MethodGet, "/api/categories?type=expense", token, nil)
	filtered := decodeBody[[]categoryResponse](t, rr)
	if len(filtered) != 1 || filtered[0].Name != "Groceries" {
		t.Errorf("expense filter = %+v", filtered)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/categories?type=bogus", token, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bogus filter status = %d, want 400", rr.Code)
	}

	// Built-in keys ride alongside the user-defined rows.
	rr = doJSON(t, srv, http.MethodGet, "/api/categories/defaults", token, nil)
	defaults := decodeBody[map[string][]string](t, rr)
	if len(defaults["income"]) == 0 || len(defaults["expense"]) == 0 {
		t.Errorf("default categories = %v", defaults)
	}

	rr = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/categories/%d", groceries.ID), token, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rr.Code)
	}
	rr = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/categories/%d", groceries.ID), token, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

func TestDashboardStats(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "mario@example.com")

	// Current month for the fixed clock is May 2025.
	seed := []map[string]any{
		{"type": "income", "amount": "3000", "category": "salary", "date": "2025-05-01"},    // 150 CO2 (default multiplier)
		{"type": "expense", "amount": "200", "category": "transport", "date": "2025-05-05"}, // 40 CO2
		{"type": "expense", "amount": "300", "category": "food", "date": "2025-05-10"},      // 45 CO2
		// Outside the window, must not count.
		{"type": "expense", "amount": "9999", "category": "utilities", "date": "2025-04-30"},
	}
	for _, body := range seed {
		if rr := doJSON(t, srv, http.MethodPost, "/api/transactions", token, body); rr.Code != http.StatusOK {
			t.Fatalf("seed create status = %d", rr.Code)
		}
	}

	rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/stats", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rr.Code)
	}
	stats := decodeBody[core.DashboardStats](t, rr)

	if !stats.TotalBalance.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("totalBalance = %s, want 2500", stats.TotalBalance)
	}
	if !stats.MonthlyIncome.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("monthlyIncome = %s, want 3000", stats.MonthlyIncome)
	}
	if !stats.MonthlyExpenses.Equal(decimal.NewFromInt(500)) {
		t.Errorf("monthlyExpenses = %s, want 500", stats.MonthlyExpenses)
	}
	// 235 kg CO2 in the month: rating B, reduction (500-235)/500 = 53.
	if stats.EcoRating != core.RatingB {
		t.Errorf("ecoRating = %s, want B", stats.EcoRating)
	}
	if stats.CO2Reduction != 53 {
		t.Errorf("co2Reduction = %d, want 53", stats.CO2Reduction)
	}
	if stats.TotalTransactions != 3 {
		t.Errorf("totalTransactions = %d, want 3", stats.TotalTransactions)
	}
}

func TestDashboardStatsCacheInvalidation(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "mario@example.com")

	rr := doJSON(t, srv, http.MethodGet, "/api/dashboard/stats", token, nil)
	empty := decodeBody[core.DashboardStats](t, rr)
	if empty.TotalTransactions != 0 {
		t.Fatalf("expected empty stats, got %+v", empty)
	}

	// A write behind the cached view must be visible on the next read.
	doJSON(t, srv, http.MethodPost, "/api/transactions", token, map[string]any{
		"type": "expense", "amount": "50", "category": "food", "date": "2025-05-12",
	})

	rr = doJSON(t, srv, http.MethodGet, "/api/dashboard/stats", token, nil)
	fresh := decodeBody[core.DashboardStats](t, rr)
	if fresh.TotalTransactions != 1 {
		t.Errorf("stale stats after write: %+v", fresh)
	}
}

func TestMonthlyReport(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "mario@example.com")

	seed := []map[string]any{
		{"type": "income", "amount": "1000", "category": "salary", "date": "2025-03-01"},
		{"type": "expense", "amount": "150", "category": "food", "date": "2025-03-05"},
		{"type": "expense", "amount": "100", "category": "transport", "date": "2025-03-20"},
	}
	for _, body := range seed {
		if rr := doJSON(t, srv, http.MethodPost, "/api/transactions", token, body); rr.Code != http.StatusOK {
			t.Fatalf("seed create status = %d", rr.Code)
		}
	}

	rr := doJSON(t, srv, http.MethodGet, "/api/reports/monthly?month=3&year=2025", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("report status = %d", rr.Code)
	}
	report := decodeBody[core.MonthlyReport](t, rr)

	if report.Month != 3 || report.Year != 2025 {
		t.Errorf("report period = %d/%d", report.Month, report.Year)
	}
	if !report.TotalIncome.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("totalIncome = %s", report.TotalIncome)
	}
	if !report.TotalExpenses.Equal(decimal.NewFromInt(250)) {
		t.Errorf("totalExpenses = %s", report.TotalExpenses)
	}
	if len(report.TopCategories) != 2 {
		t.Fatalf("topCategories = %+v", report.TopCategories)
	}
	if report.TopCategories[0].Category != "food" || report.TopCategories[0].Percentage != 60 {
		t.Errorf("top category = %+v", report.TopCategories[0])
	}
	// 50 + 22.5 + 20 = 92.5 kg CO2: rating A.
	if report.EcoMetrics.Rating != core.RatingA {
		t.Errorf("rating = %s, want A", report.EcoMetrics.Rating)
	}
	if len(report.EcoMetrics.Recommendations) == 0 {
		t.Error("expected recommendations in report")
	}

	// Out-of-range month is rejected.
	rr = doJSON(t, srv, http.MethodGet, "/api/reports/monthly?month=13&year=2025", token, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("month=13 status = %d, want 400", rr.Code)
	}
}

func TestUserProfileAndPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "mario@example.com")

	rr := doJSON(t, srv, http.MethodPatch, "/api/user/profile", token, map[string]string{
		"firstName": "Maria", "lastName": "Bianchi", "email": "maria@example.com",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("profile update status = %d, body %s", rr.Code, rr.Body.String())
	}
	updated := decodeBody[userResponse](t, rr)
	if updated.FirstName != "Maria" || updated.Email != "maria@example.com" {
		t.Errorf("updated profile = %+v", updated)
	}

	// Wrong current password is a 400, not 401.
	rr = doJSON(t, srv, http.MethodPatch, "/api/user/password", token, map[string]string{
		"currentPassword": "wrong", "newPassword": "newsecret",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("wrong current password status = %d, want 400", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPatch, "/api/user/password", token, map[string]string{
		"currentPassword": "secret123", "newPassword": "newsecret",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("password change status = %d", rr.Code)
	}

	// Old password no longer works, new one does.
	rr = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "maria@example.com", "password": "secret123",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("old password login status = %d, want 401", rr.Code)
	}
	rr = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "maria@example.com", "password": "newsecret",
	})
	if rr.Code != http.StatusOK {
		t.Errorf("new password login status = %d, want 200", rr.Code)
	}
}

func TestUserStats(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "mario@example.com")

	doJSON(t, srv, http.MethodPost, "/api/transactions", token, map[string]any{
		"type": "expense", "amount": "100", "category": "transport", "date": "2025-01-10",
	})
	doJSON(t, srv, http.MethodPost, "/api/transactions", token, map[string]any{
		"type": "expense", "amount": "100", "category": "transport", "date": "2025-05-10",
	})

	rr := doJSON(t, srv, http.MethodGet, "/api/user/stats", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rr.Code)
	}
	stats := decodeBody[core.UserStats](t, rr)

	// Lifetime stats span months: 40 kg CO2 total, both transactions.
	if stats.TotalTransactions != 2 {
		t.Errorf("totalTransactions = %d, want 2", stats.TotalTransactions)
	}
	if stats.EcoRating != core.RatingAPlus {
		t.Errorf("ecoRating = %s, want A+", stats.EcoRating)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	srv, dispatcher := newTestServer(t)
	registerUser(t, srv, "mario@example.com")

	// Known and unknown emails produce identical responses.
	known := doJSON(t, srv, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
		"email": "mario@example.com",
	})
	unknown := doJSON(t, srv, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
		"email": "ghost@example.com",
	})
	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("forgot password statuses: %d, %d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Errorf("responses differ: %q vs %q", known.Body.String(), unknown.Body.String())
	}

	// Only the real account got an email.
	if len(dispatcher.resetLinks) != 1 {
		t.Fatalf("reset emails dispatched = %d, want 1", len(dispatcher.resetLinks))
	}

	link, err := url.Parse(dispatcher.resetLinks[0])
	if err != nil {
		t.Fatalf("parse reset link: %v", err)
	}
	resetToken := link.Query().Get("token")
	if resetToken == "" {
		t.Fatalf("reset link has no token: %s", dispatcher.resetLinks[0])
	}

	rr := doJSON(t, srv, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token": resetToken, "newPassword": "brandnew1",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("reset status = %d, body %s", rr.Code, rr.Body.String())
	}

	// The token is single use.
	rr = doJSON(t, srv, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token": resetToken, "newPassword": "another1",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("reused token status = %d, want 400", rr.Code)
	}

	// New password is live.
	rr = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "mario@example.com", "password": "brandnew1",
	})
	if rr.Code != http.StatusOK {
		t.Errorf("login after reset status = %d", rr.Code)
	}
}

func TestEcoRecommendations(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "mario@example.com")

	rr := doJSON(t, srv, http.MethodGet, "/api/eco/recommendations", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := decodeBody[struct {
		Recommendations []string `json:"recommendations"`
	}](t, rr)
	if len(body.Recommendations) != 5 {
		t.Errorf("recommendations = %d, want 5", len(body.Recommendations))
	}
}
