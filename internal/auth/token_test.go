package auth

import (
	"testing"
	"time"

	"ecofinance/internal/core"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", DefaultTokenTTL)
	user := core.User{ID: 42, Email: "user@example.com"}

	token, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "user@example.com" {
		t.Fatalf("claims = %+v, want userId=42 email=user@example.com", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", DefaultTokenTTL)
	other := NewTokenIssuer("secret-b", DefaultTokenTTL)

	token, err := issuer.Issue(core.User{ID: 1, Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Fatalf("Verify with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	token, err := issuer.Issue(core.User{ID: 1, Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Shift the verifier's clock past expiry.
	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Fatalf("Verify expired token = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", DefaultTokenTTL)
	for _, bad := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		if _, err := issuer.Verify(bad); err != ErrInvalidToken {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", bad, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", DefaultBcryptCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash equals plaintext")
	}
	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Fatalf("CheckPassword with right password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err != ErrPasswordMismatch {
		t.Fatalf("CheckPassword with wrong password = %v, want ErrPasswordMismatch", err)
	}
}

func TestResetTokenHashing(t *testing.T) {
	token, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(token))
	}
	if HashResetToken(token) == token {
		t.Fatal("hash equals token")
	}
	if HashResetToken(token) != HashResetToken(token) {
		t.Fatal("hash is not deterministic")
	}

	second, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if second == token {
		t.Fatal("two generated tokens are identical")
	}
}
