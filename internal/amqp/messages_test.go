package amqp

import (
	"testing"
)

func TestEmailMessageJSON(t *testing.T) {
	msg := NewPasswordResetEmailMessage("mario@example.com", "Mario", "http://localhost:5173/reset?token=abc")

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := EmailMessageFromJSON(data)
	if err != nil {
		t.Fatalf("EmailMessageFromJSON: %v", err)
	}

	if got.Kind != EmailKindPasswordReset {
		t.Errorf("Kind = %q, want %q", got.Kind, EmailKindPasswordReset)
	}
	if got.To != msg.To {
		t.Errorf("To = %q, want %q", got.To, msg.To)
	}
	if got.ResetLink != msg.ResetLink {
		t.Errorf("ResetLink = %q, want %q", got.ResetLink, msg.ResetLink)
	}
	if !got.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, msg.Timestamp)
	}
}

func TestWelcomeEmailMessage(t *testing.T) {
	msg := NewWelcomeEmailMessage("anna@example.com", "Anna")

	if msg.Kind != EmailKindWelcome {
		t.Errorf("Kind = %q, want %q", msg.Kind, EmailKindWelcome)
	}
	if msg.ResetLink != "" {
		t.Errorf("ResetLink = %q, want empty", msg.ResetLink)
	}
	if msg.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestEmailMessageFromJSONInvalid(t *testing.T) {
	if _, err := EmailMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
