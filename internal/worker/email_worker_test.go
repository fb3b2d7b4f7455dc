package worker

import (
	"errors"
	"strings"
	"testing"

	"ecofinance/internal/amqp"
	"ecofinance/internal/email"
)

type fakeMailer struct {
	sent []email.Message
	err  error
}

func (m *fakeMailer) Send(msg email.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestHandleEmailMessageWelcome(t *testing.T) {
	mailer := &fakeMailer{}
	w := NewEmailWorker(mailer, "http://localhost:5173/dashboard")

	err := w.HandleEmailMessage(amqp.NewWelcomeEmailMessage("mario@example.com", "Mario"))
	if err != nil {
		t.Fatalf("HandleEmailMessage: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To != "mario@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.HTML, "Mario") || !strings.Contains(msg.HTML, "http://localhost:5173/dashboard") {
		t.Error("welcome body missing name or dashboard link")
	}
}

func TestHandleEmailMessagePasswordReset(t *testing.T) {
	mailer := &fakeMailer{}
	w := NewEmailWorker(mailer, "http://localhost:5173/dashboard")

	link := "http://localhost:5173/reset-password?token=abc123"
	err := w.HandleEmailMessage(amqp.NewPasswordResetEmailMessage("mario@example.com", "Mario", link))
	if err != nil {
		t.Fatalf("HandleEmailMessage: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(mailer.sent))
	}
	if !strings.Contains(mailer.sent[0].HTML, link) {
		t.Error("reset body missing reset link")
	}
}

func TestHandleEmailMessageUnknownKind(t *testing.T) {
	mailer := &fakeMailer{}
	w := NewEmailWorker(mailer, "http://localhost:5173/dashboard")

	// Unknown kinds must be dropped without error: an error would make
	// the consumer requeue the message indefinitely.
	err := w.HandleEmailMessage(&amqp.EmailMessage{Kind: "newsletter", To: "mario@example.com"})
	if err != nil {
		t.Fatalf("unknown kind returned error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(mailer.sent))
	}
}

func TestHandleEmailMessageSendFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("relay down")}
	w := NewEmailWorker(mailer, "http://localhost:5173/dashboard")

	err := w.HandleEmailMessage(amqp.NewWelcomeEmailMessage("mario@example.com", "Mario"))
	if err == nil {
		t.Fatal("expected delivery error to propagate")
	}
}
