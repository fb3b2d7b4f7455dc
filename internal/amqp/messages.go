package amqp

import (
	"encoding/json"
	"time"
)

// Email message kinds routed through the send_emails queue.
const (
	EmailKindWelcome       = "welcome"
	EmailKindPasswordReset = "password_reset"
)

// EmailMessage represents a queued outbound email job. The worker renders
// the final message body from the kind and payload fields.
type EmailMessage struct {
	Kind      string    `json:"kind"`
	To        string    `json:"to"`
	FirstName string    `json:"firstName"`
	ResetLink string    `json:"resetLink,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewWelcomeEmailMessage creates a welcome email job for a new account
func NewWelcomeEmailMessage(to, firstName string) *EmailMessage {
	return &EmailMessage{
		Kind:      EmailKindWelcome,
		To:        to,
		FirstName: firstName,
		Timestamp: time.Now(),
	}
}

// NewPasswordResetEmailMessage creates a password reset email job
func NewPasswordResetEmailMessage(to, firstName, resetLink string) *EmailMessage {
	return &EmailMessage{
		Kind:      EmailKindPasswordReset,
		To:        to,
		FirstName: firstName,
		ResetLink: resetLink,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EmailMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EmailMessageFromJSON creates a message from JSON bytes
func EmailMessageFromJSON(data []byte) (*EmailMessage, error) {
	var msg EmailMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
