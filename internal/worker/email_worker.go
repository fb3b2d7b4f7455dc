package worker

import (
	"fmt"
	"log/slog"

	"ecofinance/internal/amqp"
	"ecofinance/internal/email"
)

// EmailWorker renders and delivers queued email jobs.
type EmailWorker struct {
	mailer       email.Mailer
	dashboardURL string
}

func NewEmailWorker(mailer email.Mailer, dashboardURL string) *EmailWorker {
	return &EmailWorker{
		mailer:       mailer,
		dashboardURL: dashboardURL,
	}
}

// HandleEmailMessage processes a single email job from AMQP. Unknown kinds
// are acked and dropped, a handler error would requeue them forever.
func (w *EmailWorker) HandleEmailMessage(msg *amqp.EmailMessage) error {
	var rendered email.Message
	switch msg.Kind {
	case amqp.EmailKindWelcome:
		rendered = email.WelcomeMessage(msg.To, msg.FirstName, w.dashboardURL)
	case amqp.EmailKindPasswordReset:
		rendered = email.PasswordResetMessage(msg.To, msg.ResetLink)
	default:
		slog.Warn("Dropping email message with unknown kind", "kind", msg.Kind)
		return nil
	}

	if err := w.mailer.Send(rendered); err != nil {
		return fmt.Errorf("send %s email: %w", msg.Kind, err)
	}

	slog.Info("Email delivered", "kind", msg.Kind, "to", msg.To)
	return nil
}
