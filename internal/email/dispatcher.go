package email

import "context"

// Dispatcher hands outbound emails off for delivery. The queue-backed
// implementation publishes a job for the worker process; DirectDispatcher
// delivers synchronously when no broker is configured.
type Dispatcher interface {
	DispatchWelcome(ctx context.Context, to, firstName string) error
	DispatchPasswordReset(ctx context.Context, to, firstName, resetLink string) error
}

// DirectDispatcher renders and sends messages in-process.
type DirectDispatcher struct {
	mailer       Mailer
	dashboardURL string
}

func NewDirectDispatcher(mailer Mailer, dashboardURL string) *DirectDispatcher {
	return &DirectDispatcher{mailer: mailer, dashboardURL: dashboardURL}
}

func (d *DirectDispatcher) DispatchWelcome(ctx context.Context, to, firstName string) error {
	return d.mailer.Send(WelcomeMessage(to, firstName, d.dashboardURL))
}

func (d *DirectDispatcher) DispatchPasswordReset(ctx context.Context, to, firstName, resetLink string) error {
	return d.mailer.Send(PasswordResetMessage(to, resetLink))
}
