package amqp

import "context"

// Dispatcher publishes email jobs through the client. It satisfies the
// email.Dispatcher interface so the API server can swap between queued
// and direct delivery.
type Dispatcher struct {
	client *Client
}

func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client}
}

func (d *Dispatcher) DispatchWelcome(ctx context.Context, to, firstName string) error {
	return d.client.PublishEmail(ctx, NewWelcomeEmailMessage(to, firstName))
}

func (d *Dispatcher) DispatchPasswordReset(ctx context.Context, to, firstName, resetLink string) error {
	return d.client.PublishEmail(ctx, NewPasswordResetEmailMessage(to, firstName, resetLink))
}
