// Package notify delivers best-effort email notifications about asset requests.
package notify

import (
	"context"

	"github.com/crucial707/hci-inventory/internal/config"
)

// Notifier sends one message. It reports whether delivery succeeded and never
// returns an error: callers log the outcome and carry on.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string, isHTML bool) bool
}

// New returns the transport selected by cfg.EmailTransport.
func New(cfg config.Config) (Notifier, error) {
	if cfg.EmailTransport == config.TransportReal {
		return NewSMTPNotifier(SMTPSettings{
			Host:     cfg.SMTPServer,
			Port:     cfg.SMTPPort,
			Sender:   cfg.SMTPEmail,
			Password: cfg.SMTPPassword,
		})
	}
	return MockNotifier{}, nil
}
