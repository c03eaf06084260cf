package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/crucial707/hci-inventory/internal/metrics"
	"github.com/wneessen/go-mail"
)

// SMTPSettings configures the real transport. Sender doubles as the SMTP login.
type SMTPSettings struct {
	Host     string
	Port     int
	Sender   string
	Password string
	Timeout  time.Duration
}

// SMTPNotifier sends mail through an authenticated STARTTLS relay.
type SMTPNotifier struct {
	sender string
	client *mail.Client
	// send is replaced in tests.
	send func(ctx context.Context, msg *mail.Msg) error
}

func NewSMTPNotifier(s SMTPSettings) (*SMTPNotifier, error) {
	if s.Host == "" || s.Sender == "" {
		return nil, errors.New("smtp host and sender are required")
	}
	if s.Timeout == 0 {
		s.Timeout = 15 * time.Second
	}
	client, err := mail.NewClient(s.Host,
		mail.WithPort(s.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.Sender),
		mail.WithPassword(s.Password),
		mail.WithTimeout(s.Timeout),
	)
	if err != nil {
		return nil, err
	}
	n := &SMTPNotifier{sender: s.Sender, client: client}
	n.send = func(ctx context.Context, msg *mail.Msg) error {
		return n.client.DialAndSendWithContext(ctx, msg)
	}
	return n, nil
}

func (n *SMTPNotifier) Notify(ctx context.Context, recipient, subject, body string, isHTML bool) bool {
	msg, err := n.message(recipient, subject, body, isHTML)
	if err == nil {
		err = n.send(ctx, msg)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to send email", "to", recipient, "subject", subject, "error", err)
		metrics.IncNotifications("smtp", false)
		return false
	}
	slog.InfoContext(ctx, "email sent", "to", recipient, "subject", subject)
	metrics.IncNotifications("smtp", true)
	return true
}

func (n *SMTPNotifier) message(recipient, subject, body string, isHTML bool) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.sender); err != nil {
		return nil, err
	}
	if err := msg.To(recipient); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	contentType := mail.TypeTextPlain
	if isHTML {
		contentType = mail.TypeTextHTML
	}
	msg.SetBodyString(contentType, body)
	return msg, nil
}
