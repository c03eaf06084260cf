package notify

import (
	"context"
	"log/slog"

	"github.com/crucial707/hci-inventory/internal/metrics"
)

const previewLen = 200

// MockNotifier logs the message it would have sent.
type MockNotifier struct{}

func (MockNotifier) Notify(ctx context.Context, recipient, subject, body string, isHTML bool) bool {
	attrs := []any{"to", recipient, "subject", subject}
	if isHTML {
		attrs = append(attrs, "preview", preview(body))
	} else {
		attrs = append(attrs, "body", body)
	}
	slog.InfoContext(ctx, "mock email", attrs...)
	metrics.IncNotifications("mock", true)
	return true
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
