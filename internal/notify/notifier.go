// Package notify delivers operator notifications for trade confirmations,
// daily summaries, and alerts. Delivery is best-effort: sender failures are
// swallowed and logged locally, never propagated into the trading loop.
package notify

import (
	"context"
	"log/slog"
	"strings"
)

// Sender is one notification channel.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name identifies the channel (e.g. "telegram").
	Name() string
}

// Notifier fans a notification out to all configured senders, filtered by
// event type. With no senders configured it degrades to a log line, so a
// bare dry_run setup still shows trade confirmations.
type Notifier struct {
	senders []Sender
	events  map[string]bool // allowed event types; empty = allow all
	logger  *slog.Logger
}

// NewNotifier creates a Notifier delivering to senders. Only events listed in
// events are forwarded; an empty list allows everything.
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		e = strings.TrimSpace(e)
		if e != "" {
			allowed[e] = true
		}
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Notify delivers to every sender when the event type is allowed. Failures
// are logged and swallowed.
func (n *Notifier) Notify(ctx context.Context, event, title, message string) {
	if len(n.events) > 0 && !n.events[event] {
		return
	}

	if len(n.senders) == 0 {
		n.logger.Info("notification",
			slog.String("event", event),
			slog.String("title", title),
			slog.String("message", message),
		)
		return
	}

	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.Warn("sender failed",
				slog.String("sender", s.Name()),
				slog.String("event", event),
				slog.String("error", err.Error()),
			)
		}
	}
}
