package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, title, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, title)
	return nil
}

func (f *fakeSender) Name() string { return "fake" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotify_FiltersByEvent(t *testing.T) {
	s := &fakeSender{}
	n := NewNotifier([]Sender{s}, []string{"trade_committed"}, testLogger())

	n.Notify(context.Background(), "trade_committed", "Trade", "msg")
	n.Notify(context.Background(), "daily_report", "Report", "msg")

	assert.Equal(t, []string{"Trade"}, s.sent)
}

func TestNotify_EmptyEventListAllowsAll(t *testing.T) {
	s := &fakeSender{}
	n := NewNotifier([]Sender{s}, nil, testLogger())

	n.Notify(context.Background(), "anything", "A", "msg")
	n.Notify(context.Background(), "else", "B", "msg")

	assert.Equal(t, []string{"A", "B"}, s.sent)
}

func TestNotify_SenderFailureSwallowed(t *testing.T) {
	broken := &fakeSender{err: errors.New("network down")}
	working := &fakeSender{}
	n := NewNotifier([]Sender{broken, working}, nil, testLogger())

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), "trade_committed", "Trade", "msg")
	})
	assert.Equal(t, []string{"Trade"}, working.sent, "one broken sender must not block the others")
}

func TestNotify_NoSendersDoesNotPanic(t *testing.T) {
	n := NewNotifier(nil, nil, testLogger())
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), "trade_committed", "Trade", "msg")
	})
}
