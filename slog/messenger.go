package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsbrief"
)

// Ensure LoggingMessenger implements newsbrief.PageMessenger.
var _ newsbrief.PageMessenger = (*LoggingMessenger)(nil)

// LoggingMessenger wraps a PageMessenger with logging.
type LoggingMessenger struct {
	next   newsbrief.PageMessenger
	logger *slog.Logger
}

// NewLoggingMessenger creates a new LoggingMessenger.
func NewLoggingMessenger(next newsbrief.PageMessenger, logger *slog.Logger) *LoggingMessenger {
	return &LoggingMessenger{next: next, logger: logger}
}

// SendMessage logs the action, page and whether the receiver reported success.
func (m *LoggingMessenger) SendMessage(ctx context.Context, pageURL string, msg newsbrief.Message) (resp *newsbrief.ExtractResponse, err error) {
	defer func(begin time.Time) {
		var success bool
		if resp != nil {
			success = resp.Success
		}
		m.logger.Log(ctx, level(err), "page message",
			"action", msg.Action,
			"url", pageURL,
			"success", success,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.SendMessage(ctx, pageURL, msg)
}
