package mock

import (
	"context"

	"github.com/fwojciec/newsbrief"
)

var _ newsbrief.PageMessenger = (*PageMessenger)(nil)

// PageMessenger is a mock implementation of newsbrief.PageMessenger.
type PageMessenger struct {
	SendMessageFn func(ctx context.Context, pageURL string, msg newsbrief.Message) (*newsbrief.ExtractResponse, error)
}

func (m *PageMessenger) SendMessage(ctx context.Context, pageURL string, msg newsbrief.Message) (*newsbrief.ExtractResponse, error) {
	return m.SendMessageFn(ctx, pageURL, msg)
}
