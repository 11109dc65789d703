package mock

import (
	"context"

	"github.com/fwojciec/newsbrief"
)

var _ newsbrief.DigestWriter = (*DigestWriter)(nil)

// DigestWriter is a mock implementation of newsbrief.DigestWriter.
type DigestWriter struct {
	WriteDigestFn func(ctx context.Context, d *newsbrief.Digest) error
}

func (w *DigestWriter) WriteDigest(ctx context.Context, d *newsbrief.Digest) error {
	return w.WriteDigestFn(ctx, d)
}
