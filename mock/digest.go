package mock

import (
	"context"

	"github.com/fwojciec/newsbrief"
)

var _ newsbrief.DigestService = (*DigestService)(nil)

// DigestService is a mock implementation of newsbrief.DigestService.
type DigestService struct {
	CreateDigestFn   func(ctx context.Context, rec *newsbrief.DigestRecord, content string) error
	FindDigestByIDFn func(ctx context.Context, id string) (*newsbrief.DigestRecord, error)
	FindDigestsFn    func(ctx context.Context, filter newsbrief.DigestFilter) ([]*newsbrief.DigestRecord, error)
	DeleteDigestFn   func(ctx context.Context, id string) error
}

func (s *DigestService) CreateDigest(ctx context.Context, rec *newsbrief.DigestRecord, content string) error {
	return s.CreateDigestFn(ctx, rec, content)
}

func (s *DigestService) FindDigestByID(ctx context.Context, id string) (*newsbrief.DigestRecord, error) {
	return s.FindDigestByIDFn(ctx, id)
}

func (s *DigestService) FindDigests(ctx context.Context, filter newsbrief.DigestFilter) ([]*newsbrief.DigestRecord, error) {
	return s.FindDigestsFn(ctx, filter)
}

func (s *DigestService) DeleteDigest(ctx context.Context, id string) error {
	return s.DeleteDigestFn(ctx, id)
}
