package storage

import (
	"context"
	"fmt"

	"hotels-etl/models"
)

// Sink is the interface any storage backend must satisfy.
// Replace discards whatever the sink held before and stores ds in its place.
type Sink interface {
	Name() string
	Replace(ctx context.Context, ds *models.Dataset) error
	Close() error
}

// MultiSink replaces every sink in order and stops at the first failure.
type MultiSink []Sink

func (m MultiSink) Name() string { return "multi" }

func (m MultiSink) Replace(ctx context.Context, ds *models.Dataset) error {
	for _, s := range m {
		if err := s.Replace(ctx, ds); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
	}
	return nil
}

// Close closes every sink and returns the first error.
func (m MultiSink) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
