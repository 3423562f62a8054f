// Package search runs one vacancy search end to end: filter mapping, a single
// API call, and normalization. Sorting stays a separate, explicit step.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rsilvagit/hh-export/internal/filter"
	"github.com/rsilvagit/hh-export/internal/model"
	"github.com/rsilvagit/hh-export/internal/normalize"
)

// Source returns raw vacancy objects for a query.
type Source interface {
	Name() string
	Search(ctx context.Context, q filter.Query) ([]map[string]any, error)
}

// Result is the outcome of one search, in API order.
type Result struct {
	Query   filter.Query
	Records []model.Vacancy
}

// Empty reports the "nothing found" outcome, which is not an error.
func (r Result) Empty() bool {
	return len(r.Records) == 0
}

// Sorted returns the records newest first without touching r.Records.
func (r Result) Sorted() []model.Vacancy {
	return model.SortByPublished(r.Records)
}

// Service runs searches against one source.
type Service struct {
	source     Source
	normalizer normalize.Normalizer
}

// NewService creates a Service.
func NewService(source Source, n normalize.Normalizer) *Service {
	return &Service{source: source, normalizer: n}
}

// Run validates f, then performs exactly one request. An invalid filter
// fails before any network traffic.
func (s *Service) Run(ctx context.Context, f filter.SearchFilter) (Result, error) {
	q, err := filter.Build(f)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	raw, err := s.source.Search(ctx, q)
	if err != nil {
		return Result{Query: q}, fmt.Errorf("search: %s: %w", s.source.Name(), err)
	}

	res := Result{
		Query:   q,
		Records: s.normalizer.NormalizeAll(raw),
	}
	log.Info().
		Str("source", s.source.Name()).
		Str("text", f.Query).
		Int("records", len(res.Records)).
		Dur("took", time.Since(start)).
		Msg("search: completed")
	return res, nil
}

// Outcome is delivered by Go.
type Outcome struct {
	Result Result
	Err    error
}

// Go runs Run on its own goroutine so the caller's loop stays responsive.
// The channel receives exactly one Outcome and is then closed.
func (s *Service) Go(ctx context.Context, f filter.SearchFilter) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		res, err := s.Run(ctx, f)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}
