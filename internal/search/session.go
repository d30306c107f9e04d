package search

import (
	"context"
	"errors"
	"sync"

	"academyscope/internal/metrics"
	"academyscope/internal/model"
)

// ErrSuperseded is returned by Session.Update when a newer update started
// before this one finished. Its result is dropped.
var ErrSuperseded = errors.New("superseded by a newer search")

// Sink displays results.
type Sink interface {
	Render(Result)
}

// Session serialises the visible result set of one front-end: only the most
// recent update is rendered, and starting an update cancels the one in
// flight.
type Session struct {
	engine *Engine
	sink   Sink

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSession creates a session rendering to sink.
func (e *Engine) NewSession(sink Sink) *Session {
	return &Session{engine: e, sink: sink}
}

// Update runs a cycle for sel and renders it unless a newer update has
// started meanwhile. Errors are not rendered.
func (s *Session) Update(ctx context.Context, sel model.FilterSelection) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	res, err := s.engine.Run(ctx, sel)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.engine.metrics.ObserveQuery(metrics.OutcomeSuperseded)
		return ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return err
	}
	s.sink.Render(res)
	return nil
}

// Close cancels the update in flight, if any, and drops its result.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
