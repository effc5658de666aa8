package simplepreview

import (
	"context"
	"fmt"
	"time"
)

// DefaultConversionTimeout bounds a single conversion round trip. The
// remote converter shells out to a headless office suite, so the bound is
// generous; it exists so a stuck conversion surfaces as a network-timeout
// failure instead of a preview that spins forever.
const DefaultConversionTimeout = 60 * time.Second

// Engine drives the single active preview slot. Opening a new request
// supersedes the previous one: a result that arrives for a superseded
// request is discarded and any artifact it produced is released without
// ever being exposed.
type Engine interface {
	// Open starts resolving a view request and returns the initial state.
	// For categories that need no conversion the returned state is already
	// terminal; for office documents it is pending and settles
	// asynchronously.
	Open(ctx context.Context, req ViewRequest) (PreviewState, error)

	// Snapshot returns the current state of the active preview.
	Snapshot() (PreviewState, error)

	// ReportLoadFailure folds an in-surface load error (image failed to
	// decode, frame rejected the artifact) into the current state. Reports
	// for a file other than the current one are ignored; the return value
	// reports whether the state changed.
	ReportLoadFailure(fileID string) bool

	// Close tears the preview slot down, releasing any adopted artifact.
	Close()
}

// Option represents a functional option for configuring the engine
type Option func(*engine)

// WithURLResolver sets the collaborator address resolver
func WithURLResolver(resolver URLResolver) Option {
	return func(e *engine) {
		e.resolver = resolver
	}
}

// WithConverter sets the remote conversion client
func WithConverter(converter Converter) Option {
	return func(e *engine) {
		e.converter = converter
	}
}

// WithAllocator sets the artifact handle allocator
func WithAllocator(allocator Allocator) Option {
	return func(e *engine) {
		e.allocator = allocator
	}
}

// WithEventSink sets the event sink for the engine
func WithEventSink(sink EventSink) Option {
	return func(e *engine) {
		e.events = sink
	}
}

// WithConversionTimeout overrides DefaultConversionTimeout.
func WithConversionTimeout(d time.Duration) Option {
	return func(e *engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithStateListener registers a callback invoked after state transitions.
// Delivery order always matches commit order; a transition superseded before
// its delivery is dropped rather than observed late, so the last callback
// always reflects the newest committed state. The callback runs outside the
// engine lock and must not call back into the engine.
func WithStateListener(listener func(PreviewState)) Option {
	return func(e *engine) {
		e.listener = listener
	}
}

// New creates a new engine instance with the given options
func New(options ...Option) (Engine, error) {
	e := &engine{
		events:  NewNoopEventSink(),
		timeout: DefaultConversionTimeout,
	}

	for _, option := range options {
		option(e)
	}

	if e.resolver == nil {
		return nil, fmt.Errorf("url resolver is required")
	}
	if e.converter == nil {
		return nil, fmt.Errorf("converter is required")
	}
	if e.allocator == nil {
		return nil, fmt.Errorf("allocator is required")
	}

	return e, nil
}
