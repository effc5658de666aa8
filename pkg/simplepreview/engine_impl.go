package simplepreview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// engine implements the Engine interface
type engine struct {
	resolver  URLResolver
	converter Converter
	allocator Allocator
	events    EventSink
	listener  func(PreviewState)
	timeout   time.Duration

	mu        sync.Mutex
	gen       uint64
	seq       uint64
	active    bool
	state     PreviewState
	resources resourceSlot

	notifyMu sync.Mutex
	notified uint64
}

func (e *engine) Open(ctx context.Context, req ViewRequest) (PreviewState, error) {
	if req.FileID == "" {
		return PreviewState{}, &PreviewError{Op: "open", Err: errors.New("file id is required")}
	}

	category := Classify(req.FileName)

	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.active = true

	hadHandle := e.resources.Current() != nil
	previousID := e.state.Request.FileID
	e.resources.ReleaseCurrent()

	state := PreviewState{
		Request:     req,
		Category:    category,
		DownloadURL: e.resolver.DownloadURL(req.FileID, req.FileName),
	}

	switch {
	case category == CategoryUnsupported:
		state.Conversion = ConversionState{Status: ConversionNotNeeded}
		state.Error = ErrorKindUnsupportedType
	case NeedsConversion(category):
		state.Conversion = ConversionState{Status: ConversionPending}
		state.Loading = true
	default:
		state.Conversion = ConversionState{Status: ConversionNotNeeded}
		page := req.Page
		if !pageAnchored(category) {
			page = 0
		}
		state.ResolvedURL = e.resolver.ContentURL(req.FileID, page)
	}

	e.state = state
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	if hadHandle {
		e.events.HandleReleased(previousID)
	}
	e.events.PreviewOpened(req, category)
	e.notify(seq, state)

	if state.Loading {
		e.events.ConversionStarted(req)
		// The conversion deliberately outlives the opening call: supersession
		// is handled by the generation check on arrival, not by cancelling the
		// round trip mid-flight.
		go e.runConversion(context.WithoutCancel(ctx), gen, req)
	}
	return state, nil
}

func (e *engine) runConversion(ctx context.Context, gen uint64, req ViewRequest) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	data, contentType, err := e.converter.Convert(ctx, req.FileID)
	if errors.Is(err, context.DeadlineExceeded) {
		err = &ConversionError{FileID: req.FileID, Reason: ErrorKindNetworkTimeout, Err: ErrNetworkTimeout}
	}

	var handle ResourceHandle
	if err == nil {
		if !strings.HasPrefix(contentType, "application/pdf") {
			err = &ConversionError{
				FileID: req.FileID,
				Reason: ErrorKindConversionFailed,
				Err:    fmt.Errorf("%w: unexpected artifact content type %q", ErrConversionFailed, contentType),
			}
		} else {
			handle, err = e.allocator.Allocate(req.FileName, contentType, data)
		}
	}

	e.settle(gen, req, handle, err)
}

// settle applies a conversion result to the slot, or discards it when the
// request has been superseded. A stale result's handle is released
// immediately and never exposed.
func (e *engine) settle(gen uint64, req ViewRequest, handle ResourceHandle, convErr error) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		if handle != nil {
			handle.Release()
			e.events.HandleReleased(req.FileID)
		}
		e.events.ResultDiscarded(req)
		return
	}

	state := e.state
	state.Loading = false
	if convErr != nil {
		kind := KindOf(convErr)
		var ce *ConversionError
		if errors.As(convErr, &ce) {
			kind = ce.Reason
		}
		state.Conversion = ConversionState{Status: ConversionFailed, Reason: kind}
		state.Error = kind
	} else {
		e.resources.Adopt(handle)
		state.Conversion = ConversionState{Status: ConversionReady, Handle: handle}
		state.ResolvedURL = anchorPage(handle.URL(), req.Page)
	}
	e.state = state
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	e.events.ConversionSettled(req, state.Conversion.Status, convErr)
	e.notify(seq, state)
}

func (e *engine) Snapshot() (PreviewState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return PreviewState{}, ErrNoActivePreview
	}
	return e.state, nil
}

func (e *engine) ReportLoadFailure(fileID string) bool {
	e.mu.Lock()
	if !e.active || e.state.Request.FileID != fileID {
		e.mu.Unlock()
		return false
	}

	hadHandle := e.resources.Current() != nil
	e.resources.ReleaseCurrent()

	state := e.state
	state.Loading = false
	state.Error = ErrorKindLoadFailed
	state.ResolvedURL = ""
	state.Conversion.Handle = nil
	e.state = state
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	if hadHandle {
		e.events.HandleReleased(fileID)
	}
	e.notify(seq, state)
	return true
}

func (e *engine) Close() {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	req := e.state.Request
	// Bump the generation so an in-flight conversion discards on arrival.
	e.gen++
	e.active = false
	e.state = PreviewState{}
	hadHandle := e.resources.Current() != nil
	e.resources.ReleaseCurrent()
	e.mu.Unlock()

	if hadHandle {
		e.events.HandleReleased(req.FileID)
	}
	e.events.PreviewClosed(req)
}

// notify delivers a committed state to the listener. Delivery order always
// matches commit order: a notification that lost the race to a later
// commit's delivery is dropped instead of arriving out of order.
func (e *engine) notify(seq uint64, state PreviewState) {
	if e.listener == nil {
		return
	}
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	if seq <= e.notified {
		return
	}
	e.notified = seq
	e.listener(state)
}

func anchorPage(url string, page int) string {
	if page <= 0 {
		return url
	}
	return fmt.Sprintf("%s#page=%d", url, page)
}
