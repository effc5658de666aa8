package simplepreview

// NoopEventSink is an EventSink that discards all events.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-op event sink
func NewNoopEventSink() *NoopEventSink {
	return &NoopEventSink{}
}

func (s *NoopEventSink) PreviewOpened(ViewRequest, FileCategory)                {}
func (s *NoopEventSink) ConversionStarted(ViewRequest)                          {}
func (s *NoopEventSink) ConversionSettled(ViewRequest, ConversionStatus, error) {}
func (s *NoopEventSink) ResultDiscarded(ViewRequest)                            {}
func (s *NoopEventSink) HandleReleased(string)                                  {}
func (s *NoopEventSink) PreviewClosed(ViewRequest)                              {}
