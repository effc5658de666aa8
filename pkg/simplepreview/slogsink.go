package simplepreview

import "log/slog"

// SlogEventSink logs preview lifecycle events through slog. Useful for
// development servers; production callers usually wire their own sink.
type SlogEventSink struct {
	logger *slog.Logger
}

// NewSlogEventSink creates an event sink logging to the given logger, or the
// default logger when nil.
func NewSlogEventSink(logger *slog.Logger) *SlogEventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogEventSink{logger: logger}
}

func (s *SlogEventSink) PreviewOpened(req ViewRequest, category FileCategory) {
	s.logger.Info("preview opened", "file_id", req.FileID, "file_name", req.FileName, "category", category)
}

func (s *SlogEventSink) ConversionStarted(req ViewRequest) {
	s.logger.Info("conversion started", "file_id", req.FileID)
}

func (s *SlogEventSink) ConversionSettled(req ViewRequest, status ConversionStatus, err error) {
	if err != nil {
		s.logger.Error("conversion settled", "file_id", req.FileID, "status", status, "error", err)
		return
	}
	s.logger.Info("conversion settled", "file_id", req.FileID, "status", status)
}

func (s *SlogEventSink) ResultDiscarded(req ViewRequest) {
	s.logger.Info("stale conversion result discarded", "file_id", req.FileID)
}

func (s *SlogEventSink) HandleReleased(fileID string) {
	s.logger.Debug("artifact handle released", "file_id", fileID)
}

func (s *SlogEventSink) PreviewClosed(req ViewRequest) {
	s.logger.Info("preview closed", "file_id", req.FileID)
}
