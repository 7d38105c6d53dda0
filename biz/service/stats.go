package service

import (
	"sync/atomic"
	"time"

	"github.com/axfleet/eventwatch/internal/logger"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// StreamStats keeps rough counters for one subscription. Reported
// periodically while the stream is open and once more at shutdown.
type StreamStats struct {
	lines          atomic.Uint64
	envelopes      atomic.Uint64
	detections     atomic.Uint64
	decodeFailures atomic.Uint64

	scheduler *gocron.Scheduler
}

func newStreamStats() *StreamStats {
	return &StreamStats{
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

func (s *StreamStats) StartReporter(interval time.Duration) {
	if _, err := s.scheduler.Every(interval).Do(s.report); err != nil {
		logger.SWarn("StartReporter: schedule failed", zap.Error(err))
		return
	}
	s.scheduler.StartAsync()
}

func (s *StreamStats) report() {
	logger.SInfo("stream statistics",
		zap.Uint64("lines", s.lines.Load()),
		zap.Uint64("envelopes", s.envelopes.Load()),
		zap.Uint64("detections", s.detections.Load()),
		zap.Uint64("decodeFailures", s.decodeFailures.Load()))
}

func (s *StreamStats) Stop() {
	s.scheduler.Stop()
	s.report()
}
