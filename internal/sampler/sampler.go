// Package sampler periodically snapshots a live source, encodes the snapshot
// and hands it to the outbound transport.
package sampler

import (
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/junsooki/adacast/internal/encoder"
	"github.com/junsooki/adacast/internal/transport"
)

// DefaultInterval is one sample per second.
const DefaultInterval = time.Second

// Source yields the current visual contents of a capture source. A nil image
// means the source has no frame yet.
type Source interface {
	Snapshot() (image.Image, error)
}

// Sampler arms repeating timers that push frames to a sender.
type Sampler struct {
	clock    clock.WithTicker
	interval time.Duration
	enc      encoder.Encoder
	sender   transport.FrameSender
	logger   *zap.Logger
}

// New creates a Sampler. A nil clock uses the real clock.
func New(clk clock.WithTicker, interval time.Duration, enc encoder.Encoder, sender transport.FrameSender, logger *zap.Logger) *Sampler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{
		clock:    clk,
		interval: interval,
		enc:      enc,
		sender:   sender,
		logger:   logger,
	}
}

// Interval returns the sampling cadence.
func (s *Sampler) Interval() time.Duration {
	return s.interval
}

// Arm starts sampling src on every tick until the returned Timer is stopped.
func (s *Sampler) Arm(src Source) *Timer {
	t := &Timer{
		ticker: s.clock.NewTicker(s.interval),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		for {
			select {
			case <-t.quit:
				return
			case <-t.ticker.C():
				select {
				case <-t.quit:
					return
				default:
				}
				s.sample(src)
			}
		}
	}()
	return t
}

func (s *Sampler) sample(src Source) {
	if !s.sender.Connected() {
		return
	}
	img, err := src.Snapshot()
	if err != nil {
		s.logger.Debug("snapshot failed", zap.Error(err))
		return
	}
	if img == nil {
		return
	}
	frame, err := s.enc.Encode(img)
	if err != nil {
		s.logger.Error("encode frame", zap.Error(err))
		return
	}
	if err := s.sender.SendFrame(frame); err != nil {
		s.logger.Warn("send frame", zap.Error(err))
	}
}

// Timer is one armed sampling loop.
type Timer struct {
	ticker clock.Ticker
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the timer and waits for an in-flight sample to finish. No
// sample runs after Stop returns. Safe to call more than once.
func (t *Timer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.quit)
	})
	<-t.done
}
