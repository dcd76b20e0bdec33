package capture

import (
	"context"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"

	"github.com/junsooki/adacast/internal/sampler"
)

// EventType is the outcome of a start request.
type EventType int

const (
	// EventLive means playback started and sampling is armed.
	EventLive EventType = iota
	// EventFailed means acquisition or playback failed; nothing is held.
	EventFailed
)

func (t EventType) String() string {
	if t == EventLive {
		return "live"
	}
	return "failed"
}

// Event reports the outcome of the start request identified by Gen.
type Event struct {
	Gen  uint64
	Kind Kind
	Type EventType
	Err  error
}

// Status is a point-in-time view of the manager.
type Status struct {
	Active    bool
	Kind      Kind
	Readiness Readiness
	Tracks    int
	Armed     bool
}

// Manager owns at most one capture source and the sample timer bound to it.
//
// Every start bumps a generation counter. Work that completes asynchronously
// (acquisition, readiness, playback) re-checks its generation under the lock
// and backs out if a newer start or a stop happened meanwhile.
type Manager struct {
	device  Device
	sampler *sampler.Sampler
	logger  *zap.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	active  *Source
	timer   *sampler.Timer
	onEvent func(Event)
}

// NewManager creates a Manager acquiring from device and sampling with smp.
func NewManager(device Device, smp *sampler.Sampler, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{device: device, sampler: smp, logger: logger}
}

// OnEvent registers the callback for start outcomes. It is never called with
// the manager lock held.
func (m *Manager) OnEvent(cb func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvent = cb
}

// Start stops any active source and begins acquiring a new one of the given
// kind. It returns immediately; the outcome arrives as an Event carrying the
// returned generation.
func (m *Manager) Start(ctx context.Context, kind Kind) uint64 {
	m.mu.Lock()
	m.stopLocked()
	gen := m.gen
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	m.logger.Info("starting capture", zap.String("kind", string(kind)), zap.Uint64("gen", gen))
	go m.run(ctx, gen, kind)
	return gen
}

// Switch is Stop followed by Start.
func (m *Manager) Switch(ctx context.Context, kind Kind) uint64 {
	m.Stop()
	return m.Start(ctx, kind)
}

// Stop releases the active source and cancels sampling. When it returns no
// track is live and no sample will fire. Safe to call when idle.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
		m.logger.Debug("frame sampling stopped")
	}
	if m.active != nil {
		m.active.release()
		m.logger.Info("capture stopped", zap.String("kind", string(m.active.Kind)))
		m.active = nil
	}
}

// Status reports the active source, if any.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := Status{Armed: m.timer != nil}
	if m.active != nil {
		st.Active = true
		st.Kind = m.active.Kind
		st.Readiness = m.active.Readiness
		st.Tracks = len(m.active.stream.Tracks())
	}
	return st
}

// Preview returns the latest frame of a ready source for on-screen display.
func (m *Manager) Preview() image.Image {
	m.mu.Lock()
	src := m.active
	m.mu.Unlock()
	if src == nil {
		return nil
	}
	img, err := src.stream.Snapshot()
	if err != nil {
		return nil
	}
	return img
}

func (m *Manager) run(ctx context.Context, gen uint64, kind Kind) {
	stream, err := m.device.Open(ctx, kind)

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		m.logger.Debug("discarding stale acquisition", zap.Uint64("gen", gen))
		if stream != nil {
			releaseStream(stream)
		}
		return
	}
	if err != nil {
		m.cancelLocked()
		m.mu.Unlock()
		m.logger.Warn("capture acquisition failed", zap.String("kind", string(kind)), zap.Error(err))
		m.emit(Event{Gen: gen, Kind: kind, Type: EventFailed, Err: err})
		return
	}
	src := &Source{Kind: kind, Readiness: NotReady, stream: stream}
	m.active = src
	m.mu.Unlock()

	select {
	case <-stream.Ready():
	case <-ctx.Done():
		return
	}

	if err := stream.Play(ctx); err != nil {
		m.mu.Lock()
		if gen != m.gen {
			m.mu.Unlock()
			return
		}
		m.stopLocked()
		m.mu.Unlock()
		err = fmt.Errorf("%w: %v", ErrPlayback, err)
		m.logger.Warn("capture playback failed", zap.String("kind", string(kind)), zap.Error(err))
		m.emit(Event{Gen: gen, Kind: kind, Type: EventFailed, Err: err})
		return
	}

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	src.Readiness = Ready
	if m.sampler != nil {
		m.timer = m.sampler.Arm(stream)
	}
	m.mu.Unlock()

	m.logger.Info("capture live", zap.String("kind", string(kind)), zap.Uint64("gen", gen))
	m.emit(Event{Gen: gen, Kind: kind, Type: EventLive})
}

func (m *Manager) cancelLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Manager) emit(ev Event) {
	m.mu.Lock()
	cb := m.onEvent
	m.mu.Unlock()
	if cb != nil {
		cb(ev)
	}
}

func releaseStream(s Stream) {
	for _, t := range s.Tracks() {
		t.Stop()
	}
}
