// Package shell implements the floating capture overlay: a movable, closable
// container that previews the live source and exposes the toggle and close
// controls.
package shell

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"github.com/junsooki/adacast/internal/capture"
	"github.com/junsooki/adacast/internal/input"
)

// State is the overlay lifecycle state.
type State int

const (
	Hidden State = iota
	Starting
	Live
	Error
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Starting:
		return "starting"
	case Live:
		return "live"
	case Error:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Capturer is the part of capture.Manager the overlay drives.
type Capturer interface {
	Start(ctx context.Context, kind capture.Kind) uint64
	Stop()
}

// StateListener observes transitions. Called on the shell goroutine.
type StateListener func(prev, next State)

// View is a snapshot of the overlay for rendering and hit-testing.
type View struct {
	State       State
	Kind        capture.Kind
	Message     string
	Position    Position
	Dragging    bool
	ToggleLabel string
}

// Visible reports whether the overlay is on screen.
func (v View) Visible() bool { return v.State != Hidden }

// Hit reports whether the overlay should receive a pointer event at p.
func (v View) Hit(ev input.Event) bool {
	return v.Visible() && (v.Dragging || ev.Point().In(Bounds(v.Position)))
}

type dragState struct {
	active bool
	origin Position
	press  Position
}

// Shell serialises every transition through one event goroutine. Async
// capture outcomes arrive as events too and are dropped unless they belong to
// the start request the shell is currently waiting on.
type Shell struct {
	ctx      context.Context
	capturer Capturer
	logger   *zap.Logger
	events   chan any
	done     chan struct{}

	// Owned by the event goroutine.
	state     State
	kind      capture.Kind
	pending   uint64
	message   string
	pos       Position
	drag      dragState
	onClose   func()
	listeners []StateListener

	mu   sync.RWMutex
	view View
}

// New creates a hidden overlay at pos that will start with the given kind.
// The event goroutine runs until ctx is cancelled, stopping capture on exit.
func New(ctx context.Context, capturer Capturer, kind capture.Kind, pos Position, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Shell{
		ctx:      ctx,
		capturer: capturer,
		logger:   logger,
		events:   make(chan any, 64),
		done:     make(chan struct{}),
		kind:     kind,
		pos:      pos,
	}
	s.publish()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("shell panic", zap.Any("error", r), zap.ByteString("stack", debug.Stack()))
			}
		}()
		s.loop()
	}()
	return s
}

// events
type (
	evtVisible     struct{ visible bool }
	evtToggle      struct{}
	evtClose       struct{}
	evtCapture     struct{ ev capture.Event }
	evtPointer     struct{ ev input.Event }
	evtOnClose     struct{ fn func() }
	evtAddListener struct{ l StateListener }
)

func (s *Shell) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			s.capturer.Stop()
			return
		case ev := <-s.events:
			s.handle(ev)
			s.publish()
		}
	}
}

func (s *Shell) post(ev any) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// SetVisible is the external visibility flag. Becoming visible starts
// capture; becoming hidden stops it.
func (s *Shell) SetVisible(visible bool) { s.post(evtVisible{visible: visible}) }

// ToggleKind swaps between camera and screen.
func (s *Shell) ToggleKind() { s.post(evtToggle{}) }

// Close stops everything, hides the overlay and notifies the OnClose callback.
func (s *Shell) Close() { s.post(evtClose{}) }

// HandleCapture feeds a capture.Manager outcome into the state machine.
func (s *Shell) HandleCapture(ev capture.Event) { s.post(evtCapture{ev: ev}) }

// HandleInput feeds pointer events for dragging and the overlay buttons.
func (s *Shell) HandleInput(ev input.Event) { s.post(evtPointer{ev: ev}) }

// OnClose sets the callback run after the close control was used.
func (s *Shell) OnClose(fn func()) { s.post(evtOnClose{fn: fn}) }

// AddListener registers a transition observer.
func (s *Shell) AddListener(l StateListener) { s.post(evtAddListener{l: l}) }

// View returns the latest published snapshot.
func (s *Shell) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Done is closed once the event goroutine has exited.
func (s *Shell) Done() <-chan struct{} { return s.done }

func (s *Shell) handle(ev any) {
	switch e := ev.(type) {
	case evtVisible:
		if e.visible {
			if s.state == Hidden {
				s.start()
			}
		} else if s.state != Hidden {
			s.hide()
		}
	case evtToggle:
		switch s.state {
		case Hidden:
			s.kind = s.kind.Other()
		case Starting, Live:
			s.kind = s.kind.Other()
			s.capturer.Stop()
			s.start()
		}
	case evtClose:
		s.closeOverlay()
	case evtCapture:
		s.capture(e.ev)
	case evtPointer:
		s.pointer(e.ev)
	case evtOnClose:
		s.onClose = e.fn
	case evtAddListener:
		s.listeners = append(s.listeners, e.l)
	}
}

func (s *Shell) start() {
	s.message = ""
	s.pending = s.capturer.Start(s.ctx, s.kind)
	s.transition(Starting)
}

func (s *Shell) hide() {
	s.capturer.Stop()
	s.pending = 0
	s.message = ""
	s.drag = dragState{}
	s.transition(Hidden)
}

func (s *Shell) closeOverlay() {
	if s.state != Hidden {
		s.hide()
	}
	if s.onClose != nil {
		s.onClose()
	}
}

func (s *Shell) capture(ev capture.Event) {
	if s.state != Starting || ev.Gen != s.pending {
		s.logger.Debug("dropping stale capture event",
			zap.Stringer("state", s.state),
			zap.Uint64("gen", ev.Gen),
			zap.Uint64("pending", s.pending),
		)
		return
	}
	switch ev.Type {
	case capture.EventLive:
		s.transition(Live)
	case capture.EventFailed:
		s.message = capture.UserMessage(ev.Kind, ev.Err)
		s.transition(Error)
	}
}

func (s *Shell) pointer(ev input.Event) {
	if s.state == Hidden {
		return
	}
	p := ev.Point()
	switch ev.Type {
	case input.EventPointerDown:
		switch {
		case s.state == Error && p.In(ErrorCloseRect(s.pos)):
			s.closeOverlay()
		case s.state != Error && p.In(CloseRect(s.pos)):
			s.closeOverlay()
		case s.state != Error && p.In(ToggleRect(s.pos)):
			s.handle(evtToggle{})
		case p.In(HandleRect(s.pos)):
			s.drag = dragState{active: true, origin: s.pos, press: p}
		}
	case input.EventPointerMove:
		if s.drag.active {
			s.pos = s.drag.origin.Add(p.Sub(s.drag.press))
		}
	case input.EventPointerUp:
		if s.drag.active {
			s.pos = s.drag.origin.Add(p.Sub(s.drag.press))
			s.drag = dragState{}
		}
	}
}

func (s *Shell) transition(next State) {
	prev := s.state
	if prev == next {
		return
	}
	s.state = next
	s.logger.Info("overlay state",
		zap.Stringer("from", prev),
		zap.Stringer("to", next),
		zap.String("kind", string(s.kind)),
	)
	for _, l := range s.listeners {
		l(prev, next)
	}
}

func (s *Shell) publish() {
	label := "Webcam"
	if s.kind == capture.KindCamera {
		label = "Screen Share"
	}
	v := View{
		State:       s.state,
		Kind:        s.kind,
		Message:     s.message,
		Position:    s.pos,
		Dragging:    s.drag.active,
		ToggleLabel: label,
	}
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}
