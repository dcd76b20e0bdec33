// Package app is the parent component. It owns the flags shared by the input
// bar and the capture overlay and routes window input to them.
package app

import (
	"sync"

	"go.uber.org/zap"

	"github.com/junsooki/adacast/internal/input"
	"github.com/junsooki/adacast/internal/inputbar"
	"github.com/junsooki/adacast/internal/shell"
	"github.com/junsooki/adacast/internal/transport"
)

// Overlay is the part of shell.Shell the app drives.
type Overlay interface {
	SetVisible(visible bool)
	Close()
	HandleInput(ev input.Event)
	OnClose(fn func())
	View() shell.View
}

// Options are the platform facts known at startup.
type Options struct {
	MicSupported bool
}

// App wires the bar's callbacks to the overlay and the socket.
type App struct {
	overlay Overlay
	text    transport.TextSender
	logger  *zap.Logger
	bar     *inputbar.Bar

	mu            sync.Mutex
	micSupported  bool
	muted         bool
	webcamVisible bool
}

// New creates the app. The overlay starts hidden.
func New(opts Options, overlay Overlay, text transport.TextSender, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		overlay:      overlay,
		text:         text,
		logger:       logger,
		micSupported: opts.MicSupported,
	}
	a.bar = inputbar.New(inputbar.Callbacks{
		OnSend:         a.sendText,
		OnToggleMute:   a.toggleMute,
		OnToggleWebcam: a.toggleWebcam,
	}, logger.Named("inputbar"))
	overlay.OnClose(func() { a.setWebcamVisible(false, false) })
	a.syncProps()
	return a
}

// Bar returns the input bar for rendering.
func (a *App) Bar() *inputbar.Bar { return a.bar }

// Overlay returns the current overlay snapshot for rendering.
func (a *App) Overlay() shell.View { return a.overlay.View() }

// Resize forwards the window size to the bar layout.
func (a *App) Resize(w, h int) { a.bar.Resize(w, h) }

// HandleInput routes one window event. Presses go to the overlay when they
// land on it and to the bar otherwise; moves and releases always reach the
// overlay so a drag can follow the pointer anywhere. Escape closes a visible
// overlay; other text and keys go to the bar.
func (a *App) HandleInput(ev input.Event) {
	switch ev.Type {
	case input.EventKeyDown:
		if ev.Key == input.KeyEscape {
			if a.overlay.View().Visible() {
				a.overlay.Close()
			}
			return
		}
		a.bar.HandleInput(ev)
	case input.EventPointerDown:
		if a.overlay.View().Hit(ev) {
			a.overlay.HandleInput(ev)
			return
		}
		a.bar.HandleInput(ev)
	case input.EventPointerMove, input.EventPointerUp:
		a.overlay.HandleInput(ev)
	default:
		a.bar.HandleInput(ev)
	}
}

// WebcamVisible reports the shared overlay visibility flag.
func (a *App) WebcamVisible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.webcamVisible
}

// Muted reports the shared mute flag.
func (a *App) Muted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.muted
}

func (a *App) sendText(text string) {
	if err := a.text.SendText(text); err != nil {
		a.logger.Warn("send text message", zap.Error(err))
	}
}

func (a *App) toggleMute() {
	a.mu.Lock()
	a.muted = !a.muted
	muted := a.muted
	a.mu.Unlock()
	a.logger.Info("mute toggled", zap.Bool("muted", muted))
	a.syncProps()
}

func (a *App) toggleWebcam() {
	a.mu.Lock()
	visible := !a.webcamVisible
	a.mu.Unlock()
	a.setWebcamVisible(visible, true)
}

// setWebcamVisible updates the flag and, when push is set, tells the overlay.
// The overlay's own close control already hid it, so that path does not push.
func (a *App) setWebcamVisible(visible, push bool) {
	a.mu.Lock()
	a.webcamVisible = visible
	a.mu.Unlock()
	if push {
		a.overlay.SetVisible(visible)
	}
	a.syncProps()
}

func (a *App) syncProps() {
	a.mu.Lock()
	p := inputbar.Props{
		Muted:         a.muted,
		MicSupported:  a.micSupported,
		WebcamVisible: a.webcamVisible,
	}
	a.mu.Unlock()
	a.bar.SetProps(p)
}
