// Package inputbar is the chat input row: a text field with send, mute and
// show/hide camera buttons. Shared flags come in as Props; changes go back
// out through callbacks.
package inputbar

import (
	"image"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/junsooki/adacast/internal/input"
)

// Placeholder is shown while the field is empty.
const Placeholder = "Type your message or use the mic..."

// Height of the bar in window pixels.
const Height = 56

const (
	padding     = 8
	gap         = 8
	sendWidth   = 72
	muteWidth   = 88
	webcamWidth = 96
)

// Props are owned by the parent and passed down.
type Props struct {
	Muted         bool
	MicSupported  bool
	WebcamVisible bool
}

// Button is the rendered state of one control.
type Button struct {
	Label    string
	Disabled bool
	Active   bool
}

// Regions are the hit rectangles of the bar, in window coordinates.
type Regions struct {
	Bar    image.Rectangle
	Field  image.Rectangle
	Send   image.Rectangle
	Mute   image.Rectangle
	Webcam image.Rectangle
}

// Layout places the bar along the bottom of a w x h window.
func Layout(w, h int) Regions {
	bar := image.Rect(0, h-Height, w, h)
	top, bottom := bar.Min.Y+padding, bar.Max.Y-padding

	x := w - padding - webcamWidth
	webcam := image.Rect(x, top, x+webcamWidth, bottom)
	x -= gap + muteWidth
	mute := image.Rect(x, top, x+muteWidth, bottom)
	x -= gap + sendWidth
	send := image.Rect(x, top, x+sendWidth, bottom)
	field := image.Rect(padding, top, max(padding, x-gap), bottom)

	return Regions{Bar: bar, Field: field, Send: send, Mute: mute, Webcam: webcam}
}

// Callbacks report user intent to the parent.
type Callbacks struct {
	OnSend         func(text string)
	OnToggleMute   func()
	OnToggleWebcam func()
}

// Bar holds the text being typed. It is safe for concurrent use; callbacks
// run without the lock held.
type Bar struct {
	cb     Callbacks
	logger *zap.Logger

	mu    sync.Mutex
	text  string
	props Props
	size  image.Point
}

// New creates an empty bar.
func New(cb Callbacks, logger *zap.Logger) *Bar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bar{cb: cb, logger: logger}
}

// SetProps replaces the flags passed down by the parent.
func (b *Bar) SetProps(p Props) {
	b.mu.Lock()
	b.props = p
	b.mu.Unlock()
}

// Props returns the current flags.
func (b *Bar) Props() Props {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.props
}

// Resize records the window size used for hit-testing.
func (b *Bar) Resize(w, h int) {
	b.mu.Lock()
	b.size = image.Pt(w, h)
	b.mu.Unlock()
}

// Regions returns the layout for the last Resize.
func (b *Bar) Regions() Regions {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Layout(b.size.X, b.size.Y)
}

// Text returns the current field contents.
func (b *Bar) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Type appends s to the field.
func (b *Bar) Type(s string) {
	b.mu.Lock()
	b.text += s
	b.mu.Unlock()
}

// Backspace removes the last rune.
func (b *Bar) Backspace() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.text == "" {
		return
	}
	_, n := utf8.DecodeLastRuneInString(b.text)
	b.text = b.text[:len(b.text)-n]
}

// KeyPress handles the non-text keys. Enter sends.
func (b *Bar) KeyPress(k input.Key) {
	switch k {
	case input.KeyEnter:
		b.Send()
	case input.KeyBackspace:
		b.Backspace()
	}
}

// Send trims the field and, if anything is left, hands it to OnSend and
// clears the field. Returns whether anything was sent.
func (b *Bar) Send() bool {
	b.mu.Lock()
	text := strings.TrimSpace(b.text)
	if text == "" {
		b.mu.Unlock()
		return false
	}
	b.text = ""
	b.mu.Unlock()

	b.logger.Debug("send text", zap.Int("len", len(text)))
	if b.cb.OnSend != nil {
		b.cb.OnSend(text)
	}
	return true
}

// ToggleMute forwards to the parent unless the button is disabled.
func (b *Bar) ToggleMute() {
	if b.MuteButton().Disabled {
		return
	}
	if b.cb.OnToggleMute != nil {
		b.cb.OnToggleMute()
	}
}

// ToggleWebcam forwards to the parent.
func (b *Bar) ToggleWebcam() {
	if b.cb.OnToggleWebcam != nil {
		b.cb.OnToggleWebcam()
	}
}

// MuteButton is disabled with "Mic N/A" when speech input is unsupported.
func (b *Bar) MuteButton() Button {
	p := b.Props()
	switch {
	case !p.MicSupported:
		return Button{Label: "Mic N/A", Disabled: true}
	case p.Muted:
		return Button{Label: "Unmute", Active: true}
	default:
		return Button{Label: "Mute"}
	}
}

// WebcamButton shows "Hide Cam" while the overlay is visible.
func (b *Bar) WebcamButton() Button {
	if b.Props().WebcamVisible {
		return Button{Label: "Hide Cam", Active: true}
	}
	return Button{Label: "Show Cam"}
}

// HandleInput dispatches a window input event. Pointer presses hit-test the
// bar regions; it reports whether the event was consumed.
func (b *Bar) HandleInput(ev input.Event) bool {
	switch ev.Type {
	case input.EventText:
		b.Type(ev.Text)
		return true
	case input.EventKeyDown:
		b.KeyPress(ev.Key)
		return true
	case input.EventPointerDown:
		r := b.Regions()
		p := ev.Point()
		switch {
		case p.In(r.Send):
			b.Send()
		case p.In(r.Mute):
			b.ToggleMute()
		case p.In(r.Webcam):
			b.ToggleWebcam()
		default:
			return p.In(r.Bar)
		}
		return true
	}
	return false
}
