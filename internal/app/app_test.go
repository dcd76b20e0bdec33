package app

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/junsooki/adacast/internal/input"
	"github.com/junsooki/adacast/internal/inputbar"
	"github.com/junsooki/adacast/internal/shell"
)

type fakeOverlay struct {
	mu      sync.Mutex
	view    shell.View
	visible []bool
	inputs  []input.Event
	closes  int
	closeFn func()
}

func (o *fakeOverlay) SetVisible(v bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = append(o.visible, v)
	if v {
		o.view.State = shell.Starting
	} else {
		o.view.State = shell.Hidden
	}
}

func (o *fakeOverlay) Close() {
	o.mu.Lock()
	o.closes++
	o.view.State = shell.Hidden
	fn := o.closeFn
	o.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (o *fakeOverlay) HandleInput(ev input.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inputs = append(o.inputs, ev)
}

func (o *fakeOverlay) OnClose(fn func()) { o.closeFn = fn }

func (o *fakeOverlay) View() shell.View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.view
}

type fakeText struct {
	sent []string
	err  error
}

func (f *fakeText) SendText(s string) error {
	f.sent = append(f.sent, s)
	return f.err
}

func newApp(t *testing.T, mic bool) (*App, *fakeOverlay, *fakeText) {
	ov := &fakeOverlay{}
	txt := &fakeText{}
	a := New(Options{MicSupported: mic}, ov, txt, zaptest.NewLogger(t))
	a.Resize(800, 600)
	return a, ov, txt
}

func TestApp_TypingAndEnterSendsText(t *testing.T) {
	a, _, txt := newApp(t, true)
	a.HandleInput(input.Text(" hello "))
	a.HandleInput(input.KeyDown(input.KeyEnter))
	assert.Equal(t, []string{"hello"}, txt.sent)
	assert.Empty(t, a.Bar().Text())
}

func TestApp_SendErrorIsNotFatal(t *testing.T) {
	a, _, txt := newApp(t, true)
	txt.err = assert.AnError
	a.Bar().Type("x")
	assert.True(t, a.Bar().Send())
	assert.Empty(t, a.Bar().Text())
}

func TestApp_WebcamButtonShowsAndHidesOverlay(t *testing.T) {
	a, ov, _ := newApp(t, true)
	r := a.Bar().Regions()

	a.HandleInput(input.PointerDown(r.Webcam.Min.X+1, r.Webcam.Min.Y+1))
	assert.True(t, a.WebcamVisible())
	assert.Equal(t, "Hide Cam", a.Bar().WebcamButton().Label)

	a.HandleInput(input.PointerDown(r.Webcam.Min.X+1, r.Webcam.Min.Y+1))
	assert.False(t, a.WebcamVisible())
	assert.Equal(t, []bool{true, false}, ov.visible)
}

func TestApp_OverlayCloseClearsFlag(t *testing.T) {
	a, ov, _ := newApp(t, true)
	a.Bar().ToggleWebcam()
	require.True(t, a.WebcamVisible())

	ov.closeFn()
	assert.False(t, a.WebcamVisible())
	assert.Equal(t, "Show Cam", a.Bar().WebcamButton().Label)
	assert.Equal(t, []bool{true}, ov.visible)
}

func TestApp_MuteFlag(t *testing.T) {
	a, _, _ := newApp(t, true)
	assert.Equal(t, inputbar.Props{MicSupported: true}, a.Bar().Props())

	a.Bar().ToggleMute()
	assert.True(t, a.Muted())
	assert.Equal(t, "Unmute", a.Bar().MuteButton().Label)
	assert.True(t, a.Bar().Props().Muted)
}

func TestApp_MuteUnavailableWithoutMic(t *testing.T) {
	a, _, _ := newApp(t, false)
	a.Bar().ToggleMute()
	assert.False(t, a.Muted())
	assert.Equal(t, "Mic N/A", a.Bar().MuteButton().Label)
}

func TestApp_PointerRouting(t *testing.T) {
	a, ov, _ := newApp(t, true)
	ov.view = shell.View{State: shell.Live, Position: shell.Position{X: 50, Y: 50}}

	a.HandleInput(input.PointerDown(60, 60))
	a.HandleInput(input.PointerMove(500, 500))
	a.HandleInput(input.PointerUp(500, 500))
	a.HandleInput(input.PointerDown(5, 5))

	assert.Equal(t, []input.Event{
		input.PointerDown(60, 60),
		input.PointerMove(500, 500),
		input.PointerUp(500, 500),
	}, ov.inputs)
}

func TestApp_EscapeClosesVisibleOverlay(t *testing.T) {
	a, ov, _ := newApp(t, true)

	a.HandleInput(input.KeyDown(input.KeyEscape))
	assert.Zero(t, ov.closes, "hidden overlay is left alone")

	a.Bar().Type("draft")
	a.Bar().ToggleWebcam()
	require.True(t, a.WebcamVisible())

	a.HandleInput(input.KeyDown(input.KeyEscape))
	assert.Equal(t, 1, ov.closes)
	assert.False(t, a.WebcamVisible())
	assert.Equal(t, "Show Cam", a.Bar().WebcamButton().Label)
	assert.Equal(t, "draft", a.Bar().Text())
}
