package inputbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/junsooki/adacast/internal/input"
)

type recorder struct {
	sent   []string
	mutes  int
	webcam int
}

func newBar(t *testing.T) (*Bar, *recorder) {
	rec := &recorder{}
	b := New(Callbacks{
		OnSend:         func(s string) { rec.sent = append(rec.sent, s) },
		OnToggleMute:   func() { rec.mutes++ },
		OnToggleWebcam: func() { rec.webcam++ },
	}, zaptest.NewLogger(t))
	return b, rec
}

func TestBar_SendTrimsAndClears(t *testing.T) {
	b, rec := newBar(t)
	b.Type("  hello ")
	b.Type("world  ")

	require.True(t, b.Send())
	assert.Equal(t, []string{"hello world"}, rec.sent)
	assert.Empty(t, b.Text())
}

func TestBar_BlankInputIsNotSent(t *testing.T) {
	b, rec := newBar(t)
	b.Type("   \t ")

	assert.False(t, b.Send())
	assert.Empty(t, rec.sent)
	assert.Equal(t, "   \t ", b.Text())
}

func TestBar_EnterSends(t *testing.T) {
	b, rec := newBar(t)
	b.HandleInput(input.Text("hi"))
	b.HandleInput(input.KeyDown(input.KeyEnter))
	assert.Equal(t, []string{"hi"}, rec.sent)
}

func TestBar_BackspaceRemovesOneRune(t *testing.T) {
	b, _ := newBar(t)
	b.Type("añ")
	b.KeyPress(input.KeyBackspace)
	assert.Equal(t, "a", b.Text())
	b.Backspace()
	b.Backspace()
	assert.Empty(t, b.Text())
}

func TestBar_MuteButton(t *testing.T) {
	tests := []struct {
		name  string
		props Props
		want  Button
	}{
		{"unsupported", Props{Muted: true}, Button{Label: "Mic N/A", Disabled: true}},
		{"muted", Props{MicSupported: true, Muted: true}, Button{Label: "Unmute", Active: true}},
		{"unmuted", Props{MicSupported: true}, Button{Label: "Mute"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newBar(t)
			b.SetProps(tt.props)
			assert.Equal(t, tt.want, b.MuteButton())
		})
	}
}

func TestBar_DisabledMuteIsNoop(t *testing.T) {
	b, rec := newBar(t)
	b.ToggleMute()
	assert.Zero(t, rec.mutes)

	b.SetProps(Props{MicSupported: true})
	b.ToggleMute()
	assert.Equal(t, 1, rec.mutes)
}

func TestBar_WebcamButton(t *testing.T) {
	b, _ := newBar(t)
	assert.Equal(t, Button{Label: "Show Cam"}, b.WebcamButton())
	b.SetProps(Props{WebcamVisible: true})
	assert.Equal(t, Button{Label: "Hide Cam", Active: true}, b.WebcamButton())
}

func TestBar_PointerHitsButtons(t *testing.T) {
	b, rec := newBar(t)
	b.Resize(800, 600)
	b.SetProps(Props{MicSupported: true})
	r := b.Regions()

	b.Type("ping")
	assert.True(t, b.HandleInput(input.PointerDown(r.Send.Min.X+1, r.Send.Min.Y+1)))
	assert.True(t, b.HandleInput(input.PointerDown(r.Mute.Min.X+1, r.Mute.Min.Y+1)))
	assert.True(t, b.HandleInput(input.PointerDown(r.Webcam.Min.X+1, r.Webcam.Min.Y+1)))
	assert.True(t, b.HandleInput(input.PointerDown(r.Field.Min.X+1, r.Field.Min.Y+1)))
	assert.False(t, b.HandleInput(input.PointerDown(10, 10)))

	assert.Equal(t, []string{"ping"}, rec.sent)
	assert.Equal(t, 1, rec.mutes)
	assert.Equal(t, 1, rec.webcam)
}

func TestLayout(t *testing.T) {
	r := Layout(800, 600)
	assert.Equal(t, 600-Height, r.Bar.Min.Y)
	assert.Equal(t, 800-padding, r.Webcam.Max.X)
	assert.Less(t, r.Field.Max.X, r.Send.Min.X)
	assert.Less(t, r.Send.Max.X, r.Mute.Min.X)
	assert.Less(t, r.Mute.Max.X, r.Webcam.Min.X)
	assert.True(t, r.Field.In(r.Bar))
	assert.True(t, r.Send.In(r.Bar))
}
