package transport

import "github.com/junsooki/adacast/internal/encoder"

// FrameSender sends encoded video frames. Connected gates every send.
type FrameSender interface {
	Connected() bool
	SendFrame(frame encoder.Frame) error
}

// TextSender sends chat text typed into the input bar.
type TextSender interface {
	SendText(text string) error
}
