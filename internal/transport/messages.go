package transport

import "encoding/json"

// Event names understood by the chat server.
const (
	EventVideoFrame  = "send_video_frame"
	EventTextMessage = "send_text_message"
	EventPing        = "ping"
	EventPong        = "pong"
	EventError       = "error"
)

// Message is the envelope for all socket messages.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// FramePayload carries one encoded frame as a data URL.
type FramePayload struct {
	Frame string `json:"frame"`
}

// TextPayload carries one chat message.
type TextPayload struct {
	Message string `json:"message"`
}

// ErrorPayload is sent by the server with EventError.
type ErrorPayload struct {
	Message string `json:"message"`
}
