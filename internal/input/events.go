package input

import "image"

// EventType identifies the kind of input event.
type EventType string

const (
	EventPointerDown EventType = "pointer_down"
	EventPointerMove EventType = "pointer_move"
	EventPointerUp   EventType = "pointer_up"
	EventKeyDown     EventType = "key_down"
	EventText        EventType = "text"
)

// Key names the non-text keys the UI reacts to.
type Key string

const (
	KeyEnter     Key = "Enter"
	KeyBackspace Key = "Backspace"
	KeyEscape    Key = "Escape"
)

// Event is one user input, in window coordinates.
type Event struct {
	Type EventType
	X    int
	Y    int
	Key  Key
	Text string
}

// Point returns the pointer position of the event.
func (e Event) Point() image.Point {
	return image.Pt(e.X, e.Y)
}

// Handler consumes input events.
type Handler interface {
	HandleInput(ev Event)
}

func PointerDown(x, y int) Event { return Event{Type: EventPointerDown, X: x, Y: y} }
func PointerMove(x, y int) Event { return Event{Type: EventPointerMove, X: x, Y: y} }
func PointerUp(x, y int) Event   { return Event{Type: EventPointerUp, X: x, Y: y} }
func KeyDown(k Key) Event        { return Event{Type: EventKeyDown, Key: k} }
func Text(s string) Event        { return Event{Type: EventText, Text: s} }
