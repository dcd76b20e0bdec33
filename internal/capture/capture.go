package capture

import (
	"context"
	"fmt"
	"image"
)

// Kind identifies what a capture source records.
type Kind string

const (
	KindCamera Kind = "camera"
	KindScreen Kind = "screen"
)

// ParseKind accepts "camera" or "screen".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCamera, KindScreen:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown capture kind %q", s)
}

// Other returns the kind a toggle switches to.
func (k Kind) Other() Kind {
	if k == KindCamera {
		return KindScreen
	}
	return KindCamera
}

// Label is the capitalised user-facing name.
func (k Kind) Label() string {
	if k == KindCamera {
		return "Webcam"
	}
	return "Screen sharing"
}

// Noun is the lower-case device name used in messages.
func (k Kind) Noun() string {
	if k == KindCamera {
		return "webcam"
	}
	return "screen"
}

// Readiness tracks a source from acquisition to release.
type Readiness int

const (
	NotReady Readiness = iota
	Ready
	Stopped
)

func (r Readiness) String() string {
	switch r {
	case NotReady:
		return "not-ready"
	case Ready:
		return "ready"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("readiness(%d)", int(r))
}

// Track is one media track of a stream.
type Track interface {
	ID() string
	Stop()
}

// Stream is a live media stream handed out by a Device.
type Stream interface {
	Tracks() []Track
	// Ready is closed once the native dimensions are known (or probing failed).
	Ready() <-chan struct{}
	// Play starts delivering frames. It fails if probing failed.
	Play(ctx context.Context) error
	// Snapshot returns the latest frame, or nil before the first one.
	Snapshot() (image.Image, error)
}

// Device acquires streams from the platform.
type Device interface {
	Open(ctx context.Context, kind Kind) (Stream, error)
}

// Source is the single active capture source owned by a Manager.
type Source struct {
	Kind      Kind
	Readiness Readiness
	stream    Stream
}

func (s *Source) release() {
	for _, t := range s.stream.Tracks() {
		t.Stop()
	}
	s.Readiness = Stopped
}
