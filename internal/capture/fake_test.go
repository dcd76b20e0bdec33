package capture

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
)

type fakeTrack struct {
	id      string
	stopped atomic.Bool
	onStop  func()
}

func (t *fakeTrack) ID() string { return t.id }

func (t *fakeTrack) Stop() {
	if t.stopped.Swap(true) {
		return
	}
	if t.onStop != nil {
		t.onStop()
	}
}

type fakeStream struct {
	kind    Kind
	tracks  []*fakeTrack
	ready   chan struct{}
	playErr error
	played  atomic.Int32
	img     image.Image
}

func (s *fakeStream) Tracks() []Track {
	out := make([]Track, len(s.tracks))
	for i, t := range s.tracks {
		out[i] = t
	}
	return out
}

func (s *fakeStream) Ready() <-chan struct{} { return s.ready }

func (s *fakeStream) Play(context.Context) error {
	s.played.Add(1)
	return s.playErr
}

func (s *fakeStream) Snapshot() (image.Image, error) { return s.img, nil }

func (s *fakeStream) live() bool {
	for _, t := range s.tracks {
		if !t.stopped.Load() {
			return true
		}
	}
	return false
}

// fakeDevice hands out fakeStreams and records open/stop order.
type fakeDevice struct {
	mu      sync.Mutex
	log     []string
	streams []*fakeStream

	// Per-call knobs, read under mu.
	openErr    error
	gate       chan struct{} // when set, Open blocks until closed
	readyLater bool          // when set, streams are not ready on open
	playErr    error
}

func (d *fakeDevice) Open(ctx context.Context, kind Kind) (Stream, error) {
	d.mu.Lock()
	gate := d.gate
	openErr := d.openErr
	d.log = append(d.log, "open "+string(kind))
	d.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if openErr != nil {
		return nil, openErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.streams)
	s := &fakeStream{
		kind:    kind,
		ready:   make(chan struct{}),
		playErr: d.playErr,
		img:     image.NewRGBA(image.Rect(0, 0, 32, 24)),
	}
	track := &fakeTrack{id: fmt.Sprintf("%s-%d", kind, n)}
	track.onStop = func() {
		d.mu.Lock()
		d.log = append(d.log, "stop "+track.id)
		d.mu.Unlock()
	}
	s.tracks = []*fakeTrack{track}
	if !d.readyLater {
		close(s.ready)
	}
	d.streams = append(d.streams, s)
	return s, nil
}

func (d *fakeDevice) stream(i int) *fakeStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i >= len(d.streams) {
		return nil
	}
	return d.streams[i]
}

func (d *fakeDevice) streamCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.streams)
}

func (d *fakeDevice) liveTracks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, s := range d.streams {
		for _, t := range s.tracks {
			if !t.stopped.Load() {
				n++
			}
		}
	}
	return n
}

func (d *fakeDevice) history() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.log...)
}
