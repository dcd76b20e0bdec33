package capture

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const defaultRefreshInterval = 100 * time.Millisecond

var errStreamStopped = errors.New("stream stopped")

// grabFunc returns the next frame. The image must not be written to after it
// is returned, since snapshots hand it out as is.
type grabFunc func() (image.Image, error)

// liveStream turns a blocking grab function into a Stream. The first grab
// acts as the metadata probe; Play then refreshes the latest frame on an
// interval until the track is stopped.
type liveStream struct {
	grab     grabFunc
	interval time.Duration
	track    *liveTrack

	ready    chan struct{}
	probeErr error

	latest  atomic.Pointer[image.Image]
	playing atomic.Bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

func newLiveStream(grab grabFunc, interval time.Duration, release func()) *liveStream {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	s := &liveStream{
		grab:     grab,
		interval: interval,
		ready:    make(chan struct{}),
		quit:     make(chan struct{}),
	}
	s.track = &liveTrack{id: uuid.NewString(), stream: s, release: release}

	s.wg.Add(1)
	go s.probe()
	return s
}

func (s *liveStream) probe() {
	defer s.wg.Done()
	defer close(s.ready)
	img, err := s.grab()
	if err != nil {
		s.probeErr = err
		return
	}
	s.store(img)
}

func (s *liveStream) store(img image.Image) {
	if img == nil {
		return
	}
	s.latest.Store(&img)
}

func (s *liveStream) Tracks() []Track { return []Track{s.track} }

func (s *liveStream) Ready() <-chan struct{} { return s.ready }

func (s *liveStream) Play(ctx context.Context) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	if s.probeErr != nil {
		return s.probeErr
	}
	select {
	case <-s.quit:
		return errStreamStopped
	default:
	}
	if s.playing.Swap(true) {
		return nil
	}
	s.wg.Add(1)
	go s.refresh()
	return nil
}

func (s *liveStream) refresh() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			img, err := s.grab()
			if err != nil {
				continue
			}
			s.store(img)
		}
	}
}

func (s *liveStream) Snapshot() (image.Image, error) {
	select {
	case <-s.quit:
		return nil, errStreamStopped
	default:
	}
	p := s.latest.Load()
	if p == nil {
		return nil, nil
	}
	return *p, nil
}

// liveTrack is the single video track of a liveStream.
type liveTrack struct {
	id      string
	stream  *liveStream
	release func()
	once    sync.Once
	stopped atomic.Bool
}

func (t *liveTrack) ID() string { return t.id }

// Stop ends the track and waits for its goroutines to exit.
func (t *liveTrack) Stop() {
	t.once.Do(func() {
		close(t.stream.quit)
		if t.release != nil {
			t.release()
		}
		t.stream.wg.Wait()
		t.stopped.Store(true)
	})
}

// cloneImage copies img into a fresh image that shares no pixel memory with it.
func cloneImage(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.RGBA:
		dst := *src
		dst.Pix = append([]uint8(nil), src.Pix...)
		return &dst
	case *image.YCbCr:
		dst := *src
		dst.Y = append([]uint8(nil), src.Y...)
		dst.Cb = append([]uint8(nil), src.Cb...)
		dst.Cr = append([]uint8(nil), src.Cr...)
		return &dst
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}
