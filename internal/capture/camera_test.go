package capture

import (
	"image"
	"image/color"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pion/mediadevices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource emits a fresh frame per read whose first byte is the read count.
type countingSource struct {
	reads  atomic.Int32
	closed atomic.Bool
}

func (s *countingSource) ID() string { return "counting-camera" }

func (s *countingSource) Close() error {
	s.closed.Store(true)
	return nil
}

func (s *countingSource) Read() (image.Image, func(), error) {
	if s.closed.Load() {
		return nil, func() {}, io.EOF
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Pix[0] = uint8(s.reads.Add(1))
	return img, func() {}, nil
}

func newCountingCamera(t *testing.T) (*countingSource, Stream) {
	t.Helper()
	src := &countingSource{}
	ms, err := mediadevices.NewMediaStream(mediadevices.NewVideoTrack(src, nil))
	require.NoError(t, err)
	s, err := newCameraStream(ms, time.Millisecond)
	require.NoError(t, err)
	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		t.Fatal("camera stream never became ready")
	}
	return src, s
}

func TestCameraStream_SnapshotKeepsItsPixels(t *testing.T) {
	_, s := newCountingCamera(t)
	defer s.Tracks()[0].Stop()

	img, err := s.Snapshot()
	require.NoError(t, err)
	first, ok := img.(*image.RGBA)
	require.True(t, ok, "got %T", img)
	want := first.Pix[0]

	require.NoError(t, s.Play(t.Context()))
	require.Eventually(t, func() bool {
		img, err := s.Snapshot()
		if err != nil || img == nil {
			return false
		}
		return img.(*image.RGBA).Pix[0] != want
	}, time.Second, time.Millisecond)

	assert.Equal(t, want, first.Pix[0], "earlier snapshot was overwritten by a later read")
}

func TestCameraStream_StopClosesTracks(t *testing.T) {
	src, s := newCountingCamera(t)
	require.NoError(t, s.Play(t.Context()))

	s.Tracks()[0].Stop()
	assert.True(t, src.closed.Load())

	_, err := s.Snapshot()
	assert.ErrorIs(t, err, errStreamStopped)
}

func TestCameraStream_NoVideoTrack(t *testing.T) {
	ms, err := mediadevices.NewMediaStream()
	require.NoError(t, err)

	_, err = newCameraStream(ms, time.Millisecond)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestCloneImage(t *testing.T) {
	t.Run("rgba", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 2, 2))
		src.Pix[0] = 9
		dst := cloneImage(src).(*image.RGBA)
		src.Pix[0] = 1
		assert.Equal(t, uint8(9), dst.Pix[0])
		assert.Equal(t, src.Bounds(), dst.Bounds())
	})

	t.Run("ycbcr", func(t *testing.T) {
		src := image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio420)
		src.Y[0], src.Cb[0], src.Cr[0] = 10, 20, 30
		dst := cloneImage(src).(*image.YCbCr)
		src.Y[0], src.Cb[0], src.Cr[0] = 0, 0, 0
		assert.Equal(t, []uint8{10, 20, 30}, []uint8{dst.Y[0], dst.Cb[0], dst.Cr[0]})
		assert.Equal(t, src.SubsampleRatio, dst.SubsampleRatio)
	})

	t.Run("other types become rgba", func(t *testing.T) {
		src := image.NewGray(image.Rect(1, 1, 3, 3))
		src.SetGray(1, 1, color.Gray{Y: 200})
		dst := cloneImage(src)
		src.SetGray(1, 1, color.Gray{})
		assert.Equal(t, src.Bounds(), dst.Bounds())
		assert.Equal(t, color.RGBAModel.Convert(color.Gray{Y: 200}), dst.At(1, 1))
	})
}
