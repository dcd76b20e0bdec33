package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"time"

	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/driver"
	"github.com/pion/mediadevices/pkg/prop"

	// Registers the platform camera driver (v4l2, avfoundation, ...).
	_ "github.com/pion/mediadevices/pkg/driver/camera"
)

// CameraDevice captures the first available camera, video only.
type CameraDevice struct {
	Width  int
	Height int
	// RefreshInterval is how often the preview frame is refreshed while playing.
	RefreshInterval time.Duration
}

// NewCameraDevice creates a camera device. Zero width/height lets the driver
// pick its native resolution.
func NewCameraDevice(width, height int, refresh time.Duration) *CameraDevice {
	return &CameraDevice{Width: width, Height: height, RefreshInterval: refresh}
}

func (d *CameraDevice) Open(ctx context.Context, kind Kind) (Stream, error) {
	if kind != KindCamera {
		return nil, fmt.Errorf("camera device cannot open %s: %w", kind, ErrDeviceNotFound)
	}
	if len(driver.GetManager().Query(driver.FilterDeviceType(driver.Camera))) == 0 {
		return nil, fmt.Errorf("no camera driver registered: %w", ErrDeviceNotFound)
	}

	ms, err := mediadevices.GetUserMedia(mediadevices.MediaStreamConstraints{
		Video: func(c *mediadevices.MediaTrackConstraints) {
			if d.Width > 0 {
				c.Width = prop.Int(d.Width)
			}
			if d.Height > 0 {
				c.Height = prop.Int(d.Height)
			}
		},
	})
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("open camera: %v: %w", err, ErrPermissionDenied)
		}
		return nil, fmt.Errorf("open camera: %w", err)
	}

	if err := ctx.Err(); err != nil {
		closeTracks(ms)
		return nil, err
	}
	return newCameraStream(ms, d.RefreshInterval)
}

// newCameraStream wraps the first video track of ms. Stopping the returned
// stream's track closes every track of ms.
func newCameraStream(ms mediadevices.MediaStream, refresh time.Duration) (Stream, error) {
	tracks := ms.GetVideoTracks()
	if len(tracks) == 0 {
		closeTracks(ms)
		return nil, fmt.Errorf("camera returned no video track: %w", ErrDeviceNotFound)
	}
	vt, ok := tracks[0].(*mediadevices.VideoTrack)
	if !ok {
		closeTracks(ms)
		return nil, fmt.Errorf("unexpected camera track type %T", tracks[0])
	}

	// The copying reader reuses one frame buffer across reads.
	reader := vt.NewReader(true)
	grab := func() (image.Image, error) {
		img, release, err := reader.Read()
		if err != nil {
			return nil, err
		}
		defer release()
		return cloneImage(img), nil
	}
	return newLiveStream(grab, refresh, func() { closeTracks(ms) }), nil
}

func closeTracks(ms mediadevices.MediaStream) {
	for _, t := range ms.GetTracks() {
		_ = t.Close()
	}
}
