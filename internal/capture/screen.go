package capture

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/kbinani/screenshot"

	"github.com/junsooki/adacast/internal/permissions"
)

// ScreenDevice captures a whole display.
type ScreenDevice struct {
	DisplayIndex int
	// RefreshInterval is how often the preview frame is refreshed while playing.
	RefreshInterval time.Duration
}

// NewScreenDevice creates a screen device for the given display (0 = primary).
func NewScreenDevice(displayIndex int, refresh time.Duration) *ScreenDevice {
	return &ScreenDevice{DisplayIndex: displayIndex, RefreshInterval: refresh}
}

func (d *ScreenDevice) Open(ctx context.Context, kind Kind) (Stream, error) {
	if kind != KindScreen {
		return nil, fmt.Errorf("screen device cannot open %s: %w", kind, ErrDeviceNotFound)
	}
	if err := permissions.EnsureScreenRecording(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	n := screenshot.NumActiveDisplays()
	if d.DisplayIndex < 0 || d.DisplayIndex >= n {
		return nil, fmt.Errorf("display index %d out of range (have %d displays): %w", d.DisplayIndex, n, ErrDeviceNotFound)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := screenshot.GetDisplayBounds(d.DisplayIndex)
	grab := func() (image.Image, error) {
		img, err := screenshot.CaptureRect(bounds)
		if err != nil {
			return nil, err
		}
		return img, nil
	}
	return newLiveStream(grab, d.RefreshInterval, nil), nil
}
