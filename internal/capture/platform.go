package capture

import (
	"context"
	"fmt"
)

// Platform routes acquisition requests to the device for each kind.
type Platform struct {
	Camera Device
	Screen Device
}

func (p *Platform) Open(ctx context.Context, kind Kind) (Stream, error) {
	var dev Device
	switch kind {
	case KindCamera:
		dev = p.Camera
	case KindScreen:
		dev = p.Screen
	}
	if dev == nil {
		return nil, fmt.Errorf("no %s device configured: %w", kind.Noun(), ErrDeviceNotFound)
	}
	return dev.Open(ctx, kind)
}
