package encoder

import (
	"encoding/base64"
	"errors"
	"image"
)

// ErrEncoding marks a frame that could not be encoded. It only ever costs the
// single frame it happened on.
var ErrEncoding = errors.New("frame encoding failed")

// Encoder encodes an image into a Frame.
type Encoder interface {
	Encode(img image.Image) (Frame, error)
}

// Frame is one encoded snapshot of a capture source.
type Frame struct {
	Data []byte
	MIME string
}

// DataURL renders the frame as a base64 data URL.
func (f Frame) DataURL() string {
	return "data:" + f.MIME + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}
