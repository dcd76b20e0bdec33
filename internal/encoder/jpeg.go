package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

const (
	MIMEJPEG = "image/jpeg"

	// DefaultQuality matches a 0.7 lossy factor.
	DefaultQuality = 70
)

// JPEGEncoder encodes frames as JPEG.
type JPEGEncoder struct {
	quality int
}

// NewJPEGEncoder creates a JPEG encoder with the given quality (1-100).
func NewJPEGEncoder(quality int) *JPEGEncoder {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return &JPEGEncoder{quality: quality}
}

func (e *JPEGEncoder) Quality() int {
	return e.quality
}

func (e *JPEGEncoder) Encode(img image.Image) (Frame, error) {
	if img == nil {
		return Frame{}, fmt.Errorf("%w: nil image", ErrEncoding)
	}
	b := img.Bounds()
	if b.Empty() {
		return Frame{}, fmt.Errorf("%w: empty bounds %v", ErrEncoding, b)
	}
	var buf bytes.Buffer
	buf.Grow(b.Dx() * b.Dy() / 4)
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return Frame{Data: buf.Bytes(), MIME: MIMEJPEG}, nil
}
