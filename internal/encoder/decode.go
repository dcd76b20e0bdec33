package encoder

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
)

// ParseDataURL splits a base64 data URL back into a Frame.
func ParseDataURL(s string) (Frame, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Frame{}, fmt.Errorf("not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Frame{}, fmt.Errorf("data url has no payload")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Frame{}, fmt.Errorf("data url is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("decode data url: %w", err)
	}
	return Frame{Data: data, MIME: mime}, nil
}

// DecodeJPEG decodes a JPEG frame.
func DecodeJPEG(f Frame) (image.Image, error) {
	if f.MIME != MIMEJPEG {
		return nil, fmt.Errorf("unexpected mime %q", f.MIME)
	}
	return jpeg.Decode(bytes.NewReader(f.Data))
}
