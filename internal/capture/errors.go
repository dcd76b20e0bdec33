package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned when the user or OS refused access.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDeviceNotFound is returned when no device of the requested kind exists.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrPlayback is returned when an acquired stream could not start playing.
	ErrPlayback = errors.New("playback failed")
)

// UserMessage maps an acquisition or playback error to the text shown in the
// overlay error panel.
func UserMessage(kind Kind, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return kind.Label() + " permission denied..."
	case errors.Is(err, ErrDeviceNotFound):
		return fmt.Sprintf("No %s found.", kind.Noun())
	case errors.Is(err, ErrPlayback):
		return "Could not play video stream."
	}
	return fmt.Sprintf("Could not access %s. Error: %v", kind.Noun(), err)
}
