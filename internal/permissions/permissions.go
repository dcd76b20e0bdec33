// Package permissions wraps the OS privacy prompts capture depends on.
package permissions

import (
	"errors"
	"sync"
)

// ErrScreenRecordingDenied means the OS refused screen capture for this process.
var ErrScreenRecordingDenied = errors.New("screen recording permission not granted")

var (
	preflight = hasScreenRecording
	request   = requestScreenRecording

	promptOnce sync.Once
)

// EnsureScreenRecording checks screen capture access and, the first time it is
// missing, asks the OS to prompt the user. macOS only applies a grant after the
// process restarts, so a denied check stays denied until then.
func EnsureScreenRecording() error {
	if preflight() {
		return nil
	}
	granted := false
	promptOnce.Do(func() { granted = request() })
	if granted {
		return nil
	}
	return ErrScreenRecordingDenied
}
