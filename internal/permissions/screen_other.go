//go:build !darwin || !cgo

package permissions

// Other platforms have no capture preflight.
func hasScreenRecording() bool { return true }

func requestScreenRecording() bool { return true }
