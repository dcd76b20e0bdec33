//go:build darwin && cgo

package permissions

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>

// Available since macOS 10.15.
static int preflightScreenCapture() {
    return CGPreflightScreenCaptureAccess();
}

static int requestScreenCapture() {
    return CGRequestScreenCaptureAccess();
}
*/
import "C"

func hasScreenRecording() bool {
	return C.preflightScreenCapture() != 0
}

func requestScreenRecording() bool {
	return C.requestScreenCapture() != 0
}
