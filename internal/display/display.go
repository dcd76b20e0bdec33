package display

import (
	"image"

	"github.com/junsooki/adacast/internal/input"
	"github.com/junsooki/adacast/internal/inputbar"
	"github.com/junsooki/adacast/internal/shell"
)

// UI is the component tree the display draws and feeds input to.
type UI interface {
	input.Handler
	Bar() *inputbar.Bar
	Overlay() shell.View
	Resize(w, h int)
}

// PreviewSource provides the latest frame of the live capture source.
type PreviewSource interface {
	Preview() image.Image
}
