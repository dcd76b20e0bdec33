package shell

import "image"

// Position is the top-left corner of the overlay in window coordinates.
type Position = image.Point

// Overlay geometry, relative to Position.
const (
	Width        = 480
	Height       = 300
	HandleHeight = 24

	buttonHeight = 32
	buttonMargin = 16
	toggleWidth  = 128
	closeWidth   = 40
	buttonGap    = 12
	errorCloseW  = 96
)

// Bounds is the whole overlay.
func Bounds(pos Position) image.Rectangle {
	return image.Rect(pos.X, pos.Y, pos.X+Width, pos.Y+Height)
}

// HandleRect is the strip along the top that starts a drag.
func HandleRect(pos Position) image.Rectangle {
	return image.Rect(pos.X, pos.Y, pos.X+Width, pos.Y+HandleHeight)
}

// VideoRect is where the live preview is drawn.
func VideoRect(pos Position) image.Rectangle {
	return image.Rect(pos.X, pos.Y+HandleHeight, pos.X+Width, pos.Y+Height)
}

// ToggleRect and CloseRect sit centred along the bottom edge.
func ToggleRect(pos Position) image.Rectangle {
	x := pos.X + (Width-(toggleWidth+buttonGap+closeWidth))/2
	y := pos.Y + Height - buttonMargin - buttonHeight
	return image.Rect(x, y, x+toggleWidth, y+buttonHeight)
}

func CloseRect(pos Position) image.Rectangle {
	t := ToggleRect(pos)
	return image.Rect(t.Max.X+buttonGap, t.Min.Y, t.Max.X+buttonGap+closeWidth, t.Max.Y)
}

// ErrorCloseRect is the single button of the error panel.
func ErrorCloseRect(pos Position) image.Rectangle {
	x := pos.X + (Width-errorCloseW)/2
	y := pos.Y + HandleHeight + (Height-HandleHeight)/2 + buttonGap
	return image.Rect(x, y, x+errorCloseW, y+buttonHeight)
}
