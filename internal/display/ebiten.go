package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/junsooki/adacast/internal/input"
	"github.com/junsooki/adacast/internal/inputbar"
	"github.com/junsooki/adacast/internal/shell"
)

var (
	colorBackground = color.RGBA{0x11, 0x18, 0x27, 0xff}
	colorBar        = color.RGBA{0x1f, 0x29, 0x37, 0xff}
	colorField      = color.RGBA{0x37, 0x41, 0x51, 0xff}
	colorSend       = color.RGBA{0x25, 0x63, 0xeb, 0xff}
	colorButton     = color.RGBA{0x4b, 0x55, 0x63, 0xff}
	colorDisabled   = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}
	colorActive     = color.RGBA{0xdc, 0x26, 0x26, 0xff}
	colorWebcam     = color.RGBA{0x93, 0x33, 0xea, 0xff}
	colorOverlay    = color.RGBA{0x00, 0x00, 0x00, 0xff}
	colorHandle     = color.RGBA{0x37, 0x41, 0x51, 0xff}
	colorBorder     = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	colorError      = color.RGBA{0x7f, 0x1d, 0x1d, 0xff}
)

// EbitenDisplay renders the input bar and the capture overlay using
// Ebitengine and turns mouse and keyboard state into input events.
type EbitenDisplay struct {
	ui      UI
	preview PreviewSource
	logger  *zap.Logger
	title   string
	width   int
	height  int

	rgba        *image.RGBA
	ebitenImage *ebiten.Image

	prevMouse image.Point
	runes     []rune

	quit     chan struct{}
	quitOnce sync.Once
}

// NewEbitenDisplay creates an Ebitengine-based display of the given window size.
func NewEbitenDisplay(ui UI, preview PreviewSource, width, height int, logger *zap.Logger) *EbitenDisplay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EbitenDisplay{
		ui:      ui,
		preview: preview,
		logger:  logger,
		title:   "adacast",
		width:   width,
		height:  height,
		quit:    make(chan struct{}),
	}
}

// Close ends the game loop at the next update. Safe from any goroutine.
func (d *EbitenDisplay) Close() {
	d.quitOnce.Do(func() { close(d.quit) })
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
func (d *EbitenDisplay) Run() error {
	ebiten.SetWindowSize(d.width, d.height)
	ebiten.SetWindowTitle(d.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	d.logger.Info("display started", zap.Int("width", d.width), zap.Int("height", d.height))
	return ebiten.RunGame(d)
}

// --- ebiten.Game interface ---

func (d *EbitenDisplay) Update() error {
	select {
	case <-d.quit:
		return ebiten.Termination
	default:
	}
	d.captureMouseInput()
	d.captureKeyboardInput()
	return nil
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	d.drawBar(screen)
	d.drawOverlay(screen)
}

func (d *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	d.ui.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// --- Input capture ---

func (d *EbitenDisplay) captureMouseInput() {
	mx, my := ebiten.CursorPosition()
	p := image.Pt(mx, my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		d.ui.HandleInput(input.PointerDown(mx, my))
	}
	if p != d.prevMouse {
		d.prevMouse = p
		d.ui.HandleInput(input.PointerMove(mx, my))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		d.ui.HandleInput(input.PointerUp(mx, my))
	}
}

func (d *EbitenDisplay) captureKeyboardInput() {
	d.runes = ebiten.AppendInputChars(d.runes[:0])
	if len(d.runes) > 0 {
		d.ui.HandleInput(input.Text(string(d.runes)))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		d.ui.HandleInput(input.KeyDown(input.KeyEnter))
	}
	if repeatKey(ebiten.KeyBackspace) {
		d.ui.HandleInput(input.KeyDown(input.KeyBackspace))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		d.ui.HandleInput(input.KeyDown(input.KeyEscape))
	}
}

// repeatKey fires on press and then periodically while held.
func repeatKey(k ebiten.Key) bool {
	const (
		delay    = 30
		interval = 3
	)
	n := inpututil.KeyPressDuration(k)
	return n == 1 || (n >= delay && (n-delay)%interval == 0)
}

// --- Rendering ---

func (d *EbitenDisplay) drawBar(screen *ebiten.Image) {
	bar := d.ui.Bar()
	r := bar.Regions()

	fillRect(screen, r.Bar, colorBar)
	fillRect(screen, r.Field, colorField)
	text := bar.Text()
	if text == "" {
		text = inputbar.Placeholder
	}
	printIn(screen, text, r.Field, false)

	fillRect(screen, r.Send, colorSend)
	printIn(screen, "Send", r.Send, true)

	mute := bar.MuteButton()
	fillRect(screen, r.Mute, buttonColor(mute, colorButton))
	printIn(screen, mute.Label, r.Mute, true)

	webcam := bar.WebcamButton()
	fillRect(screen, r.Webcam, buttonColor(webcam, colorWebcam))
	printIn(screen, webcam.Label, r.Webcam, true)
}

func (d *EbitenDisplay) drawOverlay(screen *ebiten.Image) {
	v := d.ui.Overlay()
	if !v.Visible() {
		return
	}
	bounds := shell.Bounds(v.Position)
	fillRect(screen, bounds, colorOverlay)
	fillRect(screen, shell.HandleRect(v.Position), colorHandle)
	ebitenutil.DebugPrintAt(screen, v.Kind.Label(), bounds.Min.X+8, bounds.Min.Y+4)
	strokeRect(screen, bounds, colorBorder)

	video := shell.VideoRect(v.Position)
	switch v.State {
	case shell.Starting:
		printIn(screen, fmt.Sprintf("Starting %s...", v.Kind.Noun()), video, true)
	case shell.Live:
		d.drawPreview(screen, video)
	case shell.Error:
		fillRect(screen, video, colorError)
		msgArea := image.Rect(video.Min.X, video.Min.Y, video.Max.X, shell.ErrorCloseRect(v.Position).Min.Y)
		printIn(screen, v.Message, msgArea, true)
		closeRect := shell.ErrorCloseRect(v.Position)
		fillRect(screen, closeRect, colorButton)
		printIn(screen, "Close", closeRect, true)
		return
	}

	toggle := shell.ToggleRect(v.Position)
	fillRect(screen, toggle, colorSend)
	printIn(screen, v.ToggleLabel, toggle, true)
	closeRect := shell.CloseRect(v.Position)
	fillRect(screen, closeRect, colorActive)
	printIn(screen, "X", closeRect, true)
}

func (d *EbitenDisplay) drawPreview(screen *ebiten.Image, dst image.Rectangle) {
	if d.preview == nil {
		return
	}
	img := d.preview.Preview()
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}

	if d.rgba == nil || d.rgba.Bounds().Size() != b.Size() {
		d.rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(d.rgba, d.rgba.Bounds(), img, b.Min, draw.Src)

	if d.ebitenImage == nil ||
		d.ebitenImage.Bounds().Dx() != b.Dx() ||
		d.ebitenImage.Bounds().Dy() != b.Dy() {
		d.ebitenImage = ebiten.NewImage(b.Dx(), b.Dy())
	}
	d.ebitenImage.WritePixels(d.rgba.Pix)

	scale, offsetX, offsetY := aspectFitTransform(
		float64(dst.Dx()), float64(dst.Dy()),
		float64(b.Dx()), float64(b.Dy()),
	)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(dst.Min.X)+offsetX, float64(dst.Min.Y)+offsetY)
	screen.DrawImage(d.ebitenImage, op)
}

func buttonColor(b inputbar.Button, base color.Color) color.Color {
	switch {
	case b.Disabled:
		return colorDisabled
	case b.Active:
		return colorActive
	}
	return base
}

func fillRect(dst *ebiten.Image, r image.Rectangle, clr color.Color) {
	vector.FillRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), clr, false)
}

func strokeRect(dst *ebiten.Image, r image.Rectangle, clr color.Color) {
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, clr, false)
}

// Debug font glyphs are 6x16.
const (
	glyphW = 6
	glyphH = 16
)

// printIn draws s inside r. Left-aligned text keeps its tail when it does
// not fit so the caret end stays visible; centred text keeps its head.
func printIn(dst *ebiten.Image, s string, r image.Rectangle, center bool) {
	pos, s := textOrigin(s, r, center)
	ebitenutil.DebugPrintAt(dst, s, pos.X, pos.Y)
}

func textOrigin(s string, r image.Rectangle, center bool) (image.Point, string) {
	const pad = 6
	runes := []rune(s)
	if maxRunes := (r.Dx() - 2*pad) / glyphW; maxRunes >= 0 && len(runes) > maxRunes {
		if center {
			runes = runes[:maxRunes]
		} else {
			runes = runes[len(runes)-maxRunes:]
		}
	}
	y := r.Min.Y + (r.Dy()-glyphH)/2
	x := r.Min.X + pad
	if center {
		x = r.Min.X + (r.Dx()-len(runes)*glyphW)/2
	}
	return image.Pt(x, y), string(runes)
}

// aspectFitTransform returns scale and offsets to fit frame into view with letterboxing.
func aspectFitTransform(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}
