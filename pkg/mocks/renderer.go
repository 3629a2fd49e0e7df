package mocks

import (
	"image"
	"image/color"

	"github.com/user/plantscan/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
// Canvases it returns record every drawing call into Ops.
type Renderer struct {
	ResizeImageFunc func(img image.Image, width, height int) *image.RGBA
	EncodeImageFunc func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)

	// TextWidth and TextHeight are returned by MeasureText for every string.
	TextWidth  float64
	TextHeight float64

	Ops []DrawOp
}

// DrawOp records one canvas call.
type DrawOp struct {
	Kind        string // "rect", "stroke" or "text"
	X, Y, W, H  int
	Color       color.Color
	StrokeWidth float64
	Text        string
}

func (m *Renderer) Canvas(img *image.RGBA) ports.Canvas {
	return &Canvas{renderer: m, img: img}
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) *image.RGBA {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// OpsOfKind returns the recorded ops with the given kind.
func (m *Renderer) OpsOfKind(kind string) []DrawOp {
	var result []DrawOp
	for _, op := range m.Ops {
		if op.Kind == kind {
			result = append(result, op)
		}
	}
	return result
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas.
type Canvas struct {
	renderer *Renderer
	img      *image.RGBA
}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {
	m.renderer.Ops = append(m.renderer.Ops, DrawOp{Kind: "rect", X: x, Y: y, W: w, H: h, Color: c})
}

func (m *Canvas) DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64) {
	m.renderer.Ops = append(m.renderer.Ops, DrawOp{Kind: "stroke", X: x, Y: y, W: w, H: h, Color: c, StrokeWidth: strokeWidth})
}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) error {
	m.renderer.Ops = append(m.renderer.Ops, DrawOp{Kind: "text", X: x, Y: y, Color: style.Color, Text: text})
	return nil
}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64, error) {
	return m.renderer.TextWidth, m.renderer.TextHeight, nil
}

var _ ports.Canvas = (*Canvas)(nil)
