package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts image processing operations.
type Renderer interface {
	// Canvas wraps img for in-place drawing.
	Canvas(img *image.RGBA) Canvas

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to the specified dimensions using area averaging.
	ResizeImage(img image.Image, width, height int) *image.RGBA
}

// Canvas provides drawing operations on a frame.
type Canvas interface {
	// DrawRect fills a rectangle, blending by the color's alpha.
	DrawRect(x, y, w, h int, c color.Color)

	// DrawRectStroke draws a rectangle outline.
	DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64)

	// DrawText draws text with its baseline starting at (x, y).
	DrawText(text string, x, y int, style TextStyle) error

	// MeasureText returns the width and height of the text.
	MeasureText(text string, style TextStyle) (width, height float64, err error)
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string // Empty selects the built-in font
	Color    color.Color
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)
