// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/user/plantscan/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
// It is safe for concurrent use; parsed fonts are shared between canvases.
type Renderer struct {
	mu    sync.Mutex
	fonts map[string]*truetype.Font
}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{
		fonts: make(map[string]*truetype.Font),
	}
}

// Canvas wraps img so that drawing operations modify it in place.
func (r *Renderer) Canvas(img *image.RGBA) ports.Canvas {
	return &Canvas{
		dc:       gg.NewContextForRGBA(img),
		renderer: r,
		faces:    make(map[faceKey]font.Face),
	}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage resizes an image with a box filter, which averages every source
// pixel covered by a destination pixel.
func (r *Renderer) ResizeImage(img image.Image, width, height int) *image.RGBA {
	resized := imaging.Resize(img, width, height, imaging.Box)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), resized, resized.Bounds().Min, draw.Src)
	return dst
}

// font returns the parsed font at path, or the built-in Go Regular font when
// path is empty.
func (r *Renderer) font(path string) (*truetype.Font, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.fonts[path]; ok {
		return f, nil
	}

	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		data = b
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}
	r.fonts[path] = f
	return f, nil
}

var _ ports.Renderer = (*Renderer)(nil)

type faceKey struct {
	path string
	size float64
}

// Canvas implements ports.Canvas using gg.Context.
// A Canvas is used by one goroutine at a time.
type Canvas struct {
	dc       *gg.Context
	renderer *Renderer
	faces    map[faceKey]font.Face
}

// DrawRect fills a rectangle. Colors with alpha below 255 are blended over
// the existing pixels.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawRectStroke draws a rectangle outline centered on the given edges.
func (c *Canvas) DrawRectStroke(x, y, w, h int, col color.Color, strokeWidth float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(strokeWidth)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Stroke()
}

// DrawText draws text with its baseline starting at (x, y).
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) error {
	face, err := c.face(style)
	if err != nil {
		return err
	}
	c.dc.SetFontFace(face)
	c.dc.SetColor(style.Color)
	c.dc.DrawString(text, float64(x), float64(y))
	return nil
}

// MeasureText returns the advance width of text and the ascent of the font,
// i.e. the extent of the text above its baseline.
func (c *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64, error) {
	face, err := c.face(style)
	if err != nil {
		return 0, 0, err
	}
	advance := font.MeasureString(face, text)
	ascent := face.Metrics().Ascent
	return float64(advance.Ceil()), float64(ascent.Ceil()), nil
}

func (c *Canvas) face(style ports.TextStyle) (font.Face, error) {
	key := faceKey{path: style.FontPath, size: style.FontSize}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}

	ttf, err := c.renderer.font(style.FontPath)
	if err != nil {
		return nil, err
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: style.FontSize})
	c.faces[key] = f
	return f, nil
}

var _ ports.Canvas = (*Canvas)(nil)
