package ggrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/user/plantscan/pkg/ports"
)

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	r := New()

	src := image.NewRGBA(image.Rect(0, 0, 960, 540))
	fill(src, color.RGBA{R: 10, G: 200, B: 30, A: 255})

	dst := r.ResizeImage(src, 640, 640)

	if dst.Bounds().Dx() != 640 || dst.Bounds().Dy() != 640 {
		t.Fatalf("expected 640x640, got %dx%d", dst.Bounds().Dx(), dst.Bounds().Dy())
	}

	got := dst.RGBAAt(320, 320)
	if got.R != 10 || got.G != 200 || got.B != 30 {
		t.Errorf("uniform color should survive resize, got %v", got)
	}
}

func TestRenderer_ResizeImage_Deterministic(t *testing.T) {
	r := New()

	src := image.NewRGBA(image.Rect(0, 0, 100, 80))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}

	a := r.ResizeImage(src, 64, 64)
	b := r.ResizeImage(src, 64, 64)

	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("resizing the same image twice should produce identical bytes")
	}
}

func TestCanvas_DrawRect_Blends(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	fill(img, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	r.Canvas(img).DrawRect(10, 10, 20, 20, color.NRGBA{A: 128})

	inside := img.RGBAAt(20, 20)
	if inside.R < 120 || inside.R > 135 {
		t.Errorf("expected half-blended pixel inside rect, got %v", inside)
	}

	outside := img.RGBAAt(2, 2)
	if outside.R != 255 {
		t.Errorf("pixel outside rect should be untouched, got %v", outside)
	}
}

func TestCanvas_DrawRectStroke(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	green := color.RGBA{G: 255, A: 255}

	r.Canvas(img).DrawRectStroke(10, 10, 20, 20, green, 2)

	edge := img.RGBAAt(20, 10)
	if edge.G == 0 {
		t.Errorf("expected stroke on top edge, got %v", edge)
	}

	center := img.RGBAAt(20, 20)
	if center.G != 0 {
		t.Errorf("stroke should not fill the interior, got %v", center)
	}
}

func TestCanvas_MeasureText(t *testing.T) {
	r := New()
	c := r.Canvas(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	style := ports.TextStyle{FontSize: 18, Color: color.White}

	w1, h1, err := c.MeasureText("Frame 0", style)
	if err != nil {
		t.Fatalf("MeasureText failed: %v", err)
	}
	w2, _, err := c.MeasureText("Frame 0: blight on leaf (43%)", style)
	if err != nil {
		t.Fatalf("MeasureText failed: %v", err)
	}

	if w1 <= 0 || h1 <= 0 {
		t.Errorf("expected positive extent, got %vx%v", w1, h1)
	}
	if w2 <= w1 {
		t.Errorf("longer text should be wider: %v <= %v", w2, w1)
	}
}

func TestCanvas_DrawText(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 200, 40))
	style := ports.TextStyle{FontSize: 18, Color: color.RGBA{G: 255, A: 255}}

	if err := r.Canvas(img).DrawText("Frame 5", 5, 30, style); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}

	painted := false
	for i := 1; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			painted = true
			break
		}
	}
	if !painted {
		t.Error("expected text pixels to be drawn")
	}
}

func TestCanvas_DrawText_MissingFont(t *testing.T) {
	r := New()
	c := r.Canvas(image.NewRGBA(image.Rect(0, 0, 10, 10)))

	err := c.DrawText("x", 0, 5, ports.TextStyle{FontSize: 12, FontPath: "/nonexistent/font.ttf", Color: color.White})
	if err == nil {
		t.Error("expected error for missing font file")
	}
}

func TestRenderer_EncodeImage(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 50, 30))
	fill(img, color.RGBA{R: 255, A: 255})

	data, err := r.EncodeImage(img, ports.FormatJPEG, 80)
	if err != nil {
		t.Fatalf("EncodeImage JPEG failed: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode JPEG: %v", err)
	}
	if decoded.Bounds().Dx() != 50 || decoded.Bounds().Dy() != 30 {
		t.Errorf("expected 50x30, got %v", decoded.Bounds())
	}

	data, err = r.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage PNG failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode PNG: %v", err)
	}

	if _, err := r.EncodeImage(img, ports.ImageFormat(99), 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}
