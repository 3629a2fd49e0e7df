package dedupe

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSet_Observe(t *testing.T) {
	s := New()
	red := solid(8, 8, color.RGBA{R: 255, A: 255})
	blue := solid(8, 8, color.RGBA{B: 255, A: 255})

	if _, isNew := s.Observe(red); !isNew {
		t.Error("first frame should be new")
	}
	if _, isNew := s.Observe(solid(8, 8, color.RGBA{R: 255, A: 255})); isNew {
		t.Error("identical frame should not be new")
	}
	if _, isNew := s.Observe(blue); !isNew {
		t.Error("different frame should be new")
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 fingerprints, got %d", s.Len())
	}
}

func TestSet_FreshPerRun(t *testing.T) {
	img := solid(4, 4, color.RGBA{G: 10, A: 255})

	first := New()
	first.Observe(img)

	second := New()
	if _, isNew := second.Observe(img); !isNew {
		t.Error("a new set must not share fingerprints with another run")
	}
}

func TestFingerprint_SubImageIgnoresPadding(t *testing.T) {
	big := solid(16, 16, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	big.SetRGBA(15, 0, color.RGBA{R: 200, A: 255}) // outside the sub-image

	sub := big.SubImage(image.Rect(0, 0, 8, 8)).(*image.RGBA)
	tight := solid(8, 8, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	if Fingerprint(sub) != Fingerprint(tight) {
		t.Error("sub-image fingerprint should only cover its own bounds")
	}
}
