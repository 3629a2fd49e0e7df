// Package dedupe tracks which sampled frames a run has already seen.
package dedupe

import (
	"image"

	"github.com/cespare/xxhash/v2"
)

// Set is the fingerprint set of a single run. It is not safe for concurrent
// use; create one per run with New.
type Set struct {
	seen map[uint64]struct{}
}

// New returns an empty Set.
func New() *Set {
	return &Set{seen: make(map[uint64]struct{})}
}

// Fingerprint returns a digest of the pixels inside img's bounds.
// Row padding of sub-images is excluded.
func Fingerprint(img *image.RGBA) uint64 {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	start := img.PixOffset(b.Min.X, b.Min.Y)

	if img.Stride == rowLen {
		return xxhash.Sum64(img.Pix[start : start+rowLen*b.Dy()])
	}

	d := xxhash.New()
	for y := 0; y < b.Dy(); y++ {
		off := start + y*img.Stride
		d.Write(img.Pix[off : off+rowLen])
	}
	return d.Sum64()
}

// Observe fingerprints img and registers it. isNew is true the first time a
// fingerprint is seen in this set.
func (s *Set) Observe(img *image.RGBA) (fp uint64, isNew bool) {
	fp = Fingerprint(img)
	if _, ok := s.seen[fp]; ok {
		return fp, false
	}
	s.seen[fp] = struct{}{}
	return fp, true
}

// Len returns the number of distinct fingerprints seen.
func (s *Set) Len() int {
	return len(s.seen)
}
