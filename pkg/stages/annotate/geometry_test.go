package annotate

import (
	"testing"

	"github.com/user/plantscan/pkg/pipeline"
)

func TestRescale(t *testing.T) {
	tests := []struct {
		name          string
		det           pipeline.Detection
		width, height int
		want          pipeline.Box
	}{
		{
			name:   "uniform scale 1.5",
			det:    pipeline.Detection{X: 320, Y: 320, Width: 64, Height: 64},
			width:  960,
			height: 960,
			want:   pipeline.Box{Left: 432, Top: 432, Right: 528, Bottom: 528},
		},
		{
			name:   "identity",
			det:    pipeline.Detection{X: 100, Y: 200, Width: 40, Height: 20},
			width:  640,
			height: 640,
			want:   pipeline.Box{Left: 80, Top: 190, Right: 120, Bottom: 210},
		},
		{
			name:   "independent axes",
			det:    pipeline.Detection{X: 320, Y: 320, Width: 100, Height: 100},
			width:  480,
			height: 848,
			// x=240 w=75 -> 240-37, 240+37; y=424 h=132 -> 424-66, 424+66
			want: pipeline.Box{Left: 203, Top: 358, Right: 277, Bottom: 490},
		},
		{
			name:   "truncates fractional pixels",
			det:    pipeline.Detection{X: 10.9, Y: 10.9, Width: 5.9, Height: 5.9},
			width:  640,
			height: 640,
			want:   pipeline.Box{Left: 8, Top: 8, Right: 12, Bottom: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rescale(tt.det, tt.width, tt.height)
			if got != tt.want {
				t.Errorf("Rescale() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCaption(t *testing.T) {
	got := Caption(10, "blight", "leaf", 0.431)
	want := "Frame 10: blight on leaf (43%)"
	if got != want {
		t.Errorf("Caption() = %q, want %q", got, want)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		conf float64
		want int
	}{
		{0.431, 43},
		{0.999, 99},
		{1.0, 100},
		{0.29, 29},
		{0.0, 0},
	}

	for _, tt := range tests {
		if got := Percent(tt.conf); got != tt.want {
			t.Errorf("Percent(%v) = %d, want %d", tt.conf, got, tt.want)
		}
	}
}
