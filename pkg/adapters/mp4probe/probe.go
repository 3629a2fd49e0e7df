// Package mp4probe reads video stream metadata from MP4 containers without
// decoding any frames.
package mp4probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/plantscan/pkg/ports"
)

// Codec names reported in ports.VideoInfo.
const (
	CodecH264    = "h264"
	CodecHEVC    = "hevc"
	CodecAV1     = "av1"
	CodecUnknown = "unknown"
)

var (
	// ErrNoVideoTrack is returned when the container has no video track.
	ErrNoVideoTrack = errors.New("mp4probe: no video track found")

	// ErrIncomplete is returned when the track lacks size or timing data.
	ErrIncomplete = errors.New("mp4probe: incomplete track metadata")
)

// Prober implements ports.VideoProber for MP4 files.
type Prober struct{}

// New creates a new MP4 prober.
func New() *Prober {
	return &Prober{}
}

// Probe opens path and reads the first video track's metadata.
func (p *Prober) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	if err := ctx.Err(); err != nil {
		return ports.VideoInfo{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader reads metadata from an MP4 stream.
func ProbeReader(r io.ReadSeeker) (ports.VideoInfo, error) {
	mp4File, err := mp4.DecodeFile(r)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	var info ports.VideoInfo
	if mp4File.IsFragmented() {
		info, err = probeFragmented(mp4File)
	} else {
		info, err = probeProgressive(mp4File)
	}
	if err != nil {
		return ports.VideoInfo{}, err
	}

	if info.Width <= 0 || info.Height <= 0 {
		return info, fmt.Errorf("%w: missing dimensions", ErrIncomplete)
	}
	if info.FPS <= 0 {
		return info, fmt.Errorf("%w: missing frame timing", ErrIncomplete)
	}
	return info, nil
}

func probeProgressive(mp4File *mp4.File) (ports.VideoInfo, error) {
	if mp4File.Moov == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}

	trak := findVideoTrack(mp4File.Moov.Traks)
	if trak == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}

	info := trackInfo(trak)

	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz != nil {
		info.TotalFrames = int(stbl.Stsz.SampleNumber)
	}

	mdhd := trak.Mdia.Mdhd
	if mdhd != nil && mdhd.Duration > 0 && info.TotalFrames > 0 {
		info.FPS = float64(info.TotalFrames) * float64(mdhd.Timescale) / float64(mdhd.Duration)
	}

	return info, nil
}

func probeFragmented(mp4File *mp4.File) (ports.VideoInfo, error) {
	if mp4File.Init == nil || mp4File.Init.Moov == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}

	trak := findVideoTrack(mp4File.Init.Moov.Traks)
	if trak == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}

	info := trackInfo(trak)
	trackID := trak.Tkhd.TrackID

	var samples, duration uint64
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				for _, trun := range traf.Truns {
					samples += uint64(trun.SampleCount())
					for _, s := range trun.Samples {
						duration += uint64(s.Dur)
					}
				}
			}
		}
	}

	info.TotalFrames = int(samples)
	if duration > 0 && trak.Mdia.Mdhd != nil {
		info.FPS = float64(samples) * float64(trak.Mdia.Mdhd.Timescale) / float64(duration)
	}

	return info, nil
}

func findVideoTrack(traks []*mp4.TrakBox) *mp4.TrakBox {
	for _, trak := range traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil {
			continue
		}
		if trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			continue
		}
		return trak
	}
	return nil
}

// trackInfo fills codec and dimensions from the sample description,
// falling back to the track header.
func trackInfo(trak *mp4.TrakBox) ports.VideoInfo {
	info := ports.VideoInfo{Codec: CodecUnknown}

	if stsd := trak.Mdia.Minf.Stbl.Stsd; stsd != nil {
		for _, child := range stsd.Children {
			vse, ok := child.(*mp4.VisualSampleEntryBox)
			if !ok {
				continue
			}
			info.Codec = codecName(child.Type())
			info.Width = int(vse.Width)
			info.Height = int(vse.Height)
			break
		}
	}

	if (info.Width == 0 || info.Height == 0) && trak.Tkhd != nil {
		info.Width = int(uint32(trak.Tkhd.Width) >> 16)
		info.Height = int(uint32(trak.Tkhd.Height) >> 16)
	}

	return info
}

func codecName(boxType string) string {
	switch boxType {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "av01":
		return CodecAV1
	default:
		return CodecUnknown
	}
}

// Ensure Prober implements ports.VideoProber
var _ ports.VideoProber = (*Prober)(nil)
