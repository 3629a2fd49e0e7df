package ffmpegsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/user/plantscan/pkg/adapters/ffmpegbin"
	"github.com/user/plantscan/pkg/ports"
)

// ErrProbe is returned when ffprobe output cannot be interpreted.
var ErrProbe = errors.New("ffmpegsource: probe failed")

type ffprobeOutput struct {
	Streams []struct {
		CodecName     string `json:"codec_name"`
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		RFrameRate    string `json:"r_frame_rate"`
		AvgFrameRate  string `json:"avg_frame_rate"`
		NbFrames      string `json:"nb_frames"`
		NbReadPackets string `json:"nb_read_packets"`
	} `json:"streams"`
}

// FFprobe implements ports.VideoProber by running ffprobe.
type FFprobe struct {
	// CountPackets makes ffprobe count packets when the container has no
	// frame count. Slow on long files.
	CountPackets bool
}

// NewFFprobe creates a prober that reads container metadata only.
func NewFFprobe() *FFprobe {
	return &FFprobe{}
}

// Probe runs ffprobe against the first video stream of path.
func (p *FFprobe) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	bin, err := ffmpegbin.Find("ffprobe")
	if err != nil {
		return ports.VideoInfo{}, err
	}

	entries := "stream=codec_name,width,height,r_frame_rate,avg_frame_rate,nb_frames"
	info, err := p.run(ctx, bin, path, entries)
	if err != nil {
		return ports.VideoInfo{}, err
	}

	if info.TotalFrames == 0 && p.CountPackets {
		counted, err := p.run(ctx, bin, path, "stream=nb_read_packets", "-count_packets")
		if err == nil {
			info.TotalFrames = counted.TotalFrames
		}
	}

	if info.Width <= 0 || info.Height <= 0 {
		return info, fmt.Errorf("%w: missing dimensions", ErrProbe)
	}
	if info.FPS <= 0 {
		return info, fmt.Errorf("%w: missing frame rate", ErrProbe)
	}
	return info, nil
}

func (p *FFprobe) run(ctx context.Context, bin, path, entries string, extra ...string) (ports.VideoInfo, error) {
	args := []string{"-v", "error", "-select_streams", "v:0"}
	args = append(args, extra...)
	args = append(args, "-show_entries", entries, "-of", "json", path)

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("%w: %w: %s", ErrProbe, err, strings.TrimSpace(stderr.String()))
	}
	return parseProbeOutput(out)
}

// parseProbeOutput converts ffprobe JSON into VideoInfo.
func parseProbeOutput(data []byte) (ports.VideoInfo, error) {
	var res ffprobeOutput
	if err := json.Unmarshal(data, &res); err != nil {
		return ports.VideoInfo{}, fmt.Errorf("%w: %w", ErrProbe, err)
	}
	if len(res.Streams) == 0 {
		return ports.VideoInfo{}, fmt.Errorf("%w: no video stream", ErrProbe)
	}

	s := res.Streams[0]
	info := ports.VideoInfo{
		Width:  s.Width,
		Height: s.Height,
		Codec:  s.CodecName,
	}

	// avg_frame_rate is 0/0 for some streams
	info.FPS = parseRate(s.AvgFrameRate)
	if info.FPS <= 0 {
		info.FPS = parseRate(s.RFrameRate)
	}

	if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
		info.TotalFrames = n
	} else if n, err := strconv.Atoi(s.NbReadPackets); err == nil && n > 0 {
		info.TotalFrames = n
	}

	return info, nil
}

// parseRate parses "num/den" or a plain number. Invalid input yields 0.
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// Chain tries each prober in order and returns the first success.
type Chain []ports.VideoProber

// Probe implements ports.VideoProber.
func (c Chain) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	var errs []error
	for _, p := range c {
		info, err := p.Probe(ctx, path)
		if err == nil {
			return info, nil
		}
		if ctx.Err() != nil {
			return ports.VideoInfo{}, ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return ports.VideoInfo{}, fmt.Errorf("%w: no probers configured", ErrProbe)
	}
	return ports.VideoInfo{}, errors.Join(errs...)
}

var (
	_ ports.VideoProber = (*FFprobe)(nil)
	_ ports.VideoProber = Chain(nil)
)
