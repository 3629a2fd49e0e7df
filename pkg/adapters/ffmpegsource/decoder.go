// Package ffmpegsource decodes video files into RGBA frames through an
// ffmpeg child process writing raw pixels to a pipe.
package ffmpegsource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/ideamans/go-l10n"

	"github.com/user/plantscan/pkg/adapters/ffmpegbin"
	"github.com/user/plantscan/pkg/adapters/logger"
	"github.com/user/plantscan/pkg/ports"
)

var (
	// ErrNotOpen is returned when ReadFrame is called before Open.
	ErrNotOpen = errors.New("ffmpegsource: decoder not open")

	// ErrAlreadyOpen is returned when Open is called twice.
	ErrAlreadyOpen = errors.New("ffmpegsource: decoder already open")
)

// Decoder implements ports.VideoDecoder.
type Decoder struct {
	prober ports.VideoProber
	log    ports.Logger

	mu        sync.Mutex
	path      string
	info      ports.VideoInfo
	frameSize int
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	reader    *bufio.Reader
	stderr    *ffmpegbin.Tail
	done      bool
}

// New creates a decoder that reads stream metadata with prober.
// A nil log discards decoder warnings.
func New(prober ports.VideoProber, log ports.Logger) *Decoder {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Decoder{prober: prober, log: log.WithComponent("decoder")}
}

// Open probes path and starts ffmpeg.
func (d *Decoder) Open(ctx context.Context, path string) (ports.VideoInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cmd != nil {
		return ports.VideoInfo{}, ErrAlreadyOpen
	}

	if _, err := os.Stat(path); err != nil {
		return ports.VideoInfo{}, err
	}

	info, err := d.prober.Probe(ctx, path)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("probe: %w", err)
	}

	bin, err := ffmpegbin.Find("ffmpeg")
	if err != nil {
		return ports.VideoInfo{}, err
	}

	stderr := ffmpegbin.NewTail(ffmpegbin.DefaultTail)
	cmd := exec.CommandContext(ctx, bin, decodeArgs(path)...)
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return ports.VideoInfo{}, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	d.cmd = cmd
	d.stdout = stdout
	d.stderr = stderr
	d.path = path
	d.info = info
	d.frameSize = info.Width * info.Height * 4
	d.reader = bufio.NewReaderSize(stdout, d.frameSize)
	return info, nil
}

// ReadFrame returns the next decoded frame, or io.EOF after the last one.
// A trailing partial frame is treated as end of stream.
func (d *Decoder) ReadFrame() (*image.RGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cmd == nil {
		return nil, ErrNotOpen
	}
	if d.done {
		return nil, io.EOF
	}

	img := image.NewRGBA(image.Rect(0, 0, d.info.Width, d.info.Height))
	if _, err := io.ReadFull(d.reader, img.Pix); err != nil {
		d.done = true
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			d.reap()
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return img, nil
}

// reap waits for ffmpeg after its output ends. A failed exit still reads as
// end of video, but is logged with ffmpeg's last output.
func (d *Decoder) reap() {
	if err := d.cmd.Wait(); err != nil {
		d.log.Warn(l10n.F("ffmpeg stopped decoding %s: %s%s", d.path, err, d.stderr.Suffix()))
	}
}

// Close stops ffmpeg. Safe to call more than once.
func (d *Decoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cmd == nil {
		return nil
	}

	if d.cmd.Process != nil && d.cmd.ProcessState == nil {
		d.cmd.Process.Kill()
		d.cmd.Wait()
	}
	d.cmd = nil
	d.stdout = nil
	d.reader = nil
	d.done = true
	return nil
}

// decodeArgs returns the ffmpeg command line that writes path as raw RGBA.
// Rotation metadata is ignored so frames keep the probed coded size.
func decodeArgs(path string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-noautorotate",
		"-i", path,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-vsync", "passthrough",
		"pipe:1",
	}
}

// Ensure Decoder implements ports.VideoDecoder
var _ ports.VideoDecoder = (*Decoder)(nil)
