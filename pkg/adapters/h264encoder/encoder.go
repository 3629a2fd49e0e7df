// Package h264encoder writes H.264 MP4 files by piping raw RGBA frames
// into an ffmpeg process.
package h264encoder

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/user/plantscan/pkg/adapters/ffmpegbin"
	"github.com/user/plantscan/pkg/ports"
)

const (
	defaultCodec   = "libx264"
	defaultPreset  = "fast"
	defaultQuality = 23
	maxQuality     = 51
)

// checkedCodecs caches successful encoder lookups per ffmpeg binary.
var checkedCodecs sync.Map

// Encoder implements ports.VideoEncoder on top of an ffmpeg child process.
type Encoder struct {
	mu sync.Mutex

	width  int
	height int

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  *ffmpegbin.Tail
	scratch *image.RGBA

	frameCount int
	finished   bool
	failed     error
}

// New creates a new H.264 encoder.
func New() *Encoder {
	return &Encoder{}
}

// Begin starts ffmpeg writing an MP4 to path.
func (e *Encoder) Begin(ctx context.Context, path string, width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd != nil {
		return ErrAlreadyStarted
	}
	if width <= 0 || height <= 0 || fps <= 0 {
		return fmt.Errorf("%w: %dx%d at %.3f fps", ErrInvalidParams, width, height, fps)
	}
	if path == "" {
		return fmt.Errorf("%w: empty output path", ErrInvalidParams)
	}

	ffmpegPath, err := ffmpegbin.Find("ffmpeg")
	if err != nil {
		return err
	}

	codec := opts.Codec
	if codec == "" {
		codec = defaultCodec
	}
	if err := checkCodec(ctx, ffmpegPath, codec); err != nil {
		return err
	}

	// ffmpeg opens its output only after the first frame; surface an
	// unwritable destination here instead.
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrWriterInit, err)
	}
	f.Close()

	stderr := ffmpegbin.NewTail(ffmpegbin.DefaultTail)
	cmd := exec.CommandContext(ctx, ffmpegPath, buildArgs(path, width, height, fps, opts)...)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: failed to start ffmpeg: %w", ports.ErrWriterInit, err)
	}

	e.cmd = cmd
	e.stdin = stdin
	e.stderr = stderr
	e.width = width
	e.height = height
	e.frameCount = 0
	e.finished = false
	e.failed = nil
	return nil
}

// EncodeFrame writes one frame to ffmpeg's stdin.
func (e *Encoder) EncodeFrame(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.finished {
		return ErrNotInitialized
	}

	b := img.Bounds()
	if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize, b.Dx(), b.Dy(), e.width, e.height)
	}

	if _, err := e.stdin.Write(e.rawPixels(img)); err != nil {
		return e.abort(err)
	}

	e.frameCount++
	return nil
}

// rawPixels returns the tightly packed RGBA bytes of img.
func (e *Encoder) rawPixels(img image.Image) []byte {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*e.width {
		return rgba.Pix[:4*e.width*e.height]
	}

	if e.scratch == nil {
		e.scratch = image.NewRGBA(image.Rect(0, 0, e.width, e.height))
	}
	draw.Draw(e.scratch, e.scratch.Bounds(), img, img.Bounds().Min, draw.Src)
	return e.scratch.Pix
}

// End closes stdin and waits for ffmpeg to finalize the container.
func (e *Encoder) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd == nil {
		return ErrNotInitialized
	}
	if e.finished {
		return e.failed
	}

	e.stdin.Close()
	e.stdin = nil
	e.finished = true

	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %w%s", ErrEncodingFailed, err, e.stderr.Suffix())
	}
	return nil
}

// abort reaps an ffmpeg process that stopped reading frames. A process that
// dies before accepting any frame never set up its writer.
func (e *Encoder) abort(writeErr error) error {
	e.stdin.Close()
	e.stdin = nil
	e.finished = true

	waitErr := e.cmd.Wait()
	cause := writeErr
	if waitErr != nil {
		cause = waitErr
	}

	if e.frameCount == 0 {
		e.failed = fmt.Errorf("%w: %w%s", ports.ErrWriterInit, cause, e.stderr.Suffix())
	} else {
		e.failed = fmt.Errorf("%w: frame %d: %w%s", ErrEncodingFailed, e.frameCount, cause, e.stderr.Suffix())
	}
	return e.failed
}

// Close abandons an unfinished encode. Safe to call after End.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd == nil || e.finished {
		return nil
	}

	if e.stdin != nil {
		e.stdin.Close()
		e.stdin = nil
	}
	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	e.cmd.Wait()
	e.finished = true
	return nil
}

// FrameCount returns the number of frames written so far.
func (e *Encoder) FrameCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameCount
}

// checkCodec asks ffmpeg whether it was built with the named encoder.
func checkCodec(ctx context.Context, ffmpegPath, codec string) error {
	key := ffmpegPath + "\x00" + codec
	if _, ok := checkedCodecs.Load(key); ok {
		return nil
	}

	out, err := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-h", "encoder="+codec).CombinedOutput()
	text := strings.TrimSpace(string(out))
	if err != nil {
		return fmt.Errorf("%w: ffmpeg encoder %s: %w: %s", ports.ErrWriterInit, codec, err, text)
	}
	if !strings.Contains(text, "Encoder "+codec) {
		return fmt.Errorf("%w: ffmpeg has no encoder %s", ports.ErrWriterInit, codec)
	}

	checkedCodecs.Store(key, struct{}{})
	return nil
}

// buildArgs returns the ffmpeg command line for one encode.
func buildArgs(path string, width, height int, fps float64, opts ports.EncoderOptions) []string {
	codec := opts.Codec
	if codec == "" {
		codec = defaultCodec
	}
	preset := opts.Preset
	if preset == "" {
		preset = defaultPreset
	}
	crf := opts.Quality
	if crf <= 0 {
		crf = defaultQuality
	}
	if crf > maxQuality {
		crf = maxQuality
	}

	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "pipe:0",
		"-an",
		"-c:v", codec,
		"-preset", preset,
		"-crf", strconv.Itoa(crf),
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-f", "mp4",
		path,
	}
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)
