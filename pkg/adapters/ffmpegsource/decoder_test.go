package ffmpegsource

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/user/plantscan/pkg/adapters/ffmpegbin"
	"github.com/user/plantscan/pkg/adapters/h264encoder"
	"github.com/user/plantscan/pkg/adapters/logger"
	"github.com/user/plantscan/pkg/adapters/mp4probe"
	"github.com/user/plantscan/pkg/ports"
)

type stubProber struct {
	info  ports.VideoInfo
	err   error
	calls int
}

func (s *stubProber) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	s.calls++
	return s.info, s.err
}

func requireFFmpeg(t *testing.T) {
	t.Helper()
	if os.Getenv("PLANTSCAN_FFMPEG_TESTS") == "" {
		t.Skip("set PLANTSCAN_FFMPEG_TESTS=1 to run ffmpeg tests")
	}
	if !ffmpegbin.Available("ffmpeg") || !ffmpegbin.Available("ffprobe") {
		t.Skip("ffmpeg/ffprobe not available")
	}
}

func TestDecoder_OpenMissingFile(t *testing.T) {
	prober := &stubProber{}
	dec := New(prober, nil)

	_, err := dec.Open(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	if prober.calls != 0 {
		t.Errorf("prober should not run for a missing file")
	}
}

func TestDecoder_OpenProbeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mp4")
	if err := os.WriteFile(path, []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}

	probeErr := errors.New("unreadable")
	dec := New(&stubProber{err: probeErr}, nil)

	if _, err := dec.Open(context.Background(), path); !errors.Is(err, probeErr) {
		t.Errorf("expected probe error, got %v", err)
	}
}

func TestDecoder_ReadBeforeOpen(t *testing.T) {
	dec := New(&stubProber{}, nil)

	if _, err := dec.ReadFrame(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	if err := dec.Close(); err != nil {
		t.Errorf("Close on unopened decoder: %v", err)
	}
}

// writeClip encodes n solid frames whose gray level rises with the index.
func writeClip(t *testing.T, path string, w, h, n int) {
	t.Helper()

	enc := h264encoder.New()
	defer enc.Close()

	if err := enc.Begin(context.Background(), path, w, h, 10, ports.EncoderOptions{Quality: 10}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		level := uint8(20 + i*20)
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = level, level, level, 255
		}
		if err := enc.EncodeFrame(img); err != nil {
			t.Fatalf("EncodeFrame %d: %v", i, err)
		}
	}
	if err := enc.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
}

func TestDecoder_RoundTrip(t *testing.T) {
	requireFFmpeg(t)

	path := filepath.Join(t.TempDir(), "clip.mp4")
	writeClip(t, path, 64, 48, 8)

	dec := New(Chain{mp4probe.New(), NewFFprobe()}, nil)
	defer dec.Close()

	info, err := dec.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if info.Width != 64 || info.Height != 48 {
		t.Errorf("expected 64x48, got %dx%d", info.Width, info.Height)
	}
	if info.TotalFrames != 8 {
		t.Errorf("expected 8 frames, got %d", info.TotalFrames)
	}

	var frames []*image.RGBA
	for {
		img, err := dec.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		frames = append(frames, img)
	}

	if len(frames) != 8 {
		t.Fatalf("expected 8 decoded frames, got %d", len(frames))
	}

	// Lossy codec; only the ordering of gray levels is stable.
	prev := -1
	for i, f := range frames {
		c := f.RGBAAt(32, 24)
		if int(c.G) <= prev {
			t.Errorf("frame %d: level %d not above previous %d", i, c.G, prev)
		}
		prev = int(c.G)
		if c.A != 255 {
			t.Errorf("frame %d: expected opaque pixel, got %v", i, c)
		}
	}

	if _, err := dec.ReadFrame(); err != io.EOF {
		t.Errorf("expected io.EOF after end, got %v", err)
	}
}

// fakeFFmpeg installs a shell script as the ffmpeg executable for one test.
func fakeFFmpeg(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}

	bin := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	ffmpegbin.SetPath("ffmpeg", bin)
	t.Cleanup(func() { ffmpegbin.SetPath("ffmpeg", "") })
}

func touch(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeArgs_DisablesAutorotate(t *testing.T) {
	args := decodeArgs("portrait.mp4")

	rot := slices.Index(args, "-noautorotate")
	in := slices.Index(args, "-i")
	if rot < 0 {
		t.Fatalf("expected -noautorotate in %v", args)
	}
	if rot > in {
		t.Errorf("-noautorotate must precede -i, got %v", args)
	}
	if args[in+1] != "portrait.mp4" {
		t.Errorf("expected input after -i, got %q", args[in+1])
	}
}

func TestDecoder_FramesKeepProbedSize(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	// Emits two 3x2 frames, but only when rotation is left alone.
	fakeFFmpeg(t, `echo "$@" > `+argsFile+`
case "$*" in
*-noautorotate*) head -c 48 /dev/zero ;;
*) head -c 30 /dev/zero ;;
esac
`)

	dec := New(&stubProber{info: ports.VideoInfo{Width: 3, Height: 2, FPS: 30, TotalFrames: 2}}, nil)
	defer dec.Close()

	if _, err := dec.Open(context.Background(), touch(t, "portrait.mp4")); err != nil {
		t.Fatalf("Open: %v", err)
	}

	frames := 0
	for {
		img, err := dec.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
			t.Errorf("expected 3x2 frame, got %v", b)
		}
		frames++
	}
	if frames != 2 {
		t.Errorf("expected 2 frames, got %d", frames)
	}

	recorded, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(recorded), "-noautorotate") {
		t.Errorf("ffmpeg ran without -noautorotate: %s", recorded)
	}
}

func TestDecoder_FailedExitLogged(t *testing.T) {
	fakeFFmpeg(t, `head -c 32 /dev/zero
echo "Invalid data found when processing input" >&2
exit 1
`)

	var out, errOut bytes.Buffer
	log := logger.NewWriter(ports.LevelWarn, &out, &errOut)

	dec := New(&stubProber{info: ports.VideoInfo{Width: 2, Height: 2, FPS: 30}}, log)
	defer dec.Close()

	if _, err := dec.Open(context.Background(), touch(t, "broken.mp4")); err != nil {
		t.Fatalf("Open: %v", err)
	}

	frames := 0
	var err error
	for err == nil {
		if _, err = dec.ReadFrame(); err == nil {
			frames++
		}
	}
	if err != io.EOF {
		t.Fatalf("a failed decode still ends the video, got %v", err)
	}
	if frames != 2 {
		t.Errorf("expected 2 frames before the failure, got %d", frames)
	}

	logged := errOut.String()
	if !strings.Contains(logged, "exit status 1") || !strings.Contains(logged, "Invalid data found") {
		t.Errorf("expected exit status and stderr in warning, got %q", logged)
	}
}

func TestDecoder_CleanExitNotLogged(t *testing.T) {
	fakeFFmpeg(t, "head -c 16 /dev/zero\n")

	var out, errOut bytes.Buffer
	dec := New(&stubProber{info: ports.VideoInfo{Width: 2, Height: 2, FPS: 30}}, logger.NewWriter(ports.LevelWarn, &out, &errOut))
	defer dec.Close()

	if _, err := dec.Open(context.Background(), touch(t, "ok.mp4")); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := dec.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if _, err := dec.ReadFrame(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if errOut.Len() != 0 {
		t.Errorf("expected no warning, got %q", errOut.String())
	}
	if err := dec.Close(); err != nil {
		t.Errorf("Close after reap: %v", err)
	}
}
