package filesink

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/plantscan/pkg/mocks"
	"github.com/user/plantscan/pkg/ports"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func pngRenderer() *mocks.Renderer {
	return &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			if format != ports.FormatPNG {
				return nil, errors.New("expected PNG")
			}
			return []byte("png-data"), nil
		},
	}
}

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem(), &mocks.Renderer{})

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveInferenceFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, pngRenderer())

	img := image.NewRGBA(image.Rect(0, 0, 640, 640))
	if err := sink.SaveInferenceFrame(5, img); err != nil {
		t.Fatalf("SaveInferenceFrame failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "inference", "frame-0005.png")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != "png-data" {
		t.Errorf("expected png-data, got %q", saved)
	}
}

func TestSink_SaveAnnotatedFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, pngRenderer())

	if err := sink.SaveAnnotatedFrame(45, image.NewRGBA(image.Rect(0, 0, 10, 10))); err != nil {
		t.Fatalf("SaveAnnotatedFrame failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "annotated", "frame-0045.png")
	if _, ok := fs.GetFile(expectedPath); !ok {
		t.Errorf("expected file to be saved at %s", expectedPath)
	}
}

func TestSink_SaveFrame_EncodeError(t *testing.T) {
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, errors.New("boom")
		},
	}
	sink := New(testBaseDir, mocks.NewFileSystem(), renderer)

	if err := sink.SaveAnnotatedFrame(0, image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("expected encode error")
	}
}

func TestSink_SaveReportJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, &mocks.Renderer{})

	data := []byte(`[{"frame":5}]`)
	if err := sink.SaveReportJSON(data); err != nil {
		t.Fatalf("SaveReportJSON failed: %v", err)
	}

	saved, ok := fs.GetFile(filepath.Join(testBaseDir, "report.json"))
	if !ok || string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_ForRun(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs, pngRenderer()).ForRun("run-42")

	if sink.Dir() != filepath.Join(testBaseDir, "run-42") {
		t.Errorf("unexpected run dir %s", sink.Dir())
	}

	if err := sink.SaveInferenceFrame(0, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	if _, ok := fs.GetFile(filepath.Join(testBaseDir, "run-42", "frames", "inference", "frame-0000.png")); !ok {
		t.Error("expected frame inside the run directory")
	}
}
