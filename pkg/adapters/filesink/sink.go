// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/plantscan/pkg/ports"
)

// Sink saves debug output to files under baseDir:
//
//	frames/inference/frame-0005.png  resized frame sent to the model
//	frames/annotated/frame-0005.png  sampled frame after annotation
//	report.json                      detection report
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// ForRun returns a sink writing into a subdirectory named after runID.
func (s *Sink) ForRun(runID string) *Sink {
	return New(filepath.Join(s.baseDir, runID), s.fs, s.renderer)
}

// Dir returns the directory this sink writes to.
func (s *Sink) Dir() string {
	return s.baseDir
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveInferenceFrame saves the resized frame sent to the model.
func (s *Sink) SaveInferenceFrame(index int, img image.Image) error {
	return s.saveFrame("inference", index, img)
}

// SaveAnnotatedFrame saves a sampled frame after annotation.
func (s *Sink) SaveAnnotatedFrame(index int, img image.Image) error {
	return s.saveFrame("annotated", index, img)
}

// SaveReportJSON saves the detection report.
func (s *Sink) SaveReportJSON(data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return err
	}
	path := filepath.Join(s.baseDir, "report.json")
	return s.fs.WriteFile(path, data)
}

func (s *Sink) saveFrame(kind string, index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames", kind)
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", kind, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", index))
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
