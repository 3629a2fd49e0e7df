package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/user/plantscan/pkg/config"
	"github.com/user/plantscan/pkg/orchestrator"
	"github.com/user/plantscan/pkg/pipeline"
)

func init() {
	cli.OsExiter = func(int) {}
}

// captureStdout runs fn and returns what it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	w.Close()

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "plantscan.yaml")
	content := "paths:\n" +
		"  uploads: " + filepath.Join(dir, "uploads") + "\n" +
		"  processed: " + filepath.Join(dir, "processed") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApp_Version(t *testing.T) {
	out := captureStdout(t, func() {
		if err := newApp().Run([]string{"plantscan", "version"}); err != nil {
			t.Errorf("version failed: %v", err)
		}
	})
	if !strings.Contains(out, "plantscan version dev") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestApp_Latest(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	processed := filepath.Join(dir, "processed")
	if err := os.MkdirAll(processed, 0755); err != nil {
		t.Fatal(err)
	}
	older := filepath.Join(processed, "processed_1_aaaaaaaa.mp4")
	newer := filepath.Join(processed, "processed_2_bbbbbbbb.mp4")
	for _, p := range []string{older, newer} {
		if err := os.WriteFile(p, []byte("video"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		if err := newApp().Run([]string{"plantscan", "--config", cfgPath, "latest"}); err != nil {
			t.Errorf("latest failed: %v", err)
		}
	})
	if strings.TrimSpace(out) != newer {
		t.Errorf("expected %s, got %q", newer, out)
	}
}

func TestApp_Latest_None(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	err := newApp().Run([]string{"plantscan", "--config", cfgPath, "latest"})
	if err == nil || !strings.Contains(err.Error(), pipeline.ErrNotFound.Error()) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestApp_Detect_RequiresInput(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())

	err := newApp().Run([]string{"plantscan", "--config", cfgPath, "detect", "--plant-type", "tomato"})
	if err == nil || !strings.Contains(err.Error(), "Video argument is required") {
		t.Errorf("expected missing input error, got %v", err)
	}
}

func TestApp_Detect_RequiresAPIKey(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir())
	t.Setenv(config.EnvAPIKey, "")

	err := newApp().Run([]string{"plantscan", "--config", cfgPath, "detect", "--plant-type", "tomato", "field.mp4"})
	if err == nil || !strings.Contains(err.Error(), "api key") {
		t.Errorf("expected API key error, got %v", err)
	}
}

func TestBuildSummary(t *testing.T) {
	cfg := config.Defaults()
	result := orchestrator.RunResult{
		RunID:         "run-1",
		PlantType:     "tomato",
		OutputPath:    "out.mp4",
		Width:         640,
		Height:        480,
		FPS:           25,
		TotalFrames:   100,
		FramesWritten: 50,
		SampledFrames: 10,
		UniqueFrames:  10,
		Detections:    1,
		Report:        []pipeline.ReportEntry{{Frame: 0, Disease: "Leaf_Mold", PlantType: "tomato", PlantPart: "leaf"}},
	}

	s := buildSummary(&app{cfg: cfg}, result)

	if s.Settings.Model != "tomato-disease-b518h/3" {
		t.Errorf("unexpected model %q", s.Settings.Model)
	}
	if s.Settings.Stride != 5 || s.Settings.MaxFrames != 50 {
		t.Errorf("unexpected sampling %+v", s.Settings)
	}
	if s.Video.Width != 640 || s.Processing.FramesWritten != 50 {
		t.Errorf("counters not carried over: %+v %+v", s.Video, s.Processing)
	}
	if len(s.DiseaseCounts()) != 1 {
		t.Errorf("expected one disease, got %v", s.DiseaseCounts())
	}
}
