package summarizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/user/plantscan/pkg/mocks"
)

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(s *Summary) string { return "plant: " + s.Run.PlantType }), fs)

	if err := w.Write("reports/run.md", &Summary{Run: RunInfo{PlantType: "potato"}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := fs.ReadFile("reports/run.md")
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	if string(data) != "plant: potato" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestWriter_Write_Error(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("read-only")
	}
	w := NewWriter(NewMarkdownFormatter(), fs)

	err := w.Write("run.md", NewSummary())
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Errorf("expected write error, got %v", err)
	}
}
