package osfilesystem

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "uploads", "nested", "input.mp4")

	if err := fs.WriteFile(path, []byte("video")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "video" {
		t.Errorf("expected %q, got %q", "video", data)
	}
}

func TestFileSystem_Create(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "processed_videos", "out.mp4")

	w, err := fs.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := io.WriteString(w, "abc"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	info, err := fs.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size != 3 || info.Name != "out.mp4" || info.IsDir {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestFileSystem_Exists(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	exists, err := fs.Exists(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected missing file to not exist")
	}

	exists, err = fs.Exists(dir)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected temp dir to exist")
	}
}

func TestFileSystem_List(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	for _, name := range []string{"b.mp4", "a.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := fs.MkdirAll(filepath.Join(dir, "sub")); err != nil {
		t.Fatal(err)
	}

	entries, err := fs.List(dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	if entries[0].Path != filepath.Join(dir, "a.mp4") {
		t.Errorf("unexpected path %s", entries[0].Path)
	}
	if !entries[2].IsDir {
		t.Error("expected sub to be a directory")
	}
}

func TestFileSystem_List_MissingDir(t *testing.T) {
	fs := New()

	if _, err := fs.List(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error listing a missing directory")
	}
}

func TestFileSystem_Remove(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "gone.txt")

	if err := fs.WriteFile(path, []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if exists, _ := fs.Exists(path); exists {
		t.Error("expected file to be removed")
	}
}
