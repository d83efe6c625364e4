package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScannerFiltersByExtension(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "Frieren - 01.mkv"), 64)
	writeTestFile(t, filepath.Join(root, "Frieren - 01.srt"), 64)
	writeTestFile(t, filepath.Join(root, "notes.txt"), 64)

	scanner := NewVideoScanner([]string{"mkv", "mp4"}, 0)
	files, err := scanner.Scan(Path(root))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].FileName != "Frieren - 01.mkv" {
		t.Errorf("got %+v", files)
	}
	if files[0].Extension != "mkv" {
		t.Errorf("extension = %q", files[0].Extension)
	}
}

func TestScannerSkipsSmallFiles(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "sample.mkv"), 1024)
	writeTestFile(t, filepath.Join(root, "episode.mkv"), 2*1024*1024)

	scanner := NewVideoScanner([]string{"mkv"}, 1)
	files, err := scanner.Scan(Path(root))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].FileName != "episode.mkv" {
		t.Errorf("got %+v", files)
	}
}

func TestScannerSkipsDotDirsAndFiles(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, ".hidden", "Frieren - 01.mkv"), 64)
	writeTestFile(t, filepath.Join(root, ".Frieren - 01.mkv"), 64)
	writeTestFile(t, filepath.Join(root, "shows", "Frieren - 01.mkv"), 64)

	scanner := NewVideoScanner([]string{"mkv"}, 0)
	files, err := scanner.Scan(Path(root))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if files[0].Path != Path(filepath.Join(root, "shows", "Frieren - 01.mkv")) {
		t.Errorf("got %s", files[0].Path)
	}
}

func TestScannerSkipRoots(t *testing.T) {
	root := t.TempDir()
	downloading := filepath.Join(root, "Still Downloading")
	writeTestFile(t, filepath.Join(downloading, "Episode - 01.mkv"), 64)
	writeTestFile(t, filepath.Join(root, "Done - 01.mkv"), 64)

	scanner := NewVideoScanner([]string{"mkv"}, 0)
	scanner.SetSkipRoots([]Path{Path(downloading)})
	files, err := scanner.Scan(Path(root))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].FileName != "Done - 01.mkv" {
		t.Errorf("got %+v", files)
	}
}

func TestScannerDefaultExtensions(t *testing.T) {
	scanner := NewVideoScanner(nil, 0)
	for _, ext := range []string{"mkv", "mp4", "avi"} {
		if !scanner.allowedExtensions[ext] {
			t.Errorf("default extension %q not allowed", ext)
		}
	}
}
