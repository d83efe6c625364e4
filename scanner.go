package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// VideoFile is a candidate episode file found in one of the watched
// directories.
type VideoFile struct {
	Path      Path
	FileName  string
	Extension string
	SizeMB    float64
}

type VideoScanner struct {
	allowedExtensions map[string]bool
	minSizeMB         float64
	skipRoots         map[string]bool
}

func NewVideoScanner(extensions []string, minSizeMB int) *VideoScanner {
	if len(extensions) == 0 {
		extensions = defaultVideoExtensions
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &VideoScanner{
		allowedExtensions: allowed,
		minSizeMB:         float64(minSizeMB),
		skipRoots:         map[string]bool{},
	}
}

// SetSkipRoots marks download roots that must not be scanned this round,
// typically torrents that are still incomplete.
func (s *VideoScanner) SetSkipRoots(roots []Path) {
	s.skipRoots = make(map[string]bool, len(roots))
	for _, root := range roots {
		s.skipRoots[string(root)] = true
	}
}

func (s *VideoScanner) Scan(root Path) ([]VideoFile, error) {
	var files []VideoFile

	err := filepath.WalkDir(string(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			Log("scan error:", path, err)
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != string(root) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if s.skipRoots[path] {
				Log("skipping incomplete download:", path)
				return filepath.SkipDir
			}
			return nil
		}
		if s.skipRoots[path] {
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if !s.allowedExtensions[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		sizeMB := float64(info.Size()) / (1024 * 1024)
		if sizeMB < s.minSizeMB {
			return nil
		}
		if !isFileReady(path) {
			Log("file is busy, skipping:", path)
			return nil
		}

		files = append(files, VideoFile{
			Path:      Path(path),
			FileName:  name,
			Extension: ext,
			SizeMB:    sizeMB,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// isFileReady probes whether the file is still being written to by
// opening it for append.
func isFileReady(path string) bool {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
