package main

import (
	"os"
	"path/filepath"
	"strings"
)

// Path wraps a filesystem path string with the manipulation helpers the
// rest of the package leans on.
type Path string

func (p Path) appendingPathComponent(component string) Path {
	return Path(filepath.Join(string(p), component))
}

func (p Path) lastPathComponent() string {
	return filepath.Base(string(p))
}

func (p Path) removingLastPathComponent() Path {
	return Path(filepath.Dir(string(p)))
}

func (p Path) extension() string {
	return strings.TrimPrefix(filepath.Ext(string(p)), ".")
}

func (p Path) appendingPathExtension(ext string) Path {
	return Path(string(p) + "." + ext)
}

func (p Path) removingPathExtension() Path {
	ext := p.extension()
	if ext == "" {
		return p
	}
	return Path(strings.TrimSuffix(string(p), "."+ext))
}

// stem returns the file name without directory or extension, the form
// the parsing engine works on.
func (p Path) stem() string {
	return p.removingPathExtension().lastPathComponent()
}

func (p Path) isDirectory() bool {
	info, err := os.Stat(string(p))
	if err != nil {
		return false
	}
	return info.IsDir()
}

func (p Path) exists() bool {
	if _, err := os.Lstat(string(p)); err == nil {
		return true
	} else {
		return !os.IsNotExist(err)
	}
}

func (p Path) removeItem() error {
	if p.isDirectory() {
		return os.RemoveAll(string(p))
	}
	return os.Remove(string(p))
}

var defaultVideoExtensions = []string{"mp4", "mkv", "avi", "wmv", "mov", "m2ts", "ts", "webm", "flv"}

func (p Path) hasVideoExtension(extensions []string) bool {
	if strings.HasPrefix(p.lastPathComponent(), ".") {
		return false
	}
	ext := p.extension()
	for _, videoExt := range extensions {
		if strings.EqualFold(ext, videoExt) {
			return true
		}
	}
	return false
}
