package main

import (
	"fmt"
	"os"
	"syscall"
)

// Linker places episode files into the Kodi-style library tree:
//
//	Library/Show Name (2023)/Season 01/Show Name - S01E05.mkv
//
// Source files are never moved, only hardlinked (or symlinked when the
// library lives on another filesystem).
type Linker struct {
	libraryDir     Path
	createHardlink bool
}

func NewLinker(libraryDir Path, createHardlink bool) *Linker {
	return &Linker{libraryDir: libraryDir, createHardlink: createHardlink}
}

func (l *Linker) showDir(series *TMDbSeries) Path {
	name := sanitizeFileName(series.Name)
	if year := series.Year(); year != "" {
		name = fmt.Sprintf("%s (%s)", name, year)
	}
	return l.libraryDir.appendingPathComponent(name)
}

func (l *Linker) episodeLinkPath(series *TMDbSeries, meta AnimeMeta, extension string) Path {
	seasonDir := l.showDir(series).appendingPathComponent(fmt.Sprintf("Season %02d", meta.Season))
	fileName := fmt.Sprintf("%s - S%02dE%02d.%s", sanitizeFileName(series.Name), meta.Season, meta.Episode, extension)
	return seasonDir.appendingPathComponent(fileName)
}

// Link places the file into the library and returns the link path. An
// existing link for the same episode is left untouched.
func (l *Linker) Link(file VideoFile, series *TMDbSeries, meta AnimeMeta) (Path, error) {
	linkPath := l.episodeLinkPath(series, meta, file.Extension)
	if linkPath.exists() {
		return linkPath, nil
	}

	if err := os.MkdirAll(string(linkPath.removingLastPathComponent()), 0755); err != nil {
		return "", err
	}

	if l.createHardlink {
		err := os.Link(string(file.Path), string(linkPath))
		if err == nil {
			Log("🔗", file.Path, "->", linkPath)
			return linkPath, nil
		}
		// Hardlinks fail across filesystems, fall back to a symlink
		Log("hardlink failed, using symlink:", err)
	}

	if err := os.Symlink(string(file.Path), string(linkPath)); err != nil {
		return "", err
	}
	Log("🔗", file.Path, "->", linkPath)
	return linkPath, nil
}

// sameDevice reports whether two paths live on the same filesystem, the
// precondition for hardlinks.
func sameDevice(a, b Path) bool {
	infoA, err := os.Stat(string(a))
	if err != nil {
		return false
	}
	infoB, err := os.Stat(string(b))
	if err != nil {
		return false
	}
	statA, okA := infoA.Sys().(*syscall.Stat_t)
	statB, okB := infoB.Sys().(*syscall.Stat_t)
	if !okA || !okB {
		return false
	}
	return statA.Dev == statB.Dev
}
