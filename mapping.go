package main

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// MappingEntry overrides the parsed metadata for a known troublesome
// release title.
type MappingEntry struct {
	Title   string `json:"title,omitempty"`
	TmdbID  int    `json:"tmdb_id,omitempty"`
	Season  int    `json:"season,omitempty"`
	Episode int    `json:"episode,omitempty"`
}

// TitleMapping is the user-maintained override table. Keys are either
// a raw file name stem, for corrections scoped to a single release, or
// a parsed title, for show-level corrections. Title lookups tolerate
// small spelling differences between release groups.
type TitleMapping struct {
	path    Path
	mu      sync.RWMutex
	entries map[string]MappingEntry
}

func LoadTitleMapping(path Path) (*TitleMapping, error) {
	mapping := &TitleMapping{path: path, entries: map[string]MappingEntry{}}

	data, err := os.ReadFile(string(path))
	if os.IsNotExist(err) {
		return mapping, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &mapping.entries); err != nil {
		return nil, err
	}
	Logf("loaded %d title mappings from %s", len(mapping.entries), path)
	return mapping, nil
}

// maxMappingDistance bounds the edit distance for fuzzy key matches.
const maxMappingDistance = 2

func (m *TitleMapping) Lookup(title string) (MappingEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if entry, ok := m.lookupExact(title); ok {
		return entry, true
	}
	folded := strings.ToLower(title)
	for key, entry := range m.entries {
		if levenshtein.ComputeDistance(folded, strings.ToLower(key)) <= maxMappingDistance {
			return entry, true
		}
	}
	return MappingEntry{}, false
}

// LookupFile resolves a raw file name key. Sibling episodes of one
// release differ by a single digit, so file keys never match fuzzily.
func (m *TitleMapping) LookupFile(name string) (MappingEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookupExact(name)
}

func (m *TitleMapping) lookupExact(key string) (MappingEntry, bool) {
	if entry, ok := m.entries[key]; ok {
		return entry, true
	}
	folded := strings.ToLower(key)
	for k, entry := range m.entries {
		if strings.ToLower(k) == folded {
			return entry, true
		}
	}
	return MappingEntry{}, false
}

// ApplyOverrides rewrites parsed metadata from the override table. The
// raw file name is tried first and is the only key that may carry an
// episode correction; a title-keyed entry applies show-level fields to
// every file of that show.
func (m *TitleMapping) ApplyOverrides(meta *AnimeMeta) (MappingEntry, bool) {
	entry, ok := m.LookupFile(meta.RawFilename)
	if !ok {
		entry, ok = m.Lookup(meta.Title)
		entry.Episode = 0
	}
	if !ok {
		return MappingEntry{}, false
	}
	if entry.Title != "" {
		meta.Title = entry.Title
	}
	if entry.Season > 0 {
		meta.Season = entry.Season
	}
	if entry.Episode > 0 {
		meta.Episode = entry.Episode
	}
	return entry, true
}

// Add records a new override and persists the table.
func (m *TitleMapping) Add(title string, entry MappingEntry) error {
	m.mu.Lock()
	m.entries[title] = entry
	m.mu.Unlock()
	return m.save()
}

func (m *TitleMapping) Remove(title string) error {
	m.mu.Lock()
	delete(m.entries, title)
	m.mu.Unlock()
	return m.save()
}

func (m *TitleMapping) Entries() map[string]MappingEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]MappingEntry, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

func (m *TitleMapping) save() error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m.entries, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(string(m.path), data, 0644)
}
