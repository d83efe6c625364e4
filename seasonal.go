package main

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
)

// SeasonalIndex caches the currently airing anime season from TMDb
// discover so most lookups never hit the search endpoint at all.
type SeasonalIndex struct {
	path Path

	mu      sync.RWMutex
	Fetched time.Time    `json:"fetched"`
	Series  []TMDbSeries `json:"series"`
}

const seasonalRefreshInterval = 24 * time.Hour

// seasonalMaxPages caps the discover walk; two pages comfortably cover
// one broadcast season.
const seasonalMaxPages = 2

func LoadSeasonalIndex(path Path) *SeasonalIndex {
	index := &SeasonalIndex{path: path}

	data, err := os.ReadFile(string(path))
	if err == nil {
		if err := json.Unmarshal(data, index); err != nil {
			Log("seasonal cache unreadable, starting fresh:", err)
		}
	}
	return index
}

// Refresh pulls the airing-season pages from TMDb when the cache is
// stale. Errors leave the previous snapshot in place.
func (s *SeasonalIndex) Refresh(api *TMDbAPI) error {
	s.mu.RLock()
	fresh := time.Since(s.Fetched) < seasonalRefreshInterval && len(s.Series) > 0
	s.mu.RUnlock()
	if fresh {
		return nil
	}
	return s.fetch(api)
}

// ForceRefresh bypasses the staleness check.
func (s *SeasonalIndex) ForceRefresh(api *TMDbAPI) error {
	return s.fetch(api)
}

func (s *SeasonalIndex) fetch(api *TMDbAPI) error {
	all, err := collectSeasonalPages(api.GetCurrentSeasonAnime)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Series = all
	s.Fetched = time.Now()
	s.mu.Unlock()
	Logf("seasonal index refreshed, %d airing series", len(all))
	return s.save()
}

func collectSeasonalPages(fetchPage func(page int) (TMDbTVSearchResults, error)) ([]TMDbSeries, error) {
	var all []TMDbSeries
	for page := 1; page <= seasonalMaxPages; page++ {
		results, err := fetchPage(page)
		if err != nil {
			return nil, err
		}
		all = append(all, results.Results...)
		if page >= results.TotalPages {
			break
		}
	}
	return all, nil
}

// Match looks for an airing series whose name is close to the parsed
// title, using edit distance relative to the title length.
func (s *SeasonalIndex) Match(title string) (*TMDbSeries, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	folded := strings.ToLower(title)
	best := -1
	bestDistance := len(folded)/4 + 1
	for i, series := range s.Series {
		for _, name := range []string{series.Name, series.OriginalName} {
			if name == "" {
				continue
			}
			d := levenshtein.ComputeDistance(folded, strings.ToLower(name))
			if d < bestDistance {
				bestDistance = d
				best = i
			}
		}
	}
	if best < 0 {
		return nil, false
	}
	return &s.Series[best], true
}

func (s *SeasonalIndex) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(string(s.path), data, 0644)
}
