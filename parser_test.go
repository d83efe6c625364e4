package main

import (
	"reflect"
	"sync"
	"testing"
)

func TestParseAnimeFileName(t *testing.T) {
	cases := []struct {
		filename string
		title    string
		season   int
		episode  int
	}{
		{"[Group][Spy x Family][S2][05]", "Spy x Family", 2, 5},
		{"[Group] Mushoku Tensei - S2 - 12v2", "Mushoku Tensei", 2, 12},
		{"Frieren.S01E28", "Frieren", 1, 28},
		{"One Piece Season 3 (2025) - 1089", "One Piece", 3, 1089},
		{"RandomName 07.mkv", "RandomName", 1, 7},
		{"RandomName 07", "RandomName", 1, 7},

		{"[SubsPlease] Sousou no Frieren - 17 (1080p) [ABCD1234]", "Sousou no Frieren", 1, 17},
		{"[Erai-raws] Oshi no Ko - 12.5 [1080p]", "Oshi no Ko", 1, 12},
		{"Kingdom 3rd Season S01E05", "Kingdom", 3, 5},
		{"[Grp][Bocchi the Rock][08]", "Bocchi the Rock", 1, 8},
		{"[Grp][Gintama][Season 2][15]", "Gintama", 2, 15},
		{"[Grp][Tensura][part 2][38]", "Tensura", 2, 38},
		{"【Group】【Spy x Family】【S2】【05】", "Spy x Family", 2, 5},
		{"进击的巨人_Attack on Titan - 05", "Attack on Titan", 1, 5},
		{"Attack on Titan_进击的巨人 - 05", "Attack on Titan", 1, 5},
	}

	for _, tc := range cases {
		meta, ok := ParseAnimeFileName(tc.filename)
		if !ok {
			t.Errorf("%q: expected a match", tc.filename)
			continue
		}
		if meta.Title != tc.title {
			t.Errorf("%q: title = %q, want %q", tc.filename, meta.Title, tc.title)
		}
		if meta.Season != tc.season {
			t.Errorf("%q: season = %d, want %d", tc.filename, meta.Season, tc.season)
		}
		if meta.Episode != tc.episode {
			t.Errorf("%q: episode = %d, want %d", tc.filename, meta.Episode, tc.episode)
		}
	}
}

func TestParseAnimeFileNameNoMatch(t *testing.T) {
	inputs := []string{
		"completely_unstructured_blob",
		"",
		"....",
		"no numbers here at all",
	}
	for _, input := range inputs {
		if meta, ok := ParseAnimeFileName(input); ok {
			t.Errorf("%q: unexpected match %+v", input, meta)
		}
	}
}

func TestParseAnimeFileNameIdempotent(t *testing.T) {
	input := "[Group] Mushoku Tensei - S2 - 12v2"
	first, ok1 := ParseAnimeFileName(input)
	second, ok2 := ParseAnimeFileName(input)
	if ok1 != ok2 || !reflect.DeepEqual(first, second) {
		t.Errorf("parse is not idempotent: %+v vs %+v", first, second)
	}
}

func TestParseAnimeFileNameConcurrent(t *testing.T) {
	// the engine keeps no state between calls, parallel use must be safe
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				meta, ok := ParseAnimeFileName("Frieren.S01E28")
				if !ok || meta.Title != "Frieren" || meta.Episode != 28 {
					t.Errorf("concurrent parse produced %+v", meta)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSeasonDefaultsToOne(t *testing.T) {
	meta, ok := ParseAnimeFileName("[SubsPlease] Dandadan - 04 (1080p)")
	if !ok {
		t.Fatal("expected a match")
	}
	if meta.Season != 1 {
		t.Errorf("season = %d, want 1", meta.Season)
	}
}

func TestExplicitSeasonOneOverriddenByTitleText(t *testing.T) {
	// an S1 capture is indistinguishable from "no season yet", so a
	// season phrase inside the title still wins
	meta, ok := ParseAnimeFileName("Kingdom 3rd Season S01E05")
	if !ok {
		t.Fatal("expected a match")
	}
	if meta.Season != 3 {
		t.Errorf("season = %d, want 3", meta.Season)
	}
}

func TestExplicitSeasonAboveOneKept(t *testing.T) {
	meta, ok := ParseAnimeFileName("Kingdom 3rd Season S02E05")
	if !ok {
		t.Fatal("expected a match")
	}
	if meta.Season != 2 {
		t.Errorf("season = %d, want 2", meta.Season)
	}
}

func TestFractionalEpisodeTruncates(t *testing.T) {
	meta, ok := ParseAnimeFileName("[Erai-raws] Oshi no Ko - 12.5 [1080p]")
	if !ok {
		t.Fatal("expected a match")
	}
	if meta.Episode != 12 {
		t.Errorf("episode = %d, want 12", meta.Episode)
	}
}

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"[Group] Spy x Family", "Spy x Family"},
		{"One Piece Season 3 (2025)", "One Piece"},
		{"Kingdom 3rd Season", "Kingdom"},
		{"Mushoku Tensei Part 2", "Mushoku Tensei"},
		{"进击的巨人_Attack on Titan", "Attack on Titan"},
		{"Attack on Titan_进击的巨人", "Attack on Titan"},
		{"  Frieren  ", "Frieren"},
	}
	for _, tc := range cases {
		if got := cleanTitle(tc.in); got != tc.want {
			t.Errorf("cleanTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSeasonFromText(t *testing.T) {
	cases := []struct {
		in     string
		season int
		found  bool
	}{
		{"One Piece Season 3", 3, true},
		{"Mushoku Tensei Part 2", 2, true},
		{"Overlord S4", 4, true},
		{"Kingdom 3rd Season", 3, true},
		{"Attack on Titan 2nd Season", 2, true},
		{"Frieren", 0, false},
	}
	for _, tc := range cases {
		season, found := seasonFromText(tc.in)
		if found != tc.found || (found && season != tc.season) {
			t.Errorf("seasonFromText(%q) = %d,%v, want %d,%v", tc.in, season, found, tc.season, tc.found)
		}
	}
}
