package main

import "testing"

func TestComputeSimilarityScore(t *testing.T) {
	if score := computeSimilarityScore("Spy x Family", "Spy x Family", false); score != 100 {
		t.Errorf("identical titles scored %d", score)
	}
	if score := computeSimilarityScore("SPY×FAMILY", "spy family", false); score < minAcceptScore {
		t.Errorf("case/punctuation variants scored %d", score)
	}
	if score := computeSimilarityScore("Frieren", "One Piece", false); score >= minAcceptScore {
		t.Errorf("unrelated titles scored %d", score)
	}

	// the prefix-weighted metric should rank the closer candidate higher
	near := computeSimilarityScore("Sousou no Frieren", "Sousou no Frieren Beyond Journey's End", true)
	far := computeSimilarityScore("Sousou no Frieren", "Solo Leveling", true)
	if near <= far {
		t.Errorf("ranking inverted: near=%d far=%d", near, far)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Re:Zero", "Re Zero"},
		{"Fate/Zero", "Fate Zero"},
		{"Oshi no Ko", "Oshi no Ko"},
		{"What? Really*", "What Really"},
	}
	for _, tc := range cases {
		if got := sanitizeFileName(tc.in); got != tc.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReplaceInvalidFilenameChars(t *testing.T) {
	got := ReplaceInvalidFilenameChars("https://api.themoviedb.org/3/search/tv?api_key=abc123&query=frieren")
	if got != "tmdb_3_search_tv_query_frieren" {
		t.Errorf("got %q", got)
	}
}

func TestCoalesce(t *testing.T) {
	if Coalesce("", "fallback") != "fallback" {
		t.Error("empty first string should yield the second")
	}
	if Coalesce("primary", "fallback") != "primary" {
		t.Error("non-empty first string should win")
	}
}
