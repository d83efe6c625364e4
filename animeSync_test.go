package main

import "testing"

func TestFirstSightOfShowDedupsWithinRound(t *testing.T) {
	s := &AnimeSync{}

	if !s.firstSightOfShow(209867) {
		t.Error("first occurrence should report fresh")
	}
	if s.firstSightOfShow(209867) {
		t.Error("repeat occurrence should be deduped")
	}
	if !s.firstSightOfShow(82804) {
		t.Error("different series should report fresh")
	}

	// RunRound starts each round with a clean slate
	s.processedShows = map[int]bool{}
	if !s.firstSightOfShow(209867) {
		t.Error("series from a previous round should be fresh again")
	}
}
