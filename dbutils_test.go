package main

import (
	"path/filepath"
	"testing"
)

func TestEpisodeBookkeeping(t *testing.T) {
	db, err := initializeDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	source := "/downloads/[SubsPlease] Frieren - 28.mkv"
	id, err := insertEpisode(db, source, 209867, 1, 28)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("no id returned")
	}

	// duplicate insert resolves to the same row
	again, err := insertEpisode(db, source, 209867, 1, 28)
	if err != nil {
		t.Fatal(err)
	}
	if again != id {
		t.Errorf("duplicate insert returned %d, want %d", again, id)
	}

	linked, err := isAlreadyLinked(db, source)
	if err != nil {
		t.Fatal(err)
	}
	if linked {
		t.Error("episode reported linked before any link exists")
	}

	link := "/library/Frieren (2023)/Season 01/Frieren - S01E28.mkv"
	if err := insertLink(db, id, link); err != nil {
		t.Fatal(err)
	}
	// repeated link insert is a no-op
	if err := insertLink(db, id, link); err != nil {
		t.Fatal(err)
	}

	linked, err = isAlreadyLinked(db, source)
	if err != nil {
		t.Fatal(err)
	}
	if !linked {
		t.Error("episode not reported linked")
	}
}

func TestDeleteMissingEpisodes(t *testing.T) {
	db, err := initializeDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	keepID, err := insertEpisode(db, "/downloads/keep.mkv", 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	goneID, err := insertEpisode(db, "/downloads/gone.mkv", 2, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := insertLink(db, goneID, "/library/gone.mkv"); err != nil {
		t.Fatal(err)
	}

	stale, err := deleteMissingEpisodes(db, []int64{keepID})
	if err != nil {
		t.Fatal(err)
	}
	if len(stale) != 1 || stale[0] != "/library/gone.mkv" {
		t.Errorf("stale links = %v, want the pruned episode's link", stale)
	}

	linked, err := isAlreadyLinked(db, "/downloads/gone.mkv")
	if err != nil {
		t.Fatal(err)
	}
	if linked {
		t.Error("pruned episode still reported linked")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM episodes").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("episodes remaining = %d, want 1", count)
	}
}
