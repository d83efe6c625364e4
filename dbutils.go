package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

func openDB(dbPath string) (*sql.DB, error) {
	// Open or create the SQLite database
	return sql.Open("sqlite3", dbPath)
}

func initializeDB(dbPath string) (*sql.DB, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Ensure the necessary tables are created
	err = createSQLiteTables(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createSQLiteTables(db *sql.DB) error {
	// Create episodes table: one row per source file that has been linked
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS episodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sourcePath TEXT NOT NULL COLLATE NOCASE UNIQUE,
		tmdbId INTEGER,
		season INTEGER,
		episode INTEGER,
		CONSTRAINT idx_source_path UNIQUE (sourcePath)
	);`)
	if err != nil {
		return err
	}

	// Create links table
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		episodeId INTEGER,
		linkPath TEXT COLLATE NOCASE NOT NULL,
		FOREIGN KEY (episodeId) REFERENCES episodes(id)
	);`)
	if err != nil {
		return err
	}

	return nil
}

func insertEpisode(db *sql.DB, sourcePath string, tmdbID, season, episode int) (int64, error) {
	var lastInsertID int64
	err := db.QueryRow("INSERT OR IGNORE INTO episodes (sourcePath, tmdbId, season, episode) VALUES (?, ?, ?, ?) RETURNING id",
		sourcePath, tmdbID, season, episode).Scan(&lastInsertID)
	if err == nil {
		Logf("recorded %s", sourcePath)
	} else {
		if err == sql.ErrNoRows {
			// No rows were inserted, perform the SELECT query to get the existing ID
			err = db.QueryRow("SELECT id FROM episodes WHERE sourcePath = ?", sourcePath).Scan(&lastInsertID)
			if err != nil {
				return 0, err
			}
		} else {
			return 0, err
		}
	}

	return lastInsertID, nil
}

func insertLink(db *sql.DB, episodeID int64, linkPath string) error {
	var existing int64
	err := db.QueryRow("SELECT id FROM links WHERE episodeId = ? AND linkPath = ?", episodeID, linkPath).Scan(&existing)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	_, err = db.Exec("INSERT INTO links (episodeId, linkPath) VALUES (?, ?)", episodeID, linkPath)
	return err
}

func isAlreadyLinked(db *sql.DB, sourcePath string) (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM links
		JOIN episodes ON episodes.id = links.episodeId
		WHERE episodes.sourcePath = ?`, sourcePath).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// deleteMissingEpisodes drops records whose source file disappeared and
// returns the link paths that pointed at them, so the caller can clear
// the dead links from the library.
func deleteMissingEpisodes(db *sql.DB, seenIDs []int64) ([]string, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Create a temporary table to hold seen IDs
	_, err = tx.Exec("CREATE TEMPORARY TABLE temp_seen_ids (id INTEGER PRIMARY KEY)")
	if err != nil {
		return nil, err
	}

	stmt, err := tx.Prepare("INSERT INTO temp_seen_ids (id) VALUES (?)")
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	for _, id := range seenIDs {
		_, err = stmt.Exec(id)
		if err != nil {
			return nil, err
		}
	}

	rows, err := tx.Query("SELECT linkPath FROM links WHERE episodeId NOT IN (SELECT id FROM temp_seen_ids)")
	if err != nil {
		return nil, err
	}
	var stale []string
	for rows.Next() {
		var linkPath string
		if err := rows.Scan(&linkPath); err != nil {
			rows.Close()
			return nil, err
		}
		stale = append(stale, linkPath)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Delete episodes that disappeared from the source dirs and their links
	_, err = tx.Exec("DELETE FROM episodes WHERE id NOT IN (SELECT id FROM temp_seen_ids)")
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec("DELETE FROM links WHERE episodeId NOT IN (SELECT id FROM temp_seen_ids)")
	if err != nil {
		return nil, err
	}

	return stale, tx.Commit()
}
