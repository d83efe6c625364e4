package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// AnimeSync wires the whole pipeline together: scan the download
// directories, resolve every episode file against TMDb and link it into
// the library.
type AnimeSync struct {
	config   Config
	db       *sql.DB
	tmdbAPI  *TMDbAPI
	mapping  *TitleMapping
	seasonal *SeasonalIndex
	scanner  *VideoScanner
	linker   *Linker
	trans    *TransmissionClient

	mu        sync.Mutex
	unmatched []string

	// shows whose library-level metadata was already handled this round
	processedShows map[int]bool
}

func NewAnimeSync(config Config, db *sql.DB, mapping *TitleMapping, seasonal *SeasonalIndex) *AnimeSync {
	s := &AnimeSync{
		config:   config,
		db:       db,
		tmdbAPI:  NewTMDbAPI(config.TMDbApiKey, config.Language),
		mapping:  mapping,
		seasonal: seasonal,
		scanner:  NewVideoScanner(config.Scanner.VideoExtensions, config.Scanner.MinFileSizeMB),
		linker:   NewLinker(config.Output.LibraryDir, config.Output.CreateHardlink),
	}
	if config.Transmission.Rpc != "" {
		trans, err := NewTransmissionClient(config.Transmission.Rpc)
		if err != nil {
			Log("❌ transmission unavailable:", err)
		} else {
			s.trans = trans
		}
	}
	return s
}

// Unmatched returns the files the latest round could not identify.
func (s *AnimeSync) Unmatched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.unmatched))
	copy(out, s.unmatched)
	return out
}

func (s *AnimeSync) noteUnmatched(fileName string) {
	s.mu.Lock()
	s.unmatched = append(s.unmatched, fileName)
	s.mu.Unlock()
}

// RunRound processes every watched directory once.
func (s *AnimeSync) RunRound(ctx context.Context) error {
	s.mu.Lock()
	s.unmatched = nil
	s.mu.Unlock()
	s.processedShows = map[int]bool{}

	if s.trans != nil {
		roots, err := s.trans.IncompleteRoots(ctx)
		if err != nil {
			Log("❌ could not query transmission:", err)
		} else {
			s.scanner.SetSkipRoots(roots)
		}
	}

	if err := s.seasonal.Refresh(s.tmdbAPI); err != nil {
		Log("❌ seasonal refresh failed:", err)
	}

	var seenIDs []int64
	for _, dir := range s.config.Directories {
		if !dir.exists() {
			Log("⏏️ directory not available:", dir)
			continue
		}
		Log("🍋 scanning", dir)

		files, err := s.scanner.Scan(dir)
		if err != nil {
			return err
		}
		for _, file := range files {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			episodeID, err := s.processFile(file)
			if err != nil {
				Log("❌", file.FileName, err)
				s.noteUnmatched(file.FileName)
				continue
			}
			if episodeID != 0 {
				seenIDs = append(seenIDs, episodeID)
			}
		}
	}

	if len(seenIDs) > 0 {
		stale, err := deleteMissingEpisodes(s.db, seenIDs)
		if err != nil {
			Log("❌ pruning stale records:", err)
		}
		for _, link := range stale {
			Log("🪓 removing orphaned link:", link)
			if err := Path(link).removeItem(); err != nil {
				Log("❌", err)
			}
		}
	}

	// Keep search results fresh between rounds
	s.tmdbAPI.ClearCache()
	return nil
}

// processFile takes one video file through parse, resolve and link.
func (s *AnimeSync) processFile(file VideoFile) (int64, error) {
	linked, err := isAlreadyLinked(s.db, string(file.Path))
	if err != nil {
		return 0, err
	}

	meta, ok := ParseAnimeFileName(file.Path.stem())
	if !ok {
		if s.config.OpenAiApiKey == "" {
			Log("🤷 could not parse:", file.FileName)
			s.noteUnmatched(file.FileName)
			return 0, nil
		}
		meta, err = promptAiForAnimeMeta(file.FileName, s.config.OpenAiApiKey)
		if err != nil {
			Log("🤷 could not parse:", file.FileName, err)
			s.noteUnmatched(file.FileName)
			return 0, nil
		}
	}

	override, hasOverride := s.mapping.ApplyOverrides(&meta)

	if linked {
		// Source already in the library, just keep the record alive
		id, err := insertEpisode(s.db, string(file.Path), 0, meta.Season, meta.Episode)
		return id, err
	}

	series, err := s.resolveSeries(meta, override, hasOverride)
	if err != nil {
		return 0, err
	}
	Log("✅", meta.Title, "->", series.Name, fmt.Sprintf("S%02dE%02d", meta.Season, meta.Episode))

	linkPath, err := s.linker.Link(file, series, meta)
	if err != nil {
		return 0, err
	}

	if s.config.Output.GenerateNfo {
		s.writeMetadata(series, meta, linkPath)
	}

	episodeID, err := insertEpisode(s.db, string(file.Path), series.ID, meta.Season, meta.Episode)
	if err != nil {
		return 0, err
	}
	if err := insertLink(s.db, episodeID, string(linkPath)); err != nil {
		return 0, err
	}
	return episodeID, nil
}

// resolveSeries maps a parsed title to a TMDb series: explicit mapping
// first, then the airing-season index, then ranked search, then the
// IMDb scrape as a last resort.
func (s *AnimeSync) resolveSeries(meta AnimeMeta, override MappingEntry, hasOverride bool) (*TMDbSeries, error) {
	if hasOverride && override.TmdbID != 0 {
		return s.tmdbAPI.GetSeriesByID(override.TmdbID)
	}

	if series, ok := s.seasonal.Match(meta.Title); ok {
		Log("📺 matched airing series:", series.Name)
		return series, nil
	}

	series, err := s.tmdbAPI.FindShow(meta.Title)
	if err == nil {
		return series, nil
	}

	series, imdbErr := FindShowViaIMDb(s.tmdbAPI, meta.Title)
	if imdbErr == nil {
		return series, nil
	}
	return nil, err
}

// firstSightOfShow reports whether the series has not yet come up this
// round, so show-level work runs once per series per round.
func (s *AnimeSync) firstSightOfShow(seriesID int) bool {
	if s.processedShows == nil {
		s.processedShows = map[int]bool{}
	}
	if s.processedShows[seriesID] {
		return false
	}
	s.processedShows[seriesID] = true
	return true
}

func (s *AnimeSync) writeMetadata(series *TMDbSeries, meta AnimeMeta, linkPath Path) {
	showDir := s.linker.showDir(series)
	showNfo := showDir.appendingPathComponent("tvshow.nfo")
	if s.firstSightOfShow(series.ID) && !showNfo.exists() {
		details, err := s.tmdbAPI.GetSeriesDetails(series.ID)
		if err != nil {
			Log("❌ series details:", err)
			details = nil
		}
		if err := writeTVShowNfo(series, details, showNfo); err != nil {
			Log("❌", err)
		}
		if s.config.Output.DownloadImages {
			downloadShowImages(series, showDir)
		}
	}

	episodeNfo := linkPath.removingPathExtension().appendingPathExtension("nfo")
	if episodeNfo.exists() {
		return
	}
	episode, err := s.tmdbAPI.GetEpisodeDetails(series.ID, meta.Season, meta.Episode)
	if err != nil {
		Log("❌ episode details:", err)
		return
	}
	if err := writeEpisodeNfo(episode, episodeNfo); err != nil {
		Log("❌", err)
	}
	if s.config.Output.DownloadImages {
		downloadEpisodeStill(episode, linkPath)
	}
}
