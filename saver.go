package main

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
)

// writeTVShowNfo writes the Kodi-style tvshow.nfo next to the show's
// episode links. Written once per show directory.
func writeTVShowNfo(series *TMDbSeries, details *TMDbSeriesDetails, nfoPath Path) error {
	Log("Writing TVShow Nfo to", nfoPath)
	// Create or truncate the .nfo file
	file, err := os.Create(string(nfoPath))
	if err != nil {
		return err
	}
	defer file.Close()

	writeTVShowNfoXML(file, series, details)

	return nil
}

func writeTVShowNfoXML(w io.Writer, series *TMDbSeries, details *TMDbSeriesDetails) {
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")

	enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "tvshow"}})

	enc.EncodeElement(series.Name, xml.StartElement{Name: xml.Name{Local: "title"}})
	enc.EncodeElement(strconv.Itoa(series.ID), xml.StartElement{Name: xml.Name{Local: "uniqueid"}, Attr: []xml.Attr{{Name: xml.Name{Local: "type"}, Value: "tmdb"}, {Name: xml.Name{Local: "default"}, Value: "true"}}})
	if series.OriginalName != "" && series.OriginalName != series.Name {
		enc.EncodeElement(series.OriginalName, xml.StartElement{Name: xml.Name{Local: "originaltitle"}})
	}
	if series.Overview != "" {
		enc.EncodeElement(series.Overview, xml.StartElement{Name: xml.Name{Local: "plot"}})
	}
	if year := series.Year(); year != "" {
		enc.EncodeElement(year, xml.StartElement{Name: xml.Name{Local: "year"}})
	}
	if details != nil {
		for _, genre := range details.Genres {
			enc.EncodeElement(genre.Name, xml.StartElement{Name: xml.Name{Local: "genre"}})
		}
	}
	enc.EncodeElement(series.Url(), xml.StartElement{Name: xml.Name{Local: "tmdburl"}})

	enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "tvshow"}})
	enc.Flush()
}

// writeEpisodeNfo writes the per-episode nfo next to the episode link,
// same base name with the .nfo extension.
func writeEpisodeNfo(episode *TMDbEpisode, nfoPath Path) error {
	Log("Writing Episode Nfo to", nfoPath)
	file, err := os.Create(string(nfoPath))
	if err != nil {
		return err
	}
	defer file.Close()

	writeEpisodeNfoXML(file, episode)

	return nil
}

func writeEpisodeNfoXML(w io.Writer, episode *TMDbEpisode) {
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")

	enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "episodedetails"}})

	enc.EncodeElement(episode.Name, xml.StartElement{Name: xml.Name{Local: "title"}})
	enc.EncodeElement(strconv.Itoa(episode.SeasonNumber), xml.StartElement{Name: xml.Name{Local: "season"}})
	enc.EncodeElement(strconv.Itoa(episode.EpisodeNumber), xml.StartElement{Name: xml.Name{Local: "episode"}})
	if episode.Overview != "" {
		enc.EncodeElement(episode.Overview, xml.StartElement{Name: xml.Name{Local: "plot"}})
	}
	if episode.AirDate != "" {
		enc.EncodeElement(episode.AirDate, xml.StartElement{Name: xml.Name{Local: "aired"}})
	}

	enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "episodedetails"}})
	enc.Flush()
}

// downloadShowImages pulls the poster and backdrop into the show
// directory unless they are already there.
func downloadShowImages(series *TMDbSeries, showDir Path) {
	poster := showDir.appendingPathComponent("poster.jpg")
	if posterURL := series.PosterURL(); posterURL != "" && !poster.exists() {
		if err := downloadFile(posterURL, poster); err != nil {
			Log("poster download failed:", err)
		}
	}
	fanart := showDir.appendingPathComponent("fanart.jpg")
	if backdropURL := series.BackdropURL(); backdropURL != "" && !fanart.exists() {
		if err := downloadFile(backdropURL, fanart); err != nil {
			Log("fanart download failed:", err)
		}
	}
}

func downloadEpisodeStill(episode *TMDbEpisode, linkPath Path) {
	stillURL := episode.StillURL()
	if stillURL == "" {
		return
	}
	thumb := linkPath.removingPathExtension().appendingPathExtension("thumb.jpg")
	if thumb.exists() {
		return
	}
	if err := downloadFile(stillURL, thumb); err != nil {
		Log("episode still download failed:", err)
	}
}
