package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteTVShowNfoXML(t *testing.T) {
	series := &TMDbSeries{
		ID:           209867,
		Name:         "Frieren: Beyond Journey's End",
		OriginalName: "葬送のフリーレン",
		Overview:     "After the party of heroes defeated the Demon King...",
		FirstAirDate: "2023-09-29",
	}
	details := &TMDbSeriesDetails{
		Genres: []TMDbGenre{{ID: 16, Name: "Animation"}, {ID: 10765, Name: "Sci-Fi & Fantasy"}},
	}

	var buf bytes.Buffer
	writeTVShowNfoXML(&buf, series, details)
	nfo := buf.String()

	for _, fragment := range []string{
		"<tvshow>",
		"<title>Frieren: Beyond Journey&#39;s End</title>",
		`<uniqueid type="tmdb" default="true">209867</uniqueid>`,
		"<originaltitle>葬送のフリーレン</originaltitle>",
		"<year>2023</year>",
		"<genre>Animation</genre>",
		"<tmdburl>https://www.themoviedb.org/tv/209867</tmdburl>",
		"</tvshow>",
	} {
		if !strings.Contains(nfo, fragment) {
			t.Errorf("nfo missing %s:\n%s", fragment, nfo)
		}
	}
}

func TestWriteTVShowNfoXMLMinimal(t *testing.T) {
	series := &TMDbSeries{ID: 1, Name: "Some Show"}

	var buf bytes.Buffer
	writeTVShowNfoXML(&buf, series, nil)
	nfo := buf.String()

	for _, absent := range []string{"<originaltitle>", "<plot>", "<year>", "<genre>"} {
		if strings.Contains(nfo, absent) {
			t.Errorf("nfo should not contain %s:\n%s", absent, nfo)
		}
	}
}

func TestWriteEpisodeNfoXML(t *testing.T) {
	episode := &TMDbEpisode{
		Name:          "It Would Be Embarrassing When We Met Again",
		SeasonNumber:  1,
		EpisodeNumber: 28,
		Overview:      "Frieren and her companions reach the next checkpoint.",
		AirDate:       "2024-03-22",
	}

	var buf bytes.Buffer
	writeEpisodeNfoXML(&buf, episode)
	nfo := buf.String()

	for _, fragment := range []string{
		"<episodedetails>",
		"<title>It Would Be Embarrassing When We Met Again</title>",
		"<season>1</season>",
		"<episode>28</episode>",
		"<aired>2024-03-22</aired>",
		"</episodedetails>",
	} {
		if !strings.Contains(nfo, fragment) {
			t.Errorf("nfo missing %s:\n%s", fragment, nfo)
		}
	}
}
