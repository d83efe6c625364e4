package main

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IMDbAPI is the fallback lookup used when TMDb search has nothing
// acceptable for a parsed title: scrape the IMDb find page for a series
// id, then map it back to TMDb.
type IMDbAPI struct{}

var imdbTitleIDRegex = regexp.MustCompile(`/title/(tt\d+)/?`)

type imdbResult struct {
	ID       string
	Title    string
	IsTvShow bool
}

func (api IMDbAPI) FindTitles(query string) ([]imdbResult, error) {
	searchURL := fmt.Sprintf("https://www.imdb.com/find?q=%s&s=tt", url.QueryEscape(strings.ReplaceAll(query, "'", "")))
	Log("fetching imdb", query, searchURL)

	response, err := FetchURL(searchURL, map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36",
	})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(response))
	if err != nil {
		return nil, err
	}

	var results []imdbResult
	doc.Find(".find-result-item").Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("a.ipc-metadata-list-summary-item__t").First().Text())
		href, _ := s.Find("a.ipc-metadata-list-summary-item__t").First().Attr("href")

		match := imdbTitleIDRegex.FindStringSubmatch(href)
		if len(match) < 2 {
			return
		}

		isTvShow := false
		s.Find("span.ipc-metadata-list-summary-item__li").Each(func(i int, span *goquery.Selection) {
			text := span.Text()
			if text == "TV Series" || text == "TV Mini Series" {
				isTvShow = true
			}
		})

		results = append(results, imdbResult{ID: match[1], Title: title, IsTvShow: isTvShow})
	})

	return results, nil
}

// FindShowViaIMDb resolves a title through the IMDb find page and maps
// the first plausible series hit back to a TMDb record.
func FindShowViaIMDb(tmdbAPI *TMDbAPI, title string) (*TMDbSeries, error) {
	results, err := IMDbAPI{}.FindTitles(title)
	if err != nil {
		return nil, err
	}

	shows := filterSlice(results, func(r imdbResult) bool { return r.IsTvShow })
	Log("imdb candidates:", mapSlice(shows, func(r imdbResult) string { return r.Title }))
	for _, candidate := range shows {
		if computeSimilarityScore(candidate.Title, title, false) < minAcceptScore {
			continue
		}
		series, err := tmdbAPI.FindSeriesByIMDbID(candidate.ID)
		if err != nil {
			Log("imdb->tmdb mapping failed:", err)
			continue
		}
		return series, nil
	}
	return nil, fmt.Errorf("no IMDb series found for %q", title)
}
