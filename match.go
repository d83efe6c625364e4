package main

import (
	"fmt"
)

// minAcceptScore is the similarity floor below which a search result is
// rejected rather than risk mis-filing an episode under the wrong show.
const minAcceptScore = 60

// findBestSeriesByTitle pages through TMDb search results and picks the
// candidate whose title (or original title) is most similar to the
// query, instead of blindly trusting result order.
func findBestSeriesByTitle(api *TMDbAPI, title string) (*TMDbSeries, int, error) {
	var bestMatch TMDbSeries
	bestScore := -1

	page := 1
	totalPages := 1
	for {
		result, err := api.SearchTVShows(title, page)
		if err != nil {
			return nil, 0, err
		}

		idx, score := findBestMatchingSeries(result.Results, title)
		if idx >= 0 && score > bestScore {
			bestMatch = result.Results[idx]
			bestScore = score
		}
		if bestScore >= 90 {
			break
		}

		totalPages = result.TotalPages
		// one extra page is enough once a plausible candidate exists
		if page >= totalPages || (page >= 2 && bestScore >= minAcceptScore) || page >= 4 {
			break
		}
		page++
	}

	if bestScore < minAcceptScore {
		return nil, bestScore, fmt.Errorf("no series matching %q (best score %d)", title, bestScore)
	}
	return &bestMatch, bestScore, nil
}

func findBestMatchingSeries(candidates []TMDbSeries, query string) (int, int) {
	bestScore := -1
	bestMatch := -1

	for idx, series := range candidates {
		name := Coalesce(series.Name, series.OriginalName)
		if name == "" {
			continue
		}

		score := computeSimilarityScore(name, query, true)
		if series.OriginalName != "" && series.OriginalName != name {
			score = max(score, computeSimilarityScore(series.OriginalName, query, true))
		}
		// dice similarity catches word-order and subtitle differences
		// that trip the prefix-weighted metric
		score = max(score, computeSimilarityScore(name, query, false))

		if score > bestScore {
			bestScore = score
			bestMatch = idx
		}
		if score == 100 {
			break
		}
	}

	return bestMatch, bestScore
}
