package main

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/unicode/norm"
)

var nonAlphaNumRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// computeSimilarityScore compares two titles after NFC normalization
// and punctuation folding and returns a 0..100 score. JaroWinkler
// rewards common prefixes and suits near-exact candidates; SorensenDice
// is the safer default for reordered or partially translated names.
func computeSimilarityScore(title1, title2 string, useJaroWinkler bool) int {
	title1 = norm.NFC.String(title1)
	title2 = norm.NFC.String(title2)

	title1 = strings.Trim(nonAlphaNumRegex.ReplaceAllString(title1, " "), " ")
	title2 = strings.Trim(nonAlphaNumRegex.ReplaceAllString(title2, " "), " ")

	var similarity float64
	if useJaroWinkler {
		metric := &metrics.JaroWinkler{CaseSensitive: false}
		similarity = strutil.Similarity(title1, title2, metric)
	} else {
		metric := &metrics.SorensenDice{CaseSensitive: false, NgramSize: 2}
		similarity = strutil.Similarity(title1, title2, metric)
	}

	return int(similarity * 100)
}

// sanitizeFileName replaces characters that break library paths on
// common filesystems (Re:Zero -> Re Zero).
func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		":", " ", "/", " ", "\\", " ",
		"?", "", "\"", "", "*", "", "<", "", ">", "", "|", "",
	)
	return strings.TrimSpace(replacer.Replace(name))
}

// ReplaceInvalidFilenameChars replaces invalid characters in a string
// that cannot be used in filenames with underscores.
func ReplaceInvalidFilenameChars(s string) string {
	name, err := url.QueryUnescape(s)
	if err != nil {
		Log("could not query-unescape", s)
		name = s
	}

	re1 := regexp.MustCompile(`(?i)(https:\/\/|api_key=[0-9a-z]+&?)`)
	name = re1.ReplaceAllString(name, "")

	re2 := regexp.MustCompile(`(?i)(api.themoviedb.org)`)
	name = re2.ReplaceAllString(name, "tmdb_")

	re3 := regexp.MustCompile(`(?i)((?:www\.)imdb.com)`)
	name = re3.ReplaceAllString(name, "imdb_")

	re4 := regexp.MustCompile(`[^\%\.\-\p{L}\p{N}]+`)
	name = re4.ReplaceAllString(name, "_")

	return name
}

func Coalesce(str1, str2 string) string {
	if str1 == "" {
		return str2
	}
	return str1
}
