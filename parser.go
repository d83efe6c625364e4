package main

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// AnimeMeta is the identity extracted from a release file name.
// Season is always >= 1 and Episode >= 0. RawFilename keeps the
// normalized input for diagnostics and as a manual-mapping key; it is
// never re-parsed.
type AnimeMeta struct {
	Title       string
	Season      int
	Episode     int
	RawFilename string
}

// parseStrategy is one independent file name pattern with its own
// capture groups. Strategies run in fixed order, most structurally
// specific first, and the first match wins.
type parseStrategy struct {
	name string
	re   *regexp.Regexp
}

var parseStrategies = []parseStrategy{
	// "[Group] Title - S2 - 12v2", "[Group] Title - 12.5", "Title - 1089";
	// the group prefix and the season clause are both optional
	{"dash", regexp.MustCompile(`(?i)^(?:.*?\]\s*)?(?P<title>.+?)\s*(?:-|–)\s*(?:S(?P<season>\d{1,2})\s*(?:-|–)?\s*)?(?P<episode>\d{1,4}(?:\.\d)?)(?:v\d)?(?:\s|\[|\(|$)`)},
	// "Frieren.S01E28", "Title S2E12"
	{"sxxexx", regexp.MustCompile(`(?i)(?P<title>.*?)[\s.]S(?P<season>\d{1,2})E(?P<episode>\d{1,3})`)},
	// "[Group][Title][S2][05]"; the season field is free-form and
	// resolved to a number later
	{"brackets", regexp.MustCompile(`(?i)^\[(?P<group>[^\]]+)\]\[(?P<title>[^\]]+)\](?:\[(?P<seasonraw>S\d+|Season\s*\d+|part\s*\d+|[^\]]*?Season)\])?\[(?P<episode>\d{1,3})\]`)},
	// "RandomName 07" with no structure at all
	{"simple", regexp.MustCompile(`(?i)(?P<title>.+?)\s+(?P<episode>\d{1,3})(?:v\d)?$`)},
}

var (
	// release groups mix full-width and ASCII brackets
	replaceBrackets = strings.NewReplacer("【", "[", "】", "]")

	reVideoSuffix = regexp.MustCompile(`(?i)\.(?:mp4|mkv)$`)

	// "Season 3", "Part 2", "S3", "2nd Season" inside free text
	reSeasonText = regexp.MustCompile(`(?i)(?:season|part)\s*(\d{1,2})|S(\d{1,2})\b|(\d{1,2})(?:nd|rd|th)\s+season`)

	reLeadingGroup = regexp.MustCompile(`^\[.*?\]\s*`)
	reCleanSeason  = regexp.MustCompile(`(?i)\s+(?:2nd|3rd|4th|final|first)?\s*(?:season|part)\s*\d*|\s+S\d+\b`)
	reYearSuffix   = regexp.MustCompile(`\s\(\d{4}\)`)
)

// ParseAnimeFileName turns a release file name into an AnimeMeta record.
// The input may be a bare stem or still carry an .mp4/.mkv suffix; the
// suffix is stripped before matching. The second return value is false
// when no strategy matches, which is a routine outcome the caller must
// handle, never an error.
//
// The function is pure: no state is kept between calls and identical
// input always yields identical output, so it is safe to call from any
// number of goroutines.
func ParseAnimeFileName(filename string) (AnimeMeta, bool) {
	filename = replaceBrackets.Replace(filename)
	filename = reVideoSuffix.ReplaceAllString(filename, "")

	var caps map[string]string
	matched := false
	for _, strategy := range parseStrategies {
		if caps, matched = strategy.match(filename); matched {
			break
		}
	}
	if !matched {
		return AnimeMeta{}, false
	}

	rawTitle := strings.TrimSpace(caps["title"])

	season := 1
	if s, ok := seasonFromCapture(caps); ok {
		season = s
	} else if s, ok := seasonFromRawMarker(caps); ok {
		season = s
	}
	// Many releases carry the season only inside the title portion
	// ("Spy x Family Season 3 - 05"), so mine the title text before
	// settling for the default. A season captured as exactly 1 is
	// indistinguishable from "no season found yet" and can still be
	// overridden by a season phrase in the title.
	if season == 1 {
		if s, ok := seasonFromText(rawTitle); ok {
			season = s
		}
	}

	// some groups number specials fractionally ("12.5"); truncate
	episode := 0.0
	if raw := caps["episode"]; raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			episode = v
		}
	}

	return AnimeMeta{
		Title:       cleanTitle(rawTitle),
		Season:      season,
		Episode:     int(episode),
		RawFilename: filename,
	}, true
}

func (s parseStrategy) match(filename string) (map[string]string, bool) {
	m := s.re.FindStringSubmatch(filename)
	if m == nil {
		return nil, false
	}
	caps := make(map[string]string)
	for i, name := range s.re.SubexpNames() {
		if name != "" {
			caps[name] = m[i]
		}
	}
	return caps, true
}

// seasonFromCapture reads a season number captured directly by the
// winning strategy.
func seasonFromCapture(caps map[string]string) (int, bool) {
	raw := caps["season"]
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

var reDigits = regexp.MustCompile(`\d+`)

// seasonFromRawMarker resolves a free-form bracket marker such as "S2",
// "Season 2" or "part 2" to the first run of digits inside it.
func seasonFromRawMarker(caps map[string]string) (int, bool) {
	raw := caps["seasonraw"]
	if raw == "" {
		return 0, false
	}
	digits := reDigits.FindString(raw)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// seasonFromText mines a season number out of free title text; the
// first digit group among the recognized phrasings wins.
func seasonFromText(text string) (int, bool) {
	m := reSeasonText.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	for _, group := range m[1:] {
		if group == "" {
			continue
		}
		n, err := strconv.Atoi(group)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// cleanTitle strips everything from the raw title that would mislead a
// metadata search: the leading group tag, season/part phrases, a
// trailing year, and the non-Latin half of a bilingual name. Season
// phrases must already have been mined for the season number at this
// point.
func cleanTitle(text string) string {
	text = reLeadingGroup.ReplaceAllString(text, "")
	text = reCleanSeason.ReplaceAllString(text, "")
	text = reYearSuffix.ReplaceAllString(text, "")

	// bilingual titles join a native name and a romanized one with "_";
	// prefer the Latin-script half
	if strings.Contains(text, "_") {
		parts := strings.Split(text, "_")
		last := strings.ReplaceAll(strings.TrimSpace(parts[len(parts)-1]), " ", "")
		if isASCIIOnly(last) {
			text = parts[len(parts)-1]
		} else {
			text = parts[0]
		}
	}

	return strings.TrimSpace(text)
}

func isASCIIOnly(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
