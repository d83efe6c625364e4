package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"
const tmdbImageBaseURL = "https://image.tmdb.org/t/p/w780"

// animationGenreID is TMDb's genre id for animated series, used by the
// current-season discover feed.
const animationGenreID = 16

type TMDbAPI struct {
	ApiKey   string
	Language string

	mu          sync.Mutex
	searchCache map[string]*TMDbSeries
}

func NewTMDbAPI(apiKey, language string) *TMDbAPI {
	if language == "" {
		language = "en-US"
	}
	return &TMDbAPI{
		ApiKey:      apiKey,
		Language:    language,
		searchCache: make(map[string]*TMDbSeries),
	}
}

type TMDbSeries struct {
	ID               int      `json:"id"`
	Name             string   `json:"name,omitempty"`
	OriginalName     string   `json:"original_name,omitempty"`
	FirstAirDate     string   `json:"first_air_date"`
	Overview         string   `json:"overview"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	GenreIDs         []int    `json:"genre_ids"`
	OriginalLanguage string   `json:"original_language"`
	OriginCountry    []string `json:"origin_country"`
	Popularity       float64  `json:"popularity"`
	VoteAverage      float64  `json:"vote_average"`
}

type TMDbTVSearchResults struct {
	Results    []TMDbSeries `json:"results"`
	TotalPages int          `json:"total_pages"`
}

type TMDbSeriesDetails struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	OriginalName     string      `json:"original_name"`
	FirstAirDate     string      `json:"first_air_date"`
	Overview         string      `json:"overview"`
	PosterPath       string      `json:"poster_path"`
	BackdropPath     string      `json:"backdrop_path"`
	NumberOfSeasons  int         `json:"number_of_seasons"`
	NumberOfEpisodes int         `json:"number_of_episodes"`
	VoteAverage      float64     `json:"vote_average"`
	Genres           []TMDbGenre `json:"genres"`
}

type TMDbEpisode struct {
	AirDate       string  `json:"air_date"`
	EpisodeNumber int     `json:"episode_number"`
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	SeasonNumber  int     `json:"season_number"`
	StillPath     string  `json:"still_path"`
	VoteAverage   float64 `json:"vote_average"`
}

type TMDbGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TMDbFindResponse struct {
	TVResults []TMDbSeries `json:"tv_results"`
}

func (series TMDbSeries) Url() string {
	return fmt.Sprintf("https://www.themoviedb.org/tv/%d", series.ID)
}

func (series TMDbSeries) Year() string {
	if series.FirstAirDate == "" {
		return ""
	}
	return series.FirstAirDate[:4]
}

func (series TMDbSeries) PosterURL() string {
	if series.PosterPath == "" {
		return ""
	}
	return tmdbImageBaseURL + series.PosterPath
}

func (series TMDbSeries) BackdropURL() string {
	if series.BackdropPath == "" {
		return ""
	}
	return tmdbImageBaseURL + series.BackdropPath
}

func (details TMDbSeriesDetails) PosterURL() string {
	if details.PosterPath == "" {
		return ""
	}
	return tmdbImageBaseURL + details.PosterPath
}

func (details TMDbSeriesDetails) BackdropURL() string {
	if details.BackdropPath == "" {
		return ""
	}
	return tmdbImageBaseURL + details.BackdropPath
}

func (episode TMDbEpisode) StillURL() string {
	if episode.StillPath == "" {
		return ""
	}
	return tmdbImageBaseURL + episode.StillPath
}

func (api *TMDbAPI) get(endpoint string, params map[string]string) ([]byte, error) {
	if api.ApiKey == "" {
		return nil, fmt.Errorf("no TMDb API key configured")
	}

	query := url.Values{}
	query.Set("api_key", api.ApiKey)
	query.Set("language", api.Language)
	for key, value := range params {
		query.Set(key, value)
	}

	return FetchURL(tmdbBaseURL+endpoint+"?"+query.Encode(), map[string]string{})
}

// SearchTVShows runs a /search/tv query for one page of raw candidates;
// candidate ranking happens in findBestSeriesByTitle.
func (api *TMDbAPI) SearchTVShows(query string, page int) (TMDbTVSearchResults, error) {
	Log("fetching tmdb series", query, "page:", page)
	response, err := api.get("/search/tv", map[string]string{
		"query": query,
		"page":  strconv.Itoa(page),
	})
	if err != nil {
		return TMDbTVSearchResults{}, err
	}

	var results TMDbTVSearchResults
	if err := json.Unmarshal(response, &results); err != nil {
		return TMDbTVSearchResults{}, err
	}
	return results, nil
}

// FindShow resolves a cleaned title to the best-matching series, going
// through the per-round memory cache first.
func (api *TMDbAPI) FindShow(title string) (*TMDbSeries, error) {
	api.mu.Lock()
	cached, ok := api.searchCache[title]
	api.mu.Unlock()
	if ok {
		return cached, nil
	}

	series, score, err := findBestSeriesByTitle(api, title)
	if err != nil {
		return nil, err
	}
	Logf("search %q -> %q (id %d, score %d)", title, series.Name, series.ID, score)

	api.mu.Lock()
	api.searchCache[title] = series
	api.mu.Unlock()
	return series, nil
}

func (api *TMDbAPI) GetSeriesDetails(tvID int) (*TMDbSeriesDetails, error) {
	response, err := api.get(fmt.Sprintf("/tv/%d", tvID), nil)
	if err != nil {
		return nil, err
	}
	var details TMDbSeriesDetails
	if err := json.Unmarshal(response, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (api *TMDbAPI) GetSeriesByID(tvID int) (*TMDbSeries, error) {
	details, err := api.GetSeriesDetails(tvID)
	if err != nil {
		return nil, err
	}
	return &TMDbSeries{
		ID:           details.ID,
		Name:         details.Name,
		OriginalName: details.OriginalName,
		FirstAirDate: details.FirstAirDate,
		Overview:     details.Overview,
		PosterPath:   details.PosterPath,
		BackdropPath: details.BackdropPath,
	}, nil
}

func (api *TMDbAPI) GetEpisodeDetails(tvID, season, episode int) (*TMDbEpisode, error) {
	response, err := api.get(fmt.Sprintf("/tv/%d/season/%d/episode/%d", tvID, season, episode), nil)
	if err != nil {
		return nil, err
	}
	var details TMDbEpisode
	if err := json.Unmarshal(response, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// FindSeriesByIMDbID maps an IMDb title id back to a TMDb series via
// the /find endpoint.
func (api *TMDbAPI) FindSeriesByIMDbID(imdbID string) (*TMDbSeries, error) {
	response, err := api.get("/find/"+imdbID, map[string]string{"external_source": "imdb_id"})
	if err != nil {
		return nil, err
	}

	var result TMDbFindResponse
	if err := json.Unmarshal(response, &result); err != nil {
		return nil, err
	}
	if len(result.TVResults) == 0 {
		return nil, fmt.Errorf("no TV show found for IMDb ID: %s", imdbID)
	}
	return &result.TVResults[0], nil
}

// GetCurrentSeasonAnime discovers animated series airing in the current
// broadcast quarter, most popular first.
func (api *TMDbAPI) GetCurrentSeasonAnime(page int) (TMDbTVSearchResults, error) {
	response, err := api.get("/discover/tv", map[string]string{
		"with_genres":        strconv.Itoa(animationGenreID),
		"first_air_date.gte": currentBroadcastQuarterStart(time.Now()),
		"sort_by":            "popularity.desc",
		"page":               strconv.Itoa(page),
	})
	if err != nil {
		return TMDbTVSearchResults{}, err
	}

	var results TMDbTVSearchResults
	if err := json.Unmarshal(response, &results); err != nil {
		return TMDbTVSearchResults{}, err
	}
	return results, nil
}

// currentBroadcastQuarterStart returns the first day of the anime
// broadcast quarter (Jan/Apr/Jul/Oct) containing t.
func currentBroadcastQuarterStart(t time.Time) string {
	quarterMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
	return time.Date(t.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// ClearCache drops the in-memory search cache between scan rounds.
func (api *TMDbAPI) ClearCache() {
	api.mu.Lock()
	cleared := len(api.searchCache)
	api.searchCache = make(map[string]*TMDbSeries)
	api.mu.Unlock()
	if cleared > 0 {
		Logf("cleared %d cached searches", cleared)
	}
}
