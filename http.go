package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// CacheDir is the directory where API responses are cached.
var CacheDir string

var httpClient = resty.New()

func init() {
	// Set default cache directory to be relative to the executable
	exePath, _ := os.Executable()
	CacheDir = filepath.Join(filepath.Dir(exePath), "cache")
	httpClient.SetTimeout(10 * time.Second)
}

// InitHTTP applies the network section of the config to the shared
// client. Call once before the first fetch.
func InitHTTP(proxy string, timeoutSeconds int) {
	if timeoutSeconds > 0 {
		httpClient.SetTimeout(time.Duration(timeoutSeconds) * time.Second)
	}
	if proxy != "" {
		httpClient.SetProxy(proxy)
	}
}

// FetchURL performs a GET, caching successful response bodies on disk
// keyed by the sanitized URL so repeated lookups for the same show stay
// off the network.
func FetchURL(url string, headers map[string]string) ([]byte, error) {
	validFilename := ReplaceInvalidFilenameChars(url) + ".txt"

	if !Path(CacheDir).isDirectory() {
		if err := os.MkdirAll(CacheDir, 0755); err != nil {
			return nil, err
		}
	}
	cacheFilename := filepath.Join(CacheDir, validFilename)

	if _, err := os.Stat(cacheFilename); err == nil {
		logger.Debugf("using cached response: %s", validFilename)
		return os.ReadFile(cacheFilename)
	}

	resp, err := httpClient.R().SetHeaders(headers).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP request %s failed with status: %d", url, resp.StatusCode())
	}

	body := resp.Body()
	if err := os.WriteFile(cacheFilename, body, 0644); err != nil {
		Log("error writing cache file:", err)
	}

	return body, nil
}

// downloadFile fetches a binary resource (posters, stills) straight to
// disk, bypassing the text response cache.
func downloadFile(url string, target Path) error {
	resp, err := httpClient.R().Get(url)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("download %s failed with status: %d", url, resp.StatusCode())
	}
	return os.WriteFile(string(target), resp.Body(), 0644)
}
