package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	content := `{
		"tmdb_api_key": "key123",
		"directories": ["/downloads/anime"],
		"output": {"create_hardlink": true, "generate_nfo": true},
		"monitor": {"enabled": true}
	}`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(Path(configPath))
	if err != nil {
		t.Fatal(err)
	}

	if config.TMDbApiKey != "key123" {
		t.Errorf("api key = %q", config.TMDbApiKey)
	}
	if config.Language != "en-US" {
		t.Errorf("default language = %q", config.Language)
	}
	if config.Monitor.IntervalSeconds != 300 {
		t.Errorf("default interval = %d", config.Monitor.IntervalSeconds)
	}
	if config.Network.TimeoutSeconds != 10 {
		t.Errorf("default timeout = %d", config.Network.TimeoutSeconds)
	}
	if config.Server.Listen != ":8000" {
		t.Errorf("default listen = %q", config.Server.Listen)
	}
	if config.MappingFile != Path(filepath.Join(dir, "custom_mapping.json")) {
		t.Errorf("mapping file = %q", config.MappingFile)
	}
	if config.Output.LibraryDir != Path(filepath.Join("/downloads/anime", "Anime_Library")) {
		t.Errorf("library dir = %q", config.Output.LibraryDir)
	}
	if len(config.Scanner.VideoExtensions) == 0 {
		t.Error("no default video extensions")
	}
}

func TestLoadConfigEnvFallback(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, []byte(`{"directories": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TMDB_API_KEY", "env-tmdb")
	t.Setenv("OPENAI_API_KEY", "env-openai")

	config, err := LoadConfig(Path(configPath))
	if err != nil {
		t.Fatal(err)
	}
	if config.TMDbApiKey != "env-tmdb" {
		t.Errorf("api key = %q", config.TMDbApiKey)
	}
	if config.OpenAiApiKey != "env-openai" {
		t.Errorf("openai key = %q", config.OpenAiApiKey)
	}
}

func TestConfigPathDirectory(t *testing.T) {
	dir := t.TempDir()
	if got := ConfigPath(Path(dir)); got != Path(filepath.Join(dir, "config.json")) {
		t.Errorf("got %q", got)
	}
	explicit := Path(filepath.Join(dir, "other.json"))
	if got := ConfigPath(explicit); got != explicit {
		t.Errorf("got %q", got)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(Path(filepath.Join(t.TempDir(), "config.json"))); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
