package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config represents the configuration structure.
type Config struct {
	TMDbApiKey   string `json:"tmdb_api_key,omitempty"`
	OpenAiApiKey string `json:"openai_api_key,omitempty"`
	Language     string `json:"language,omitempty"`

	Directories []Path `json:"directories"`

	Output struct {
		LibraryDir     Path `json:"library_dir,omitempty"`
		CreateHardlink bool `json:"create_hardlink"`
		GenerateNfo    bool `json:"generate_nfo"`
		DownloadImages bool `json:"download_images"`
	} `json:"output"`

	Scanner struct {
		VideoExtensions []string `json:"video_extensions,omitempty"`
		MinFileSizeMB   int      `json:"min_file_size_mb,omitempty"`
	} `json:"scanner"`

	Monitor struct {
		Enabled         bool `json:"enabled"`
		IntervalSeconds int  `json:"interval_seconds,omitempty"`
		Watch           bool `json:"watch,omitempty"`
	} `json:"monitor"`

	Transmission TransmissionConfig `json:"transmission,omitempty"`

	Network struct {
		Proxy          string `json:"proxy,omitempty"`
		TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	} `json:"network"`

	Server struct {
		Listen string `json:"listen,omitempty"`
	} `json:"server"`

	MappingFile  Path   `json:"mapping_file,omitempty"`
	SeasonalFile Path   `json:"seasonal_cache_file,omitempty"`
	LogLevel     string `json:"log_level,omitempty"`

	// the file this config was loaded from, for write-back
	configFile Path
}

type TransmissionConfig struct {
	Rpc string `json:"rpc,omitempty"`
}

// ConfigPath returns the path to the configuration file.
func ConfigPath(path Path) Path {
	if path == "" {
		exePath, _ := os.Executable()
		return Path(filepath.Dir(exePath)).appendingPathComponent("config.json")
	}
	if path.isDirectory() {
		return path.appendingPathComponent("config.json")
	}
	return path
}

// LoadConfig loads configuration from the specified path and fills in
// defaults and API-key environment fallbacks.
func LoadConfig(configFile Path) (*Config, error) {
	configFile = ConfigPath(configFile)
	file, err := os.Open(string(configFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	if config.TMDbApiKey == "" {
		config.TMDbApiKey = os.Getenv("TMDB_API_KEY")
	}
	if config.OpenAiApiKey == "" {
		config.OpenAiApiKey = os.Getenv("OPENAI_API_KEY")
	}

	applyDefaults(&config, configFile.removingLastPathComponent())
	config.configFile = configFile

	return &config, nil
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(string(c.configFile), data, 0644)
}

func applyDefaults(config *Config, baseDir Path) {
	if config.Language == "" {
		config.Language = "en-US"
	}
	if len(config.Scanner.VideoExtensions) == 0 {
		config.Scanner.VideoExtensions = defaultVideoExtensions
	}
	if config.Monitor.IntervalSeconds <= 0 {
		config.Monitor.IntervalSeconds = 300
	}
	if config.Network.TimeoutSeconds <= 0 {
		config.Network.TimeoutSeconds = 10
	}
	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.MappingFile == "" {
		config.MappingFile = baseDir.appendingPathComponent("custom_mapping.json")
	}
	if config.SeasonalFile == "" {
		config.SeasonalFile = baseDir.appendingPathComponent("seasonal_cache.json")
	}
	if config.Output.LibraryDir == "" && len(config.Directories) > 0 {
		config.Output.LibraryDir = config.Directories[0].appendingPathComponent("Anime_Library")
	}
}
