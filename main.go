package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configFlag := flag.String("config", "", "Path to the configuration file")
	flag.StringVar(configFlag, "c", "", "Path to the configuration file (shorthand)")
	onceFlag := flag.Bool("once", false, "Run a single sync round and exit")
	parseFlag := flag.String("parse", "", "Parse a single file name and exit")

	// Parse command-line flags
	flag.Parse()

	var configFile Path
	if *configFlag != "" {
		configFile = Path(*configFlag)
	}

	config, err := LoadConfig(configFile)
	if err != nil {
		panic(err)
	}
	SetLogLevel(config.LogLevel)
	InitHTTP(config.Network.Proxy, config.Network.TimeoutSeconds)

	if *parseFlag != "" {
		meta, ok := ParseAnimeFileName(*parseFlag)
		if !ok {
			Log("no match")
			os.Exit(1)
		}
		Logf("title=%q season=%d episode=%d", meta.Title, meta.Season, meta.Episode)
		return
	}

	if err := os.MkdirAll(string(config.Output.LibraryDir), 0755); err != nil {
		panic(err)
	}
	if config.Output.CreateHardlink {
		for _, dir := range config.Directories {
			if dir.exists() && !sameDevice(dir, config.Output.LibraryDir) {
				Log("⚠️ library and", dir, "are on different filesystems, links will fall back to symlinks")
			}
		}
	}
	db, err := initializeDB(string(config.Output.LibraryDir.appendingPathComponent(".anime-scraper.db")))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	mapping, err := LoadTitleMapping(config.MappingFile)
	if err != nil {
		panic(err)
	}
	seasonal := LoadSeasonalIndex(config.SeasonalFile)

	animeSync := NewAnimeSync(*config, db, mapping, seasonal)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *onceFlag || !config.Monitor.Enabled {
		if err := animeSync.RunRound(ctx); err != nil {
			panic(err)
		}
		return
	}

	monitor := NewMonitor(animeSync, config.Monitor.IntervalSeconds, config.Monitor.Watch)
	if config.Server.Listen != "" {
		startServer(config.Server.Listen, animeSync, monitor)
	}
	if err := monitor.Run(ctx); err != nil && err != context.Canceled {
		panic(err)
	}
}
