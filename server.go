package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// startServer exposes the control API: dry-run parsing, the mapping
// table, pipeline status and a manual rescan trigger.
func startServer(listen string, animeSync *AnimeSync, monitor *Monitor) {
	router := newRouter(animeSync, monitor)
	go func() {
		Log("🌐 control API listening on", listen)
		if err := router.Run(listen); err != nil {
			Log("❌ control API:", err)
		}
	}()
}

func newRouter(animeSync *AnimeSync, monitor *Monitor) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/parse", func(c *gin.Context) {
		filename := c.Query("filename")
		if filename == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "filename query parameter required"})
			return
		}
		meta, ok := ParseAnimeFileName(filename)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"matched": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"matched": true,
			"title":   meta.Title,
			"season":  meta.Season,
			"episode": meta.Episode,
		})
	})

	router.GET("/config", func(c *gin.Context) {
		// API keys stay out of the response
		redacted := animeSync.config
		redacted.TMDbApiKey = ""
		redacted.OpenAiApiKey = ""
		c.JSON(http.StatusOK, redacted)
	})

	router.POST("/config", func(c *gin.Context) {
		// merge the submitted fields over the current config
		updated := animeSync.config
		if err := c.ShouldBindJSON(&updated); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		applyDefaults(&updated, updated.configFile.removingLastPathComponent())
		if err := updated.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		animeSync.mu.Lock()
		animeSync.config = updated
		animeSync.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"status": "ok", "note": "directory and output changes apply on restart"})
	})

	router.GET("/logs", func(c *gin.Context) {
		lines, err := strconv.Atoi(c.DefaultQuery("lines", "50"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lines must be a number"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": RecentLogs(lines)})
	})

	router.GET("/unmatched", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"unmatched": animeSync.Unmatched()})
	})

	router.GET("/seasonal", func(c *gin.Context) {
		animeSync.seasonal.mu.RLock()
		defer animeSync.seasonal.mu.RUnlock()
		c.JSON(http.StatusOK, gin.H{
			"fetched": animeSync.seasonal.Fetched,
			"series":  animeSync.seasonal.Series,
		})
	})

	router.POST("/seasonal/refresh", func(c *gin.Context) {
		if err := animeSync.seasonal.ForceRefresh(animeSync.tmdbAPI); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/monitor/start", func(c *gin.Context) {
		monitor.Resume()
		c.JSON(http.StatusOK, gin.H{"status": "running"})
	})

	router.POST("/monitor/stop", func(c *gin.Context) {
		monitor.Pause()
		c.JSON(http.StatusOK, gin.H{"status": "paused"})
	})

	router.GET("/mappings", func(c *gin.Context) {
		c.JSON(http.StatusOK, animeSync.mapping.Entries())
	})

	router.POST("/mappings", func(c *gin.Context) {
		var body struct {
			Key   string       `json:"key" binding:"required"`
			Entry MappingEntry `json:"entry"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := animeSync.mapping.Add(body.Key, body.Entry); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.DELETE("/mappings/:key", func(c *gin.Context) {
		if err := animeSync.mapping.Remove(c.Param("key")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/scan", func(c *gin.Context) {
		monitor.scheduleRound()
		c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
	})

	return router
}
