package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/store"
)

const maxRunsPage = 200

func setupDiagnosticsRoutes(r *gin.Engine, st *store.Store) {
	group := r.Group("/_diagnostics")

	// Journal summary
	group.GET("", func(c *gin.Context) {
		stats, err := st.Stats(c.Request.Context())
		if err != nil {
			logger.Error("error loading journal stats", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// Recent runs, newest first
	group.GET("/runs", func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if limit > maxRunsPage {
			limit = maxRunsPage
		}

		runs, err := st.RecentRuns(c.Request.Context(), limit)
		if err != nil {
			logger.Error("error loading runs", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load runs"})
			return
		}
		if runs == nil {
			runs = []store.Run{}
		}
		c.JSON(http.StatusOK, gin.H{"runs": runs})
	})

	// Journal export (for backups or analysis)
	group.GET("/export", func(c *gin.Context) {
		runs, err := st.RecentRuns(c.Request.Context(), maxRunsPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=folio-runs.json")
		c.JSON(http.StatusOK, runs)
	})
}
