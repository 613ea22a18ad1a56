package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/pwyang/riverwatt/services/api/analysis"
)

// handleListLines returns the transmission-line registry.
// GET /api/v1/lines
func (s *Server) handleListLines(c *gin.Context) {
	lines := make([]gin.H, 0, len(s.reg.Lines()))
	for _, line := range s.reg.Lines() {
		lines = append(lines, lineInfo(line))
	}
	c.JSON(http.StatusOK, gin.H{
		"data": lines,
		"meta": gin.H{"count": len(lines)},
	})
}

// handleListRivers returns the rivers with data in the requested window.
// GET /api/v1/rivers
func (s *Server) handleListRivers(c *gin.Context) {
	w, err := s.parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	readings, err := s.loadWater(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	names := sortedNames(riverDailyMeans(readings, w))

	c.JSON(http.StatusOK, gin.H{
		"data": names,
		"meta": gin.H{"count": len(names)},
	})
}

// handleListPresets returns the named river groups from the registry.
// GET /api/v1/presets
func (s *Server) handleListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": s.reg.Presets(),
		"meta": gin.H{"count": len(s.reg.Presets())},
	})
}

// handleOverview returns the sidebar data summary for one line and window.
// GET /api/v1/overview
func (s *Server) handleOverview(c *gin.Context) {
	w, err := s.parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	line, ok := s.parseLine(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown transmission line"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	readings, err := s.loadWater(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	waterRows := 0
	for _, r := range readings {
		day := analysis.Day(r.Time)
		if !day.Before(w.start) && !day.After(w.end) {
			waterRows++
		}
	}
	rivers := riverDailyMeans(readings, w)

	power, err := s.loadPowerDaily(line, w)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.log.Info("overview",
		"line", line.ID,
		"rivers", len(rivers),
		"water_rows", humanize.Comma(int64(waterRows)),
		"power_days", humanize.Comma(int64(len(power))))

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"line":        lineInfo(line),
			"river_count": len(rivers),
			"water_rows":  waterRows,
			"power_days":  len(power),
		},
		"meta": w.meta(),
	})
}
