package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pwyang/riverwatt/services/api/analysis"
	"github.com/pwyang/riverwatt/services/api/export"
	"github.com/pwyang/riverwatt/services/api/registry"
)

func lineInfo(line registry.Line) gin.H {
	return gin.H{
		"id":     line.ID,
		"name":   line.Name,
		"column": line.Column,
		"color":  line.Color,
	}
}

// handleRiverAnalysis correlates one river's daily mean water level with one
// line's daily power output.
// GET /api/v1/analysis/river/:name
func (s *Server) handleRiverAnalysis(c *gin.Context) {
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
	rivers := riverDailyMeans(readings, w)

	name := c.Param("name")
	series, ok := rivers[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("river %q has no data in range", name)})
		return
	}

	power, err := s.loadPowerDaily(line, w)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	pairs := analysis.Align(series, power)
	result := analysis.Correlate(pairs, s.cfg.MinSample)

	data := gin.H{
		"river":   name,
		"line":    lineInfo(line),
		"result":  result,
		"points":  pairs,
		"aligned": len(pairs),
	}
	if result == nil {
		data["reason"] = noResultReason(len(pairs), s.cfg.MinSample)
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "meta": w.meta()})
}

// handleGroupAnalysis correlates the summed daily means of a chosen river
// set with one line.
// GET /api/v1/analysis/group?rivers=a,b,c
func (s *Server) handleGroupAnalysis(c *gin.Context) {
	s.combinedAnalysis(c, false)
}

// handleAllRiversAnalysis correlates the combined series over every river
// with one line.
// GET /api/v1/analysis/all
func (s *Server) handleAllRiversAnalysis(c *gin.Context) {
	s.combinedAnalysis(c, true)
}

func (s *Server) combinedAnalysis(c *gin.Context, allRivers bool) {
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
	rivers := riverDailyMeans(readings, w)

	var names []string
	if allRivers {
		names = sortedNames(rivers)
	} else {
		names = parseRivers(c, rivers)
	}
	if len(names) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no selected river has data in range"})
		return
	}

	power, err := s.loadPowerDaily(line, w)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	combined := combineRivers(rivers, names)
	pairs := analysis.Align(combined, power)
	result := analysis.Correlate(pairs, s.cfg.MinSample)

	data := gin.H{
		"rivers":  names,
		"line":    lineInfo(line),
		"result":  result,
		"points":  pairs,
		"aligned": len(pairs),
	}
	if result == nil {
		data["reason"] = noResultReason(len(pairs), s.cfg.MinSample)
	}
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": gin.H{
			"start":       w.start.Format(dateLayout),
			"end":         w.end.Format(dateLayout),
			"river_count": len(names),
		},
	})
}

// ranking bundles the outcome of one ranking computation.
type ranking struct {
	rows      []analysis.RankedRow
	evaluated int
	line      registry.Line
	window    window
}

// handleRanking builds the per-river ranking table against one line.
// GET /api/v1/analysis/ranking
func (s *Server) handleRanking(c *gin.Context) {
	rk, status, err := s.buildRanking(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"line": lineInfo(rk.line),
			"rows": rk.rows,
		},
		"meta": gin.H{
			"start":     rk.window.start.Format(dateLayout),
			"end":       rk.window.end.Format(dateLayout),
			"evaluated": rk.evaluated,
			"ranked":    len(rk.rows),
		},
	})
}

// handleRankingExport streams the ranking table as CSV.
// GET /api/v1/analysis/ranking/export
func (s *Server) handleRankingExport(c *gin.Context) {
	rk, status, err := s.buildRanking(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("river_correlation_%s.csv", rk.line.ID)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := export.WriteRanking(c.Writer, rk.rows); err != nil {
		_ = c.Error(err)
	}
}

func (s *Server) buildRanking(c *gin.Context) (ranking, int, error) {
	var rk ranking

	w, err := s.parseWindow(c)
	if err != nil {
		return rk, http.StatusBadRequest, err
	}
	rk.window = w

	line, ok := s.parseLine(c)
	if !ok {
		return rk, http.StatusNotFound, fmt.Errorf("unknown transmission line")
	}
	rk.line = line

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	readings, err := s.loadWater(ctx)
	if err != nil {
		return rk, http.StatusBadGateway, err
	}
	rivers := riverDailyMeans(readings, w)
	rk.evaluated = len(rivers)

	power, err := s.loadPowerDaily(line, w)
	if err != nil {
		return rk, http.StatusBadGateway, err
	}

	rk.rows = analysis.RankRivers(power, rivers, s.cfg.MinSample, func(done, total int) {
		if done == total {
			s.log.Debug("ranking computed", "line", line.ID, "rivers", total)
		}
	})
	return rk, 0, nil
}

// handleCompare correlates a combined river series against several lines.
// GET /api/v1/analysis/compare?lines=a,b&rivers=x,y
func (s *Server) handleCompare(c *gin.Context) {
	w, err := s.parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := s.parseLines(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	readings, err := s.loadWater(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	rivers := riverDailyMeans(readings, w)

	names := parseRivers(c, rivers)
	if len(names) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no selected river has data in range"})
		return
	}
	combined := combineRivers(rivers, names)

	lineSeries := make(map[string]analysis.DailySeries, len(lines))
	for _, line := range lines {
		series, err := s.loadPowerDaily(line, w)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		lineSeries[line.ID] = series
	}

	rows := analysis.CompareLines(combined, lineSeries, s.cfg.MinSample)

	results := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		line, _ := s.reg.Line(row.Line)
		results = append(results, gin.H{
			"line":   lineInfo(line),
			"result": row.Result,
			"points": row.Pairs,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"rivers": names,
			"rows":   results,
		},
		"meta": gin.H{
			"start":     w.start.Format(dateLayout),
			"end":       w.end.Format(dateLayout),
			"evaluated": len(lines),
			"compared":  len(rows),
		},
	})
}

// parseLines resolves the lines query parameter, defaulting to every
// registry entry.
func (s *Server) parseLines(c *gin.Context) ([]registry.Line, error) {
	raw := c.Query("lines")
	if raw == "" {
		return s.reg.Lines(), nil
	}

	out := make([]registry.Line, 0)
	for _, id := range splitList(raw) {
		line, ok := s.reg.Line(id)
		if !ok {
			return nil, fmt.Errorf("unknown transmission line %q", id)
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no transmission line selected")
	}
	return out, nil
}
