package http

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pwyang/riverwatt/services/api/analysis"
	"github.com/pwyang/riverwatt/services/api/db"
	"github.com/pwyang/riverwatt/services/api/registry"
)

const dateLayout = "2006-01-02"

// window is the inclusive date range of one analysis request.
type window struct {
	start time.Time
	end   time.Time
}

func (w window) meta() gin.H {
	return gin.H{
		"start": w.start.Format(dateLayout),
		"end":   w.end.Format(dateLayout),
	}
}

// parseWindow reads start/end query parameters. Defaults: the configured
// epoch and the current date.
func (s *Server) parseWindow(c *gin.Context) (window, error) {
	w := window{
		start: s.cfg.Epoch,
		end:   analysis.Day(time.Now()),
	}

	if startStr := c.Query("start"); startStr != "" {
		t, err := time.ParseInLocation(dateLayout, startStr, time.UTC)
		if err != nil {
			return w, fmt.Errorf("invalid start date %q", startStr)
		}
		w.start = t
	}
	if endStr := c.Query("end"); endStr != "" {
		t, err := time.ParseInLocation(dateLayout, endStr, time.UTC)
		if err != nil {
			return w, fmt.Errorf("invalid end date %q", endStr)
		}
		w.end = t
	}
	if w.end.Before(w.start) {
		return w, fmt.Errorf("end date %s precedes start date %s",
			w.end.Format(dateLayout), w.start.Format(dateLayout))
	}
	return w, nil
}

// parseLine resolves the line query parameter, defaulting to the first
// registry entry.
func (s *Server) parseLine(c *gin.Context) (registry.Line, bool) {
	id := c.Query("line")
	if id == "" {
		return s.reg.Default(), true
	}
	return s.reg.Line(id)
}

// parseRivers splits the rivers query parameter. Empty or "all" selects
// every river; unknown names are dropped silently.
func parseRivers(c *gin.Context, available map[string]analysis.DailySeries) []string {
	raw := strings.TrimSpace(c.Query("rivers"))
	if raw == "" || raw == "all" {
		return sortedNames(available)
	}

	names := make([]string, 0)
	for _, name := range splitList(raw) {
		if _, ok := available[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// sortedNames lists map keys in deterministic order.
func sortedNames(available map[string]analysis.DailySeries) []string {
	names := make([]string, 0, len(available))
	for name := range available {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// splitList splits a comma-separated query value, trimming blanks.
func splitList(raw string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// loadWater fetches the raw water-level table through the read-through
// cache; the key is the region tag set, the parameter the load depends on.
func (s *Server) loadWater(ctx context.Context) ([]db.WaterReading, error) {
	key := "water:" + strings.Join(s.cfg.RegionTags, ",")
	return s.waterCache.Get(key, func() ([]db.WaterReading, error) {
		return s.water.FetchWaterLevels(ctx, s.cfg.RegionTags)
	})
}

// loadPowerDaily fetches one line's full daily series through the cache and
// clips it to the request window.
func (s *Server) loadPowerDaily(line registry.Line, w window) (analysis.DailySeries, error) {
	series, err := s.powerCache.Get("power:"+line.ID, func() (analysis.DailySeries, error) {
		return s.power.LoadDaily(line.ID)
	})
	if err != nil {
		return nil, err
	}
	return series.Clip(w.start, w.end), nil
}

// riverDailyMeans groups readings inside the window by river and reduces
// each river to daily mean water levels.
func riverDailyMeans(readings []db.WaterReading, w window) map[string]analysis.DailySeries {
	grouped := make(map[string][]analysis.Sample)
	for _, r := range readings {
		day := analysis.Day(r.Time)
		if day.Before(w.start) || day.After(w.end) {
			continue
		}
		grouped[r.RiverName] = append(grouped[r.RiverName], analysis.Sample{
			Timestamp: r.Time,
			Value:     r.WaterLevel,
		})
	}

	out := make(map[string]analysis.DailySeries, len(grouped))
	for name, samples := range grouped {
		out[name] = analysis.AggregateDaily(samples, analysis.ReduceMean)
	}
	return out
}

// combineRivers sums the selected rivers' per-day means into one series.
func combineRivers(rivers map[string]analysis.DailySeries, names []string) analysis.DailySeries {
	selected := make([]analysis.DailySeries, 0, len(names))
	for _, name := range names {
		selected = append(selected, rivers[name])
	}
	return analysis.SumSeries(selected...)
}

// noResultReason distinguishes the two no-result states for clients.
func noResultReason(aligned, floor int) string {
	if aligned < floor {
		return fmt.Sprintf("insufficient data: %d aligned days, floor is %d", aligned, floor)
	}
	return "degenerate statistics: correlation undefined for this input"
}
