package analysis

import (
	"math"
	"sort"
	"time"
)

// RankedRow is one river's entry in the ranking table.
type RankedRow struct {
	Rank      int       `json:"rank"`
	River     string    `json:"river"`
	N         int       `json:"n"`
	PearsonR  float64   `json:"pearson_r"`
	PearsonP  float64   `json:"pearson_p"`
	R2        float64   `json:"r2"`
	Slope     float64   `json:"slope"`
	FirstDate time.Time `json:"first_date"`
	LastDate  time.Time `json:"last_date"`
}

// Progress reports how many candidates have been processed so far. Purely
// observational; it has no effect on results.
type Progress func(done, total int)

// RankRivers correlates every candidate river series against one fixed line
// series and ranks the successful ones by descending |Pearson r|. Rivers
// below the sample floor or with degenerate statistics are omitted from the
// table entirely, not ranked last; ranks run 1..k over the survivors.
func RankRivers(line DailySeries, rivers map[string]DailySeries, minSample int, progress Progress) []RankedRow {
	names := make([]string, 0, len(rivers))
	for name := range rivers {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]RankedRow, 0, len(names))
	for i, name := range names {
		pairs := Align(rivers[name], line)
		if res := Correlate(pairs, minSample); res != nil {
			rows = append(rows, RankedRow{
				River:     name,
				N:         res.N,
				PearsonR:  res.PearsonR,
				PearsonP:  res.PearsonP,
				R2:        res.R2,
				Slope:     res.Slope,
				FirstDate: pairs[0].Date,
				LastDate:  pairs[len(pairs)-1].Date,
			})
		}
		if progress != nil {
			progress(i+1, len(names))
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return math.Abs(rows[i].PearsonR) > math.Abs(rows[j].PearsonR)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// ComparisonRow is one line's entry in the multi-line comparison.
type ComparisonRow struct {
	Line   string        `json:"line"`
	Result Result        `json:"result"`
	Pairs  []AlignedPair `json:"points"`
}

// CompareLines correlates one fixed combined river series against every
// given line series. Lines without a result are skipped; survivors are
// sorted by descending |Pearson r| for side-by-side display.
func CompareLines(combined DailySeries, lines map[string]DailySeries, minSample int) []ComparisonRow {
	ids := make([]string, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]ComparisonRow, 0, len(ids))
	for _, id := range ids {
		pairs := Align(combined, lines[id])
		if res := Correlate(pairs, minSample); res != nil {
			rows = append(rows, ComparisonRow{Line: id, Result: *res, Pairs: pairs})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return math.Abs(rows[i].Result.PearsonR) > math.Abs(rows[j].Result.PearsonR)
	})
	return rows
}
