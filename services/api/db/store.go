package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps database access helpers for the water-level table.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("water-level store: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// WaterReading is one gauge reading for a river.
type WaterReading struct {
	Time       time.Time `json:"time"`
	RiverName  string    `json:"river_name"`
	WaterLevel float64   `json:"water_level"`
}

const waterLevelsSQL = `
    SELECT time, river_name, water_level
    FROM water_rain_river
    WHERE region = ANY($1)
      AND water_level IS NOT NULL
    ORDER BY river_name, time
`

// FetchWaterLevels returns all readings tagged with one of the given
// regions. Rows with NULL water levels are dropped in SQL; time-window
// filtering happens downstream so the full load stays cacheable.
func (s *Store) FetchWaterLevels(ctx context.Context, regions []string) ([]WaterReading, error) {
	rows, err := s.pool.Query(ctx, waterLevelsSQL, regions)
	if err != nil {
		return nil, fmt.Errorf("water-level store: %w", err)
	}
	defer rows.Close()

	readings := make([]WaterReading, 0)
	for rows.Next() {
		var r WaterReading
		if err := rows.Scan(&r.Time, &r.RiverName, &r.WaterLevel); err != nil {
			return nil, fmt.Errorf("water-level store: %w", err)
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("water-level store: %w", err)
	}
	return readings, nil
}
