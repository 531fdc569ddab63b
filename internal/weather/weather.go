package weather

import (
	"context"
	"time"
)

// Location is the geographic point a weather series is fetched for.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Observation is one hourly weather reading. Time is the hour the reading
// belongs to; other variables the provider returns are ignored.
type Observation struct {
	Time time.Time `json:"time"`
	Temp float64   `json:"temp"`
	Prcp float64   `json:"prcp"`
}

// Series is an hourly time series, one observation per hour in range.
type Series []Observation

// Source produces hourly weather for a point and date range. It is the only
// external collaborator of the pipelines and the only thing tests need to
// stand in for.
type Source interface {
	Hourly(ctx context.Context, loc Location, from, to time.Time) (Series, error)
}

// Static is a fixed in-memory Source for tests and offline runs.
type Static struct {
	Series Series
	Err    error
	Calls  int
}

// Hourly returns the configured series or error.
func (s *Static) Hourly(context.Context, Location, time.Time, time.Time) (Series, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Series, nil
}
