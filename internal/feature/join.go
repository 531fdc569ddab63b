package feature

import (
	"math"
	"time"

	"github.com/example/triptime/internal/errs"
	"github.com/example/triptime/internal/weather"
)

// JoinWeather left-joins the hourly weather series onto the frame using the
// hour-truncated pickup keys. Every trip row is kept whether or not a
// weather row matches; unmatched rows get NaN temp and prcp. The series is
// deduplicated keeping the first observation per hour, so the join can never
// fan out and the row count is unchanged by construction.
func JoinWeather(f *Frame, series weather.Series) error {
	if f.hourKeys == nil {
		return errs.Schema("pickup_datetime_hour_trunc")
	}

	byHour := make(map[time.Time]weather.Observation, len(series))
	for _, obs := range series {
		key := obs.Time.UTC().Truncate(time.Hour)
		if _, seen := byHour[key]; seen {
			continue
		}
		byHour[key] = obs
	}

	temps := make([]float64, f.Rows())
	prcps := make([]float64, f.Rows())
	for i, key := range f.hourKeys {
		obs, ok := byHour[key]
		if !ok {
			temps[i] = math.NaN()
			prcps[i] = math.NaN()
			continue
		}
		temps[i] = obs.Temp
		prcps[i] = obs.Prcp
	}
	f.SetColumn("temp", temps)
	f.SetColumn("prcp", prcps)
	return nil
}
