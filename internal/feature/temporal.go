package feature

import (
	"time"

	"github.com/example/triptime/internal/errs"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ExtractTemporal parses the raw pickup timestamps and derives the calendar
// columns pickup_day, pickup_month, pickup_year, pickup_hour, pickup_week
// (ISO week number) and pickup_dayofweek (0=Monday..6=Sunday). It also
// records an hour-truncated key per row for the weather join. Any timestamp
// that fails to parse aborts the whole extraction: a bad timestamp means the
// upstream dataset is corrupt, not that one row should be dropped.
func ExtractTemporal(f *Frame) error {
	rows := f.Rows()
	days := make([]float64, rows)
	months := make([]float64, rows)
	years := make([]float64, rows)
	hours := make([]float64, rows)
	weeks := make([]float64, rows)
	weekdays := make([]float64, rows)
	keys := make([]time.Time, rows)

	for i, raw := range f.rawTimes {
		ts, err := parseTimestamp(raw)
		if err != nil {
			return errs.SchemaValue("pickup_datetime", raw, err)
		}
		days[i] = float64(ts.Day())
		months[i] = float64(ts.Month())
		years[i] = float64(ts.Year())
		hours[i] = float64(ts.Hour())
		_, week := ts.ISOWeek()
		weeks[i] = float64(week)
		weekdays[i] = float64((int(ts.Weekday()) + 6) % 7)
		keys[i] = ts.Truncate(time.Hour)
	}

	f.SetColumn("pickup_day", days)
	f.SetColumn("pickup_month", months)
	f.SetColumn("pickup_year", years)
	f.SetColumn("pickup_hour", hours)
	f.SetColumn("pickup_week", weeks)
	f.SetColumn("pickup_dayofweek", weekdays)
	f.hourKeys = keys
	return nil
}

func parseTimestamp(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
