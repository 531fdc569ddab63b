package feature_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/triptime/internal/feature"
	"github.com/example/triptime/internal/weather"
)

func hour(h int) time.Time {
	return time.Date(2016, 1, 1, h, 0, 0, 0, time.UTC)
}

func enrichedFrame(t *testing.T, timestamps ...string) *feature.Frame {
	t.Helper()
	f := feature.FromTrips(tripsAt(timestamps...))
	require.NoError(t, feature.ExtractTemporal(f))
	return f
}

func TestJoinWeatherMatchesOnTruncatedHour(t *testing.T) {
	f := enrichedFrame(t, "2016-01-01 08:12:45")
	series := weather.Series{{Time: hour(8), Temp: 5.0, Prcp: 0.25}}

	require.NoError(t, feature.JoinWeather(f, series))
	require.Equal(t, 5.0, columnValue(t, f, "temp", 0))
	require.Equal(t, 0.25, columnValue(t, f, "prcp", 0))
}

func TestJoinWeatherKeepsEveryTripRow(t *testing.T) {
	cases := map[string]weather.Series{
		"empty series": {},
		"one match":    {{Time: hour(8), Temp: 5}},
		"duplicate hours": {
			{Time: hour(8), Temp: 5},
			{Time: hour(8), Temp: 99},
			{Time: hour(8), Temp: -40},
		},
	}
	for name, series := range cases {
		t.Run(name, func(t *testing.T) {
			f := enrichedFrame(t, "2016-01-01 08:00:00", "2016-01-01 08:30:00", "2016-01-01 09:00:00")
			before := f.Rows()
			require.NoError(t, feature.JoinWeather(f, series))
			require.Equal(t, before, f.Rows())
			temp, _ := f.Column("temp")
			require.Len(t, temp, before)
		})
	}
}

func TestJoinWeatherDeduplicatesKeepingFirst(t *testing.T) {
	f := enrichedFrame(t, "2016-01-01 08:00:00")
	series := weather.Series{
		{Time: hour(8), Temp: 5, Prcp: 0},
		{Time: hour(8), Temp: 99, Prcp: 9},
	}

	require.NoError(t, feature.JoinWeather(f, series))
	require.Equal(t, 5.0, columnValue(t, f, "temp", 0))
	require.Equal(t, 0.0, columnValue(t, f, "prcp", 0))
}

func TestJoinWeatherUnmatchedRowsGetNaN(t *testing.T) {
	f := enrichedFrame(t, "2016-01-01 08:00:00", "2016-01-01 11:00:00")
	series := weather.Series{{Time: hour(8), Temp: 5, Prcp: 1}}

	require.NoError(t, feature.JoinWeather(f, series))
	require.Equal(t, 5.0, columnValue(t, f, "temp", 0))
	require.True(t, math.IsNaN(columnValue(t, f, "temp", 1)))
	require.True(t, math.IsNaN(columnValue(t, f, "prcp", 1)))
}

func TestJoinWeatherRequiresTemporalExtraction(t *testing.T) {
	f := feature.FromTrips(tripsAt("2016-01-01 08:00:00"))
	err := feature.JoinWeather(f, weather.Series{})
	require.Error(t, err)
}
