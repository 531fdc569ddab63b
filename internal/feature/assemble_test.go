package feature_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/triptime/internal/dataset"
	"github.com/example/triptime/internal/errs"
	"github.com/example/triptime/internal/feature"
	"github.com/example/triptime/internal/weather"
)

func fullyEnriched(t *testing.T) *feature.Frame {
	t.Helper()
	f := feature.FromTrips([]dataset.Trip{{
		PassengerCount:   1,
		PickupLatitude:   40.7128,
		PickupLongitude:  -74.0060,
		DropoffLatitude:  40.7306,
		DropoffLongitude: -73.9352,
		PickupDatetime:   "2016-01-01 08:00:00",
	}})
	require.NoError(t, feature.AddDistance(f))
	require.NoError(t, feature.ExtractTemporal(f))
	require.NoError(t, feature.JoinWeather(f, weather.Series{{Time: hour(8), Temp: 5, Prcp: 0}}))
	return f
}

func TestAssembleProjectsContractColumnsInOrder(t *testing.T) {
	f := fullyEnriched(t)
	m, err := feature.Assemble(f)
	require.NoError(t, err)

	require.Equal(t, feature.Columns, m.Names)
	require.Equal(t, 1, m.Rows())
	require.Equal(t, 11, m.Cols())
	require.Equal(t, 1.0, m.At(0, 0))   // passenger_count
	require.Equal(t, 8.0, m.At(0, 7))   // pickup_hour
	require.Equal(t, 5.0, m.At(0, 9))   // temp
}

func TestAssembleIgnoresExtraneousColumns(t *testing.T) {
	f := fullyEnriched(t)
	f.SetColumn("pickup_week_noise", []float64{42})

	m, err := feature.Assemble(f)
	require.NoError(t, err)
	require.Equal(t, feature.Columns, m.Names)
}

func TestAssembleFailsNamingMissingColumns(t *testing.T) {
	f := feature.FromTrips([]dataset.Trip{{PickupDatetime: "2016-01-01 08:00:00"}})
	// No distance, temporal or weather stages were run.
	_, err := feature.Assemble(f)
	require.Error(t, err)

	var schemaErr *errs.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Contains(t, schemaErr.Column, "distance_km")
	require.Contains(t, schemaErr.Column, "temp")
	require.Contains(t, schemaErr.Column, "prcp")
	require.NotContains(t, schemaErr.Column, "passenger_count")
}

func TestAssembleFailsOnSingleMissingColumn(t *testing.T) {
	// The base trip columns always exist on a frame, so only the derived
	// columns can individually go missing.
	derived := []string{"distance_km", "pickup_day", "pickup_hour", "pickup_dayofweek", "temp", "prcp"}
	for _, drop := range derived {
		f := feature.FromTrips([]dataset.Trip{{PickupDatetime: "2016-01-01 08:00:00"}})
		for _, name := range derived {
			if name == drop {
				continue
			}
			f.SetColumn(name, []float64{1})
		}
		_, err := feature.Assemble(f)
		var schemaErr *errs.SchemaError
		require.ErrorAs(t, err, &schemaErr, "dropping %s", drop)
		require.Equal(t, drop, schemaErr.Column)
	}
}
