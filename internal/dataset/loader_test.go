package dataset_test

import (
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/triptime/internal/dataset"
	"github.com/example/triptime/internal/errs"
)

const trainCSV = `id,passenger_count,pickup_longitude,pickup_latitude,dropoff_longitude,dropoff_latitude,pickup_datetime,trip_duration
id001,1,-74.0060,40.7128,-73.9352,40.7306,2016-01-01 08:00:00,600
id002,2,-73.9900,40.7500,-73.9800,40.7600,2016-01-02 18:30:00,455.5
`

const testCSV = `id,passenger_count,pickup_longitude,pickup_latitude,dropoff_longitude,dropoff_latitude,pickup_datetime
id003,4,-73.9700,40.7800,-73.9500,40.7900,2016-02-14 23:59:59
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPlainCSV(t *testing.T) {
	path := writeFile(t, "train.csv", trainCSV)
	trips, err := dataset.Load(path)
	require.NoError(t, err)
	require.Len(t, trips, 2)

	require.Equal(t, "id001", trips[0].ID)
	require.Equal(t, 1, trips[0].PassengerCount)
	require.Equal(t, -74.0060, trips[0].PickupLongitude)
	require.Equal(t, 40.7128, trips[0].PickupLatitude)
	require.Equal(t, "2016-01-01 08:00:00", trips[0].PickupDatetime)
	require.True(t, trips[0].HasDuration)
	require.Equal(t, 600.0, trips[0].TripDuration)

	// Row order of the file is preserved.
	require.Equal(t, "id002", trips[1].ID)
	require.Equal(t, 455.5, trips[1].TripDuration)
}

func TestLoadWithoutDurationColumn(t *testing.T) {
	path := writeFile(t, "test.csv", testCSV)
	trips, err := dataset.Load(path)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	require.False(t, trips[0].HasDuration)
}

func TestLoadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(file)
	_, err = gz.Write([]byte(trainCSV))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())

	trips, err := dataset.Load(path)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	require.Equal(t, "id001", trips[0].ID)
}

func TestLoadZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.zip")
	file, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(file)
	entry, err := zw.Create("train.csv")
	require.NoError(t, err)
	_, err = entry.Write([]byte(trainCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, file.Close())

	trips, err := dataset.Load(path)
	require.NoError(t, err)
	require.Len(t, trips, 2)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")
	_, err := dataset.Load(path)

	var missing *errs.MissingResourceError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, path, missing.Path)
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeFile(t, "bad.csv", "id,passenger_count\nid001,1\n")
	_, err := dataset.Load(path)

	var schemaErr *errs.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, "pickup_longitude", schemaErr.Column)
}

func TestLoadUnparsableValue(t *testing.T) {
	bad := `id,passenger_count,pickup_longitude,pickup_latitude,dropoff_longitude,dropoff_latitude,pickup_datetime
id001,many,-74.0,40.7,-73.9,40.7,2016-01-01 08:00:00
`
	path := writeFile(t, "bad.csv", bad)
	_, err := dataset.Load(path)

	var schemaErr *errs.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, "passenger_count", schemaErr.Column)
	require.Equal(t, "many", schemaErr.Value)
}

func TestWritePredictionsIsOrderPreservingAndStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submission.csv")
	predictions := []dataset.Prediction{
		{ID: "id002", TripDuration: 455.5},
		{ID: "id001", TripDuration: 600},
	}

	require.NoError(t, dataset.WritePredictions(path, predictions))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "id,trip_duration\nid002,455.5\nid001,600\n", string(first))

	require.NoError(t, dataset.WritePredictions(path, predictions))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
