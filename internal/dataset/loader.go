package dataset

import (
	"archive/zip"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/triptime/internal/errs"
)

var requiredColumns = []string{
	"id",
	"passenger_count",
	"pickup_longitude",
	"pickup_latitude",
	"dropoff_longitude",
	"dropoff_latitude",
	"pickup_datetime",
}

// Load reads a trip dataset from a comma-delimited file. Compression is
// detected by suffix: .gz and .zip are decompressed, anything else is read
// as-is. Row order of the file is preserved in the returned slice.
func Load(path string) ([]Trip, error) {
	reader, closer, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	return parseTrips(reader)
}

func openDataset(path string) (io.Reader, func(), error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, errs.MissingResource(path, err)
		}
		return nil, nil, fmt.Errorf("open dataset: %w", err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, nil, fmt.Errorf("open gzip dataset: %w", err)
		}
		return gz, func() { _ = gz.Close(); _ = file.Close() }, nil
	case strings.HasSuffix(path, ".zip"):
		_ = file.Close()
		return openZip(path)
	default:
		return file, func() { _ = file.Close() }, nil
	}
}

func openZip(path string) (io.Reader, func(), error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open zip dataset: %w", err)
	}
	for _, entry := range archive.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		f, err := entry.Open()
		if err != nil {
			_ = archive.Close()
			return nil, nil, fmt.Errorf("open zip entry %s: %w", entry.Name, err)
		}
		return f, func() { _ = f.Close(); _ = archive.Close() }, nil
	}
	_ = archive.Close()
	return nil, nil, fmt.Errorf("zip dataset %s contains no files", path)
}

func parseTrips(r io.Reader) ([]Trip, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, errs.Schema(col)
		}
	}
	durationCol, hasDuration := index["trip_duration"]

	var trips []Trip
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}

		trip := Trip{ID: record[index["id"]], PickupDatetime: record[index["pickup_datetime"]]}
		if trip.PassengerCount, err = parseInt(record, index, "passenger_count"); err != nil {
			return nil, err
		}
		if trip.PickupLongitude, err = parseFloat(record, index, "pickup_longitude"); err != nil {
			return nil, err
		}
		if trip.PickupLatitude, err = parseFloat(record, index, "pickup_latitude"); err != nil {
			return nil, err
		}
		if trip.DropoffLongitude, err = parseFloat(record, index, "dropoff_longitude"); err != nil {
			return nil, err
		}
		if trip.DropoffLatitude, err = parseFloat(record, index, "dropoff_latitude"); err != nil {
			return nil, err
		}
		if hasDuration {
			value := record[durationCol]
			trip.TripDuration, err = strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, errs.SchemaValue("trip_duration", value, err)
			}
			trip.HasDuration = true
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

func parseFloat(record []string, index map[string]int, col string) (float64, error) {
	value := record[index[col]]
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errs.SchemaValue(col, value, err)
	}
	return parsed, nil
}

func parseInt(record []string, index map[string]int, col string) (int, error) {
	value := record[index[col]]
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errs.SchemaValue(col, value, err)
	}
	return parsed, nil
}
