package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WritePredictions writes predictions to path as a two-column CSV with an
// id,trip_duration header, one row per prediction, in the given order.
// Repeated runs over the same predictions produce byte-identical files.
func WritePredictions(path string, predictions []Prediction) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	w := csv.NewWriter(file)
	if err := w.Write([]string{"id", "trip_duration"}); err != nil {
		_ = file.Close()
		return fmt.Errorf("write output header: %w", err)
	}
	for _, p := range predictions {
		row := []string{p.ID, strconv.FormatFloat(p.TripDuration, 'f', -1, 64)}
		if err := w.Write(row); err != nil {
			_ = file.Close()
			return fmt.Errorf("write output row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	return file.Close()
}
