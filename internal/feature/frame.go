package feature

import (
	"fmt"
	"time"

	"github.com/example/triptime/internal/dataset"
)

// Frame is a column-oriented view over a trip dataset. Columns are keyed by
// name and share one row count; row order always matches the order the trips
// were loaded in, which is what lets predictions be paired back by position.
type Frame struct {
	rows     int
	order    []string
	cols     map[string][]float64
	rawTimes []string
	hourKeys []time.Time
}

// FromTrips builds a Frame carrying the base trip columns plus the raw
// pickup timestamps for later temporal extraction.
func FromTrips(trips []dataset.Trip) *Frame {
	f := &Frame{
		rows:     len(trips),
		cols:     map[string][]float64{},
		rawTimes: make([]string, len(trips)),
	}
	passengers := make([]float64, len(trips))
	pickupLon := make([]float64, len(trips))
	pickupLat := make([]float64, len(trips))
	dropoffLon := make([]float64, len(trips))
	dropoffLat := make([]float64, len(trips))
	for i, t := range trips {
		passengers[i] = float64(t.PassengerCount)
		pickupLon[i] = t.PickupLongitude
		pickupLat[i] = t.PickupLatitude
		dropoffLon[i] = t.DropoffLongitude
		dropoffLat[i] = t.DropoffLatitude
		f.rawTimes[i] = t.PickupDatetime
	}
	f.SetColumn("passenger_count", passengers)
	f.SetColumn("pickup_longitude", pickupLon)
	f.SetColumn("pickup_latitude", pickupLat)
	f.SetColumn("dropoff_longitude", dropoffLon)
	f.SetColumn("dropoff_latitude", dropoffLat)
	return f
}

// Rows returns the row count, which is invariant across all stages.
func (f *Frame) Rows() int { return f.rows }

// SetColumn stores values under name, replacing any existing column.
// Panics if the length does not match the frame's row count; stages always
// derive columns from existing ones, so a mismatch is a programming error.
func (f *Frame) SetColumn(name string, values []float64) {
	if len(values) != f.rows {
		panic(fmt.Sprintf("feature: column %s has %d values for %d rows", name, len(values), f.rows))
	}
	if _, exists := f.cols[name]; !exists {
		f.order = append(f.order, name)
	}
	f.cols[name] = values
}

// Column returns the named column and whether it exists.
func (f *Frame) Column(name string) ([]float64, bool) {
	col, ok := f.cols[name]
	return col, ok
}

// Columns lists column names in insertion order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.order...)
}

// HourKeys exposes the hour-truncated join keys set by ExtractTemporal.
func (f *Frame) HourKeys() []time.Time {
	return f.hourKeys
}

// Matrix is the assembled, fixed-order numeric input handed to the model.
type Matrix struct {
	Names []string
	rows  int
	data  []float64
}

// NewMatrix allocates a rows x len(names) matrix, zero filled.
func NewMatrix(names []string, rows int) *Matrix {
	return &Matrix{Names: names, rows: rows, data: make([]float64, rows*len(names))}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return len(m.Names) }

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.data[i*len(m.Names)+j] }

// Set stores v at row i, column j.
func (m *Matrix) Set(i, j int, v float64) { m.data[i*len(m.Names)+j] = v }
