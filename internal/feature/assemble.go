package feature

import (
	"strings"

	"github.com/example/triptime/internal/errs"
)

// Columns is the model input contract: the exact features, in the exact
// order, that a regressor is fitted on and predicts from.
var Columns = []string{
	"passenger_count",
	"pickup_longitude",
	"pickup_latitude",
	"dropoff_longitude",
	"dropoff_latitude",
	"distance_km",
	"pickup_day",
	"pickup_hour",
	"pickup_dayofweek",
	"temp",
	"prcp",
}

// Assemble projects the frame down to the model input contract. This is the
// single validation checkpoint in front of the model: every contract column
// must be present or the whole operation fails naming the absent ones.
// Extraneous columns are ignored.
func Assemble(f *Frame) (*Matrix, error) {
	var missing []string
	for _, name := range Columns {
		if _, ok := f.Column(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errs.Schema(strings.Join(missing, ", "))
	}

	m := NewMatrix(Columns, f.Rows())
	for j, name := range Columns {
		col, _ := f.Column(name)
		for i, v := range col {
			m.Set(i, j, v)
		}
	}
	return m, nil
}
