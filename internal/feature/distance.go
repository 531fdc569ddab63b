package feature

import (
	"math"

	"github.com/example/triptime/internal/errs"
)

const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// points given in degrees. Flattening is ignored; the error is acceptable
// at city scale. NaN coordinates yield a NaN distance.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// AddDistance derives the distance_km column from the pickup and dropoff
// coordinate columns, element-wise over the whole frame.
func AddDistance(f *Frame) error {
	pickupLat, err := column(f, "pickup_latitude")
	if err != nil {
		return err
	}
	pickupLon, err := column(f, "pickup_longitude")
	if err != nil {
		return err
	}
	dropoffLat, err := column(f, "dropoff_latitude")
	if err != nil {
		return err
	}
	dropoffLon, err := column(f, "dropoff_longitude")
	if err != nil {
		return err
	}

	distances := make([]float64, f.Rows())
	for i := range distances {
		distances[i] = Haversine(pickupLat[i], pickupLon[i], dropoffLat[i], dropoffLon[i])
	}
	f.SetColumn("distance_km", distances)
	return nil
}

func column(f *Frame, name string) ([]float64, error) {
	col, ok := f.Column(name)
	if !ok {
		return nil, errs.Schema(name)
	}
	return col, nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
