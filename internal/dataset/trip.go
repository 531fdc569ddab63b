package dataset

// Trip is one taxi ride as loaded from the input dataset. The ID is opaque
// and carried through untouched so predictions can be paired back to it.
type Trip struct {
	ID               string
	PassengerCount   int
	PickupLongitude  float64
	PickupLatitude   float64
	DropoffLongitude float64
	DropoffLatitude  float64
	PickupDatetime   string
	TripDuration     float64
	HasDuration      bool
}

// Prediction pairs a trip id with its predicted duration in seconds.
type Prediction struct {
	ID           string  `json:"id"`
	TripDuration float64 `json:"trip_duration"`
}
