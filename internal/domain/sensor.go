package domain

// Sensor is a telemetry source owned by an Owner and sited at a Location.
// Threshold is compared against incoming observation values; a strict
// exceedance materializes an Alarm.
type Sensor struct {
	ID         string  `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	SensorType string  `json:"sensor_type" db:"sensor_type"`
	Unit       string  `json:"unit" db:"unit"`
	Threshold  float64 `json:"threshold" db:"threshold"`
	OwnerID    string  `json:"owner_id" db:"owner_id"`
	LocationID string  `json:"location_id" db:"location_id"`
}

// SensorDetails is the assembled read view: the authoritative sensor row
// combined with cache-resident aggregates and derived strings. Pointer
// fields are nil when the corresponding cache entry is absent, which a
// caller must treat as "unknown".
type SensorDetails struct {
	Sensor
	OwnerName   *string  `json:"owner_name,omitempty"`
	Location    *string  `json:"location,omitempty"`
	LatestValue *float64 `json:"latest_value,omitempty"`
	MaxValue    *float64 `json:"max_value,omitempty"`
	MinValue    *float64 `json:"min_value,omitempty"`
}
