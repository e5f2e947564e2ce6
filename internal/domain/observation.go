package domain

// Observation is a single reading emitted by a sensor.
// Timestamp is milliseconds since epoch.
type Observation struct {
	ID        string  `json:"id" db:"id"`
	SensorID  string  `json:"sensor_id" db:"sensor_id"`
	Value     float64 `json:"value" db:"value"`
	Timestamp int64   `json:"timestamp" db:"timestamp"`
}
