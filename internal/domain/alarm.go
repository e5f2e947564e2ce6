package domain

// Alarm records a threshold exceedance. Alarms are only ever created as a
// side effect of observation ingestion, never directly.
type Alarm struct {
	ID         string  `json:"id" db:"id"`
	SensorID   string  `json:"sensor_id" db:"sensor_id"`
	AlarmValue float64 `json:"alarm_value" db:"alarm_value"`
	Timestamp  int64   `json:"timestamp" db:"timestamp"`
}
