package cache

// Cache key shapes. Derived strings and extremum values are plain keys
// keyed by entity id; the per-sensor descriptor is a hash.
func fullnameKey(ownerID string) string    { return ownerID + "/fullname" }
func locationKey(locationID string) string { return locationID + "/location" }
func maxValueKey(sensorID string) string   { return sensorID + "/max_value" }
func minValueKey(sensorID string) string   { return sensorID + "/min_value" }
func descriptorKey(sensorID string) string { return "sensors:" + sensorID }

// Descriptor hash fields.
const (
	fieldName        = "name"
	fieldSensorType  = "sensor_type"
	fieldUnit        = "unit"
	fieldLatestValue = "latest_value"
)
