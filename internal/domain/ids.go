package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity id prefixes. Ids are opaque strings of the form
// "<prefix>_<unix ms>_<random>", assigned at creation time.
const (
	OwnerIDPrefix       = "owner"
	LocationIDPrefix    = "location"
	SensorIDPrefix      = "sensor"
	ObservationIDPrefix = "obs"
	AlarmIDPrefix       = "alarm"
)

// NewID builds a collision-resistant entity id. The millisecond component
// keeps ids roughly sortable by creation time; the uuid fragment guards
// against same-millisecond collisions.
func NewID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
}
