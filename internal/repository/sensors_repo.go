package repository

import (
	"context"

	"sensorhub/internal/domain"
)

// SensorUpdate carries a partial update; nil fields are left untouched.
type SensorUpdate struct {
	Name       *string
	SensorType *string
	Unit       *string
	Threshold  *float64
	OwnerID    *string
	LocationID *string
}

func (u SensorUpdate) Empty() bool {
	return u.Name == nil && u.SensorType == nil && u.Unit == nil &&
		u.Threshold == nil && u.OwnerID == nil && u.LocationID == nil
}

// TouchesDescriptor reports whether the update can change the cached
// sensor descriptor (name, type, unit).
func (u SensorUpdate) TouchesDescriptor() bool {
	return u.Name != nil || u.SensorType != nil || u.Unit != nil
}

// SensorsRepository is the durable-store surface for sensors.
type SensorsRepository interface {
	Create(ctx context.Context, sensor *domain.Sensor) error
	GetByID(ctx context.Context, id string) (*domain.Sensor, error)
	List(ctx context.Context) ([]*domain.Sensor, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Sensor, error)
	Update(ctx context.Context, id string, update SensorUpdate) (*domain.Sensor, error)
	Delete(ctx context.Context, id string) error
}
