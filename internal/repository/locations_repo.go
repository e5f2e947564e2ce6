package repository

import (
	"context"

	"sensorhub/internal/domain"
)

// LocationUpdate carries a partial update; nil fields are left untouched.
type LocationUpdate struct {
	Longitude *float64
	Latitude  *float64
	Country   *string
	City      *string
}

func (u LocationUpdate) Empty() bool {
	return u.Longitude == nil && u.Latitude == nil && u.Country == nil && u.City == nil
}

// TouchesDisplay reports whether the update can change the derived
// "city, country" string.
func (u LocationUpdate) TouchesDisplay() bool {
	return u.City != nil || u.Country != nil
}

// LocationsRepository is the durable-store surface for locations.
type LocationsRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Location, error)
	List(ctx context.Context) ([]*domain.Location, error)
	Update(ctx context.Context, id string, update LocationUpdate) (*domain.Location, error)
	Delete(ctx context.Context, id string) error
}
