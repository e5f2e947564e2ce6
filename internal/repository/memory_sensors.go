package repository

import (
	"context"
	"sort"
	"sync"

	"sensorhub/internal/domain"
)

// rowChecker answers "does this id exist" for foreign-key enforcement in
// the memory repositories.
type rowChecker interface {
	Exists(id string) bool
}

// MemorySensorsRepository is an in-memory SensorsRepository. It mirrors the
// Postgres foreign-key behavior against the owner and location checkers so
// the service layer sees identical constraint errors.
type MemorySensorsRepository struct {
	mu        sync.RWMutex
	sensors   map[string]domain.Sensor
	owners    rowChecker
	locations rowChecker
}

func NewMemorySensorsRepository(owners, locations rowChecker) *MemorySensorsRepository {
	return &MemorySensorsRepository{
		sensors:   make(map[string]domain.Sensor),
		owners:    owners,
		locations: locations,
	}
}

var _ SensorsRepository = (*MemorySensorsRepository)(nil)

// Exists reports whether the id has a row.
func (r *MemorySensorsRepository) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sensors[id]
	return ok
}

func (r *MemorySensorsRepository) checkReferences(ownerID, locationID string) error {
	if r.owners != nil && !r.owners.Exists(ownerID) {
		return &ConstraintError{Kind: ConstraintForeignKey, Constraint: "sensor_owner_id_fkey"}
	}
	if r.locations != nil && !r.locations.Exists(locationID) {
		return &ConstraintError{Kind: ConstraintForeignKey, Constraint: "sensor_location_id_fkey"}
	}
	return nil
}

func (r *MemorySensorsRepository) Create(_ context.Context, sensor *domain.Sensor) error {
	if err := r.checkReferences(sensor.OwnerID, sensor.LocationID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sensors[sensor.ID] = *sensor
	return nil
}

func (r *MemorySensorsRepository) GetByID(_ context.Context, id string) (*domain.Sensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sensors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *MemorySensorsRepository) List(_ context.Context) ([]*domain.Sensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sensors := make([]*domain.Sensor, 0, len(r.sensors))
	for id := range r.sensors {
		s := r.sensors[id]
		sensors = append(sensors, &s)
	}
	sort.Slice(sensors, func(i, j int) bool { return sensors[i].ID < sensors[j].ID })
	return sensors, nil
}

func (r *MemorySensorsRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Sensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sensors []*domain.Sensor
	for id := range r.sensors {
		if r.sensors[id].OwnerID == ownerID {
			s := r.sensors[id]
			sensors = append(sensors, &s)
		}
	}
	sort.Slice(sensors, func(i, j int) bool { return sensors[i].Name < sensors[j].Name })
	return sensors, nil
}

func (r *MemorySensorsRepository) Update(_ context.Context, id string, update SensorUpdate) (*domain.Sensor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sensors[id]
	if !ok {
		return nil, ErrNotFound
	}
	ownerID, locationID := s.OwnerID, s.LocationID
	if update.OwnerID != nil {
		ownerID = *update.OwnerID
	}
	if update.LocationID != nil {
		locationID = *update.LocationID
	}
	if err := r.checkReferences(ownerID, locationID); err != nil {
		return nil, err
	}
	if update.Name != nil {
		s.Name = *update.Name
	}
	if update.SensorType != nil {
		s.SensorType = *update.SensorType
	}
	if update.Unit != nil {
		s.Unit = *update.Unit
	}
	if update.Threshold != nil {
		s.Threshold = *update.Threshold
	}
	s.OwnerID = ownerID
	s.LocationID = locationID
	r.sensors[id] = s
	return &s, nil
}

func (r *MemorySensorsRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sensors[id]; !ok {
		return ErrNotFound
	}
	delete(r.sensors, id)
	return nil
}
