package repository

import (
	"context"
	"sort"
	"sync"

	"sensorhub/internal/domain"
)

// MemoryLocationsRepository is an in-memory LocationsRepository used by
// tests and as the DB-less dev fallback.
type MemoryLocationsRepository struct {
	mu        sync.RWMutex
	locations map[string]domain.Location
}

func NewMemoryLocationsRepository() *MemoryLocationsRepository {
	return &MemoryLocationsRepository{locations: make(map[string]domain.Location)}
}

var _ LocationsRepository = (*MemoryLocationsRepository)(nil)

// Exists reports whether the id has a row.
func (r *MemoryLocationsRepository) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.locations[id]
	return ok
}

func (r *MemoryLocationsRepository) Create(_ context.Context, location *domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations[location.ID] = *location
	return nil
}

func (r *MemoryLocationsRepository) GetByID(_ context.Context, id string) (*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.locations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (r *MemoryLocationsRepository) GetByIDs(_ context.Context, ids []string) ([]*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var locations []*domain.Location
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if l, ok := r.locations[id]; ok {
			location := l
			locations = append(locations, &location)
		}
	}
	return locations, nil
}

func (r *MemoryLocationsRepository) List(_ context.Context) ([]*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	locations := make([]*domain.Location, 0, len(r.locations))
	for id := range r.locations {
		l := r.locations[id]
		locations = append(locations, &l)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].ID < locations[j].ID })
	return locations, nil
}

func (r *MemoryLocationsRepository) Update(_ context.Context, id string, update LocationUpdate) (*domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Longitude != nil {
		l.Longitude = *update.Longitude
	}
	if update.Latitude != nil {
		l.Latitude = *update.Latitude
	}
	if update.Country != nil {
		l.Country = *update.Country
	}
	if update.City != nil {
		l.City = *update.City
	}
	r.locations[id] = l
	return &l, nil
}

func (r *MemoryLocationsRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locations[id]; !ok {
		return ErrNotFound
	}
	delete(r.locations, id)
	return nil
}
