package repository

import (
	"context"
	"sort"
	"sync"

	"sensorhub/internal/domain"
)

// MemoryObservationsRepository is an in-memory ObservationsRepository.
type MemoryObservationsRepository struct {
	mu           sync.RWMutex
	observations map[string]domain.Observation
	sensors      rowChecker
}

func NewMemoryObservationsRepository(sensors rowChecker) *MemoryObservationsRepository {
	return &MemoryObservationsRepository{
		observations: make(map[string]domain.Observation),
		sensors:      sensors,
	}
}

var _ ObservationsRepository = (*MemoryObservationsRepository)(nil)

func (r *MemoryObservationsRepository) Create(_ context.Context, observation *domain.Observation) error {
	if r.sensors != nil && !r.sensors.Exists(observation.SensorID) {
		return &ConstraintError{Kind: ConstraintForeignKey, Constraint: "observation_sensor_id_fkey"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observations[observation.ID] = *observation
	return nil
}

func (r *MemoryObservationsRepository) GetByID(_ context.Context, id string) (*domain.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.observations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *MemoryObservationsRepository) List(_ context.Context) ([]*domain.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	observations := make([]*domain.Observation, 0, len(r.observations))
	for id := range r.observations {
		o := r.observations[id]
		observations = append(observations, &o)
	}
	sortObservationsNewestFirst(observations)
	return observations, nil
}

func (r *MemoryObservationsRepository) ListBySensor(_ context.Context, sensorID string, limit int) ([]*domain.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var observations []*domain.Observation
	for id := range r.observations {
		if r.observations[id].SensorID == sensorID {
			o := r.observations[id]
			observations = append(observations, &o)
		}
	}
	sortObservationsNewestFirst(observations)
	if limit > 0 && len(observations) > limit {
		observations = observations[:limit]
	}
	return observations, nil
}

func (r *MemoryObservationsRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.observations[id]; !ok {
		return ErrNotFound
	}
	delete(r.observations, id)
	return nil
}

func sortObservationsNewestFirst(observations []*domain.Observation) {
	sort.Slice(observations, func(i, j int) bool {
		if observations[i].Timestamp != observations[j].Timestamp {
			return observations[i].Timestamp > observations[j].Timestamp
		}
		return observations[i].ID < observations[j].ID
	})
}
