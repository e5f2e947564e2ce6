package repository

import (
	"context"
	"sort"
	"sync"

	"sensorhub/internal/domain"
)

// MemoryAlarmsRepository is an in-memory AlarmsRepository.
type MemoryAlarmsRepository struct {
	mu      sync.RWMutex
	alarms  map[string]domain.Alarm
	sensors rowChecker
}

func NewMemoryAlarmsRepository(sensors rowChecker) *MemoryAlarmsRepository {
	return &MemoryAlarmsRepository{
		alarms:  make(map[string]domain.Alarm),
		sensors: sensors,
	}
}

var _ AlarmsRepository = (*MemoryAlarmsRepository)(nil)

func (r *MemoryAlarmsRepository) Create(_ context.Context, alarm *domain.Alarm) error {
	if r.sensors != nil && !r.sensors.Exists(alarm.SensorID) {
		return &ConstraintError{Kind: ConstraintForeignKey, Constraint: "alarm_sensor_id_fkey"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alarms[alarm.ID] = *alarm
	return nil
}

func (r *MemoryAlarmsRepository) GetByID(_ context.Context, id string) (*domain.Alarm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.alarms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryAlarmsRepository) List(_ context.Context) ([]*domain.Alarm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	alarms := make([]*domain.Alarm, 0, len(r.alarms))
	for id := range r.alarms {
		a := r.alarms[id]
		alarms = append(alarms, &a)
	}
	sortAlarmsNewestFirst(alarms)
	return alarms, nil
}

func (r *MemoryAlarmsRepository) ListBySensor(_ context.Context, sensorID string, limit int) ([]*domain.Alarm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var alarms []*domain.Alarm
	for id := range r.alarms {
		if r.alarms[id].SensorID == sensorID {
			a := r.alarms[id]
			alarms = append(alarms, &a)
		}
	}
	sortAlarmsNewestFirst(alarms)
	if limit > 0 && len(alarms) > limit {
		alarms = alarms[:limit]
	}
	return alarms, nil
}

func (r *MemoryAlarmsRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alarms[id]; !ok {
		return ErrNotFound
	}
	delete(r.alarms, id)
	return nil
}

func sortAlarmsNewestFirst(alarms []*domain.Alarm) {
	sort.Slice(alarms, func(i, j int) bool {
		if alarms[i].Timestamp != alarms[j].Timestamp {
			return alarms[i].Timestamp > alarms[j].Timestamp
		}
		return alarms[i].ID < alarms[j].ID
	})
}
