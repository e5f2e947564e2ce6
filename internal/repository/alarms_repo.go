package repository

import (
	"context"

	"sensorhub/internal/domain"
)

// AlarmsRepository is the durable-store surface for alarms.
// Alarm rows are only inserted by the threshold rule.
type AlarmsRepository interface {
	Create(ctx context.Context, alarm *domain.Alarm) error
	GetByID(ctx context.Context, id string) (*domain.Alarm, error)
	// List returns all alarms, newest first.
	List(ctx context.Context) ([]*domain.Alarm, error)
	// ListBySensor returns a sensor's alarms, newest first.
	// limit <= 0 means no limit.
	ListBySensor(ctx context.Context, sensorID string, limit int) ([]*domain.Alarm, error)
	Delete(ctx context.Context, id string) error
}
