package repository

import (
	"context"

	"sensorhub/internal/domain"
)

// ObservationsRepository is the durable-store surface for observations.
// Observations are append-only; there is no update.
type ObservationsRepository interface {
	Create(ctx context.Context, observation *domain.Observation) error
	GetByID(ctx context.Context, id string) (*domain.Observation, error)
	// List returns all observations, newest first.
	List(ctx context.Context) ([]*domain.Observation, error)
	// ListBySensor returns a sensor's observations, newest first.
	// limit <= 0 means no limit.
	ListBySensor(ctx context.Context, sensorID string, limit int) ([]*domain.Observation, error)
	Delete(ctx context.Context, id string) error
}
