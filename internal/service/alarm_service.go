package service

import (
	"context"

	"sensorhub/internal/domain"
	"sensorhub/internal/repository"

	"go.uber.org/zap"
)

// AlarmService exposes read and delete operations over alarms. Creation
// happens only inside the threshold rule (see ObservationService).
type AlarmService struct {
	repo   repository.AlarmsRepository
	logger *zap.Logger
}

func NewAlarmService(repo repository.AlarmsRepository, logger *zap.Logger) *AlarmService {
	return &AlarmService{repo: repo, logger: logger}
}

func (s *AlarmService) Get(ctx context.Context, id string) (*domain.Alarm, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AlarmService) List(ctx context.Context) ([]*domain.Alarm, error) {
	return s.repo.List(ctx)
}

func (s *AlarmService) ListBySensor(ctx context.Context, sensorID string, limit int) ([]*domain.Alarm, error) {
	return s.repo.ListBySensor(ctx, sensorID, limit)
}

func (s *AlarmService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
