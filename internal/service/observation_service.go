package service

import (
	"context"
	"errors"

	"sensorhub/internal/cache"
	"sensorhub/internal/domain"
	"sensorhub/internal/repository"

	"go.uber.org/zap"
)

// AlarmNotifier is told about every alarm the threshold rule materializes.
// Implementations must not block ingestion.
type AlarmNotifier interface {
	Notify(alarm *domain.Alarm)
}

// ObservationService records observations and owns the threshold-triggered
// alarm rule. Ingestion is strictly ordered: the observation row commits
// first, then the cached aggregate is folded, then the threshold is
// evaluated against a fresh sensor read.
type ObservationService struct {
	repo     repository.ObservationsRepository
	sensors  repository.SensorsRepository
	alarms   repository.AlarmsRepository
	stats    *cache.SensorStats
	notifier AlarmNotifier
	logger   *zap.Logger
}

func NewObservationService(
	repo repository.ObservationsRepository,
	sensors repository.SensorsRepository,
	alarms repository.AlarmsRepository,
	stats *cache.SensorStats,
	notifier AlarmNotifier,
	logger *zap.Logger,
) *ObservationService {
	return &ObservationService{
		repo:     repo,
		sensors:  sensors,
		alarms:   alarms,
		stats:    stats,
		notifier: notifier,
		logger:   logger,
	}
}

// Record ingests one observation. A value strictly greater than the
// sensor's threshold creates an alarm carrying the same sensor id, value
// and timestamp; equality does not trigger. A sensor deleted between the
// insert and the threshold read skips alarm creation silently, and the
// observation still succeeds.
func (s *ObservationService) Record(ctx context.Context, sensorID string, value float64, timestamp int64) (*domain.Observation, error) {
	observation := &domain.Observation{
		ID:        domain.NewID(domain.ObservationIDPrefix),
		SensorID:  sensorID,
		Value:     value,
		Timestamp: timestamp,
	}
	if err := s.repo.Create(ctx, observation); err != nil {
		return nil, err
	}

	if err := s.stats.Record(ctx, sensorID, value); err != nil {
		return nil, err
	}

	if err := s.evaluateThreshold(ctx, observation); err != nil {
		return nil, err
	}

	return observation, nil
}

// evaluateThreshold is a one-shot rule: each breaching observation creates
// its own alarm, with no deduplication across consecutive breaches. The
// threshold is read fresh from the store, never from the cache.
func (s *ObservationService) evaluateThreshold(ctx context.Context, observation *domain.Observation) error {
	sensor, err := s.sensors.GetByID(ctx, observation.SensorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if observation.Value <= sensor.Threshold {
		return nil
	}

	alarm := &domain.Alarm{
		ID:         domain.NewID(domain.AlarmIDPrefix),
		SensorID:   observation.SensorID,
		AlarmValue: observation.Value,
		Timestamp:  observation.Timestamp,
	}
	if err := s.alarms.Create(ctx, alarm); err != nil {
		return err
	}
	s.logger.Info("threshold exceeded, alarm created",
		zap.String("sensor_id", sensor.ID),
		zap.Float64("value", observation.Value),
		zap.Float64("threshold", sensor.Threshold),
	)
	if s.notifier != nil {
		s.notifier.Notify(alarm)
	}
	return nil
}

func (s *ObservationService) Get(ctx context.Context, id string) (*domain.Observation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ObservationService) List(ctx context.Context) ([]*domain.Observation, error) {
	return s.repo.List(ctx)
}

func (s *ObservationService) ListBySensor(ctx context.Context, sensorID string, limit int) ([]*domain.Observation, error) {
	return s.repo.ListBySensor(ctx, sensorID, limit)
}

// Delete removes the observation row. The sensor's cached max/min/latest
// are NOT recomputed, so the aggregate can stay stale relative to the
// remaining observations indefinitely. Known gap.
func (s *ObservationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
