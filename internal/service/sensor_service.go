package service

import (
	"context"
	"sync"

	"sensorhub/internal/cache"
	"sensorhub/internal/domain"
	"sensorhub/internal/repository"

	"go.uber.org/zap"
)

// SensorService exposes the sensor operations, including the assembled
// details view combining the authoritative row with cache-resident
// aggregates and derived strings.
type SensorService struct {
	repo    repository.SensorsRepository
	stats   *cache.SensorStats
	derived *cache.DerivedStrings
	logger  *zap.Logger
}

func NewSensorService(repo repository.SensorsRepository, stats *cache.SensorStats, derived *cache.DerivedStrings, logger *zap.Logger) *SensorService {
	return &SensorService{repo: repo, stats: stats, derived: derived, logger: logger}
}

// Create assigns an id, persists the sensor and seeds the descriptor hash
// so detail reads do not need a store round trip for name/type/unit.
func (s *SensorService) Create(ctx context.Context, sensor *domain.Sensor) (*domain.Sensor, error) {
	sensor.ID = domain.NewID(domain.SensorIDPrefix)
	if err := s.repo.Create(ctx, sensor); err != nil {
		return nil, err
	}
	if err := s.stats.SeedDescriptor(ctx, sensor); err != nil {
		return nil, err
	}
	s.logger.Info("sensor created", zap.String("sensor_id", sensor.ID))
	return sensor, nil
}

func (s *SensorService) Get(ctx context.Context, id string) (*domain.Sensor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SensorService) List(ctx context.Context) ([]*domain.Sensor, error) {
	return s.repo.List(ctx)
}

func (s *SensorService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Sensor, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *SensorService) Update(ctx context.Context, id string, update repository.SensorUpdate) (*domain.Sensor, error) {
	sensor, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if update.TouchesDescriptor() {
		if err := s.stats.SeedDescriptor(ctx, sensor); err != nil {
			return nil, err
		}
	}
	return sensor, nil
}

// Delete removes the sensor row and every cache entry keyed to its id:
// the descriptor hash and both extremum keys.
func (s *SensorService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.stats.Drop(ctx, id); err != nil {
		return err
	}
	s.logger.Info("sensor deleted", zap.String("sensor_id", id))
	return nil
}

// GetDetails assembles the sensor detail view. Threshold and the two
// foreign keys always come from a fresh store read; aggregates and
// derived strings come from the cache and are individually
// absent-tolerant, so a cold cache yields "unknown" fields rather than an
// error. The three cache lookups have no data dependency and run
// concurrently.
func (s *SensorService) GetDetails(ctx context.Context, id string) (*domain.SensorDetails, error) {
	sensor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &domain.SensorDetails{Sensor: *sensor}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		agg, err := s.stats.Get(ctx, id)
		if err != nil {
			fail(err)
			return
		}
		details.LatestValue = agg.Latest
		details.MaxValue = agg.Max
		details.MinValue = agg.Min
	}()
	go func() {
		defer wg.Done()
		name, ok, err := s.derived.OwnerFullname(ctx, sensor.OwnerID)
		if err != nil {
			fail(err)
			return
		}
		if ok {
			details.OwnerName = &name
		}
	}()
	go func() {
		defer wg.Done()
		location, ok, err := s.derived.LocationString(ctx, sensor.LocationID)
		if err != nil {
			fail(err)
			return
		}
		if ok {
			details.Location = &location
		}
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return details, nil
}
