package service

import (
	"context"

	"sensorhub/internal/cache"
	"sensorhub/internal/domain"
	"sensorhub/internal/repository"

	"go.uber.org/zap"
)

// LocationService exposes the location operations, mirroring OwnerService
// with the "city, country" derived string.
type LocationService struct {
	repo    repository.LocationsRepository
	derived *cache.DerivedStrings
	logger  *zap.Logger
}

func NewLocationService(repo repository.LocationsRepository, derived *cache.DerivedStrings, logger *zap.Logger) *LocationService {
	return &LocationService{repo: repo, derived: derived, logger: logger}
}

func (s *LocationService) Create(ctx context.Context, location *domain.Location) (*domain.Location, error) {
	location.ID = domain.NewID(domain.LocationIDPrefix)
	if err := s.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	if err := s.derived.SeedLocation(ctx, location); err != nil {
		return nil, err
	}
	s.logger.Info("location created", zap.String("location_id", location.ID))
	return location, nil
}

func (s *LocationService) Get(ctx context.Context, id string) (*domain.Location, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *LocationService) List(ctx context.Context) ([]*domain.Location, error) {
	return s.repo.List(ctx)
}

func (s *LocationService) Update(ctx context.Context, id string, update repository.LocationUpdate) (*domain.Location, error) {
	location, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if update.TouchesDisplay() {
		if err := s.derived.SeedLocation(ctx, location); err != nil {
			return nil, err
		}
	}
	return location, nil
}

func (s *LocationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.derived.DropLocation(ctx, id); err != nil {
		return err
	}
	s.logger.Info("location deleted", zap.String("location_id", id))
	return nil
}

// DisplayString resolves the location's derived string cache-aside.
func (s *LocationService) DisplayString(ctx context.Context, id string) (string, bool, error) {
	return s.derived.LocationString(ctx, id)
}

// DisplayStringsBatch resolves many location ids with at most one store
// query.
func (s *LocationService) DisplayStringsBatch(ctx context.Context, ids []string) (map[string]string, error) {
	return s.derived.LocationStrings(ctx, ids)
}
