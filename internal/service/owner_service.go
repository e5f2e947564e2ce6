package service

import (
	"context"

	"sensorhub/internal/cache"
	"sensorhub/internal/domain"
	"sensorhub/internal/repository"

	"go.uber.org/zap"
)

// OwnerService exposes the owner operations. Every mutation hits the
// durable store first; the derived-string cache is touched only after the
// store call succeeds.
type OwnerService struct {
	repo    repository.OwnersRepository
	derived *cache.DerivedStrings
	logger  *zap.Logger
}

func NewOwnerService(repo repository.OwnersRepository, derived *cache.DerivedStrings, logger *zap.Logger) *OwnerService {
	return &OwnerService{repo: repo, derived: derived, logger: logger}
}

// Create assigns an id, persists the owner and seeds the cached full name.
func (s *OwnerService) Create(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	owner.ID = domain.NewID(domain.OwnerIDPrefix)
	if err := s.repo.Create(ctx, owner); err != nil {
		return nil, err
	}
	if err := s.derived.SeedOwner(ctx, owner); err != nil {
		return nil, err
	}
	s.logger.Info("owner created", zap.String("owner_id", owner.ID))
	return owner, nil
}

func (s *OwnerService) Get(ctx context.Context, id string) (*domain.Owner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OwnerService) List(ctx context.Context) ([]*domain.Owner, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update and refreshes the cached full name when
// a name field changed. Updates that cannot affect the derived string
// leave the cache alone.
func (s *OwnerService) Update(ctx context.Context, id string, update repository.OwnerUpdate) (*domain.Owner, error) {
	owner, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if update.TouchesName() {
		if err := s.derived.SeedOwner(ctx, owner); err != nil {
			return nil, err
		}
	}
	return owner, nil
}

// Delete removes the owner row and then its cached full name. When the row
// does not exist the cache is left untouched.
func (s *OwnerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.derived.DropOwner(ctx, id); err != nil {
		return err
	}
	s.logger.Info("owner deleted", zap.String("owner_id", id))
	return nil
}

// Fullname resolves the owner's display name cache-aside. ok is false when
// the owner does not exist.
func (s *OwnerService) Fullname(ctx context.Context, id string) (string, bool, error) {
	return s.derived.OwnerFullname(ctx, id)
}

// FullnamesBatch resolves many owner ids with at most one store query.
func (s *OwnerService) FullnamesBatch(ctx context.Context, ids []string) (map[string]string, error) {
	return s.derived.OwnerFullnames(ctx, ids)
}
