package repository

import (
	"context"

	"sensorhub/internal/domain"
)

// OwnerUpdate carries a partial update; nil fields are left untouched.
type OwnerUpdate struct {
	FirstName    *string
	LastName     *string
	EmailAddress *string
	DOB          *string
}

// Empty reports whether the update would change nothing.
func (u OwnerUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.EmailAddress == nil && u.DOB == nil
}

// TouchesName reports whether the update can change the derived full name.
func (u OwnerUpdate) TouchesName() bool {
	return u.FirstName != nil || u.LastName != nil
}

// OwnersRepository is the durable-store surface for owners.
type OwnersRepository interface {
	Create(ctx context.Context, owner *domain.Owner) error
	GetByID(ctx context.Context, id string) (*domain.Owner, error)
	// GetByIDs returns the rows whose ids match; missing ids are simply
	// absent from the result. Used by batch derived-string resolution,
	// so it must issue a single query.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Owner, error)
	List(ctx context.Context) ([]*domain.Owner, error)
	Update(ctx context.Context, id string, update OwnerUpdate) (*domain.Owner, error)
	Delete(ctx context.Context, id string) error
}
