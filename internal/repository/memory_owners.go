package repository

import (
	"context"
	"sort"
	"sync"

	"sensorhub/internal/domain"
)

// MemoryOwnersRepository is an in-memory OwnersRepository used by tests and
// as the DB-less dev fallback. It enforces the email uniqueness constraint
// the same way Postgres does, so the service layer sees identical errors.
type MemoryOwnersRepository struct {
	mu     sync.RWMutex
	owners map[string]domain.Owner
}

func NewMemoryOwnersRepository() *MemoryOwnersRepository {
	return &MemoryOwnersRepository{owners: make(map[string]domain.Owner)}
}

var _ OwnersRepository = (*MemoryOwnersRepository)(nil)

// Exists reports whether the id has a row. Used by the memory sensors
// repository for foreign-key checks.
func (r *MemoryOwnersRepository) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.owners[id]
	return ok
}

func (r *MemoryOwnersRepository) emailTaken(email, excludeID string) bool {
	for id, o := range r.owners {
		if id != excludeID && o.EmailAddress == email {
			return true
		}
	}
	return false
}

func (r *MemoryOwnersRepository) Create(_ context.Context, owner *domain.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(owner.EmailAddress, owner.ID) {
		return &ConstraintError{Kind: ConstraintUnique, Constraint: "owner_email_address_key"}
	}
	r.owners[owner.ID] = *owner
	return nil
}

func (r *MemoryOwnersRepository) GetByID(_ context.Context, id string) (*domain.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.owners[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *MemoryOwnersRepository) GetByIDs(_ context.Context, ids []string) ([]*domain.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var owners []*domain.Owner
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if o, ok := r.owners[id]; ok {
			owner := o
			owners = append(owners, &owner)
		}
	}
	return owners, nil
}

func (r *MemoryOwnersRepository) List(_ context.Context) ([]*domain.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owners := make([]*domain.Owner, 0, len(r.owners))
	for id := range r.owners {
		o := r.owners[id]
		owners = append(owners, &o)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].ID < owners[j].ID })
	return owners, nil
}

func (r *MemoryOwnersRepository) Update(_ context.Context, id string, update OwnerUpdate) (*domain.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.owners[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.EmailAddress != nil && r.emailTaken(*update.EmailAddress, id) {
		return nil, &ConstraintError{Kind: ConstraintUnique, Constraint: "owner_email_address_key"}
	}
	if update.FirstName != nil {
		o.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		o.LastName = *update.LastName
	}
	if update.EmailAddress != nil {
		o.EmailAddress = *update.EmailAddress
	}
	if update.DOB != nil {
		o.DOB = *update.DOB
	}
	r.owners[id] = o
	return &o, nil
}

func (r *MemoryOwnersRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[id]; !ok {
		return ErrNotFound
	}
	delete(r.owners, id)
	return nil
}
