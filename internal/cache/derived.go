package cache

import (
	"context"
	"errors"
	"sync"

	"sensorhub/internal/domain"
	"sensorhub/internal/store"

	"go.uber.org/zap"
)

// OwnerReader is the durable-store slice the derived-string layer needs
// for owners.
type OwnerReader interface {
	GetByID(ctx context.Context, id string) (*domain.Owner, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Owner, error)
}

// LocationReader is the durable-store slice the derived-string layer needs
// for locations.
type LocationReader interface {
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Location, error)
}

// DerivedStrings keeps the cache-resident display strings (owner full
// name, "city, country") synchronized with the durable store. Reads go
// cache first and repopulate on miss; writes happen only after the
// corresponding store mutation has committed, so the cache never reflects
// a write that never happened.
type DerivedStrings struct {
	kv        store.KV
	owners    OwnerReader
	locations LocationReader
	logger    *zap.Logger
}

func NewDerivedStrings(kv store.KV, owners OwnerReader, locations LocationReader, logger *zap.Logger) *DerivedStrings {
	return &DerivedStrings{kv: kv, owners: owners, locations: locations, logger: logger}
}

// OwnerFullname resolves an owner's display name cache-aside. The boolean
// is false when the owner does not exist; that is an absence, not an error.
func (d *DerivedStrings) OwnerFullname(ctx context.Context, id string) (string, bool, error) {
	return d.lookup(ctx, fullnameKey(id), func() (string, bool, error) {
		owner, err := d.owners.GetByID(ctx, id)
		if err != nil {
			return "", false, err
		}
		return owner.FullName(), true, nil
	})
}

// LocationString resolves a location's "city, country" string cache-aside.
func (d *DerivedStrings) LocationString(ctx context.Context, id string) (string, bool, error) {
	return d.lookup(ctx, locationKey(id), func() (string, bool, error) {
		location, err := d.locations.GetByID(ctx, id)
		if err != nil {
			return "", false, err
		}
		return location.DisplayString(), true, nil
	})
}

// lookup is the shared read-through: cache hit returns immediately, a miss
// recomputes from the store and repopulates. A store "not found" surfaces
// as absence.
func (d *DerivedStrings) lookup(ctx context.Context, key string, compute func() (string, bool, error)) (string, bool, error) {
	cached, err := d.kv.Get(ctx, key)
	if err == nil {
		return cached, true, nil
	}
	if !errors.Is(err, store.ErrMiss) {
		return "", false, err
	}

	value, ok, err := compute()
	if err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	if err := d.kv.Set(ctx, key, value); err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SeedOwner writes the owner's derived string after a store insert or a
// name-changing update.
func (d *DerivedStrings) SeedOwner(ctx context.Context, owner *domain.Owner) error {
	return d.kv.Set(ctx, fullnameKey(owner.ID), owner.FullName())
}

// SeedLocation writes the location's derived string after a store insert
// or a display-changing update.
func (d *DerivedStrings) SeedLocation(ctx context.Context, location *domain.Location) error {
	return d.kv.Set(ctx, locationKey(location.ID), location.DisplayString())
}

// DropOwner removes the owner's derived string after a store delete.
func (d *DerivedStrings) DropOwner(ctx context.Context, id string) error {
	return d.kv.Del(ctx, fullnameKey(id))
}

// DropLocation removes the location's derived string after a store delete.
func (d *DerivedStrings) DropLocation(ctx context.Context, id string) error {
	return d.kv.Del(ctx, locationKey(id))
}

// OwnerFullnames resolves many owner ids to display names with at most one
// durable-store query. Ids that resolve to nothing are omitted from the
// result.
func (d *DerivedStrings) OwnerFullnames(ctx context.Context, ids []string) (map[string]string, error) {
	return d.resolveBatch(ctx, ids, fullnameKey, func(ctx context.Context, missing []string) (map[string]string, error) {
		owners, err := d.owners.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		found := make(map[string]string, len(owners))
		for _, o := range owners {
			found[o.ID] = o.FullName()
		}
		return found, nil
	})
}

// LocationStrings resolves many location ids to display strings with at
// most one durable-store query.
func (d *DerivedStrings) LocationStrings(ctx context.Context, ids []string) (map[string]string, error) {
	return d.resolveBatch(ctx, ids, locationKey, func(ctx context.Context, missing []string) (map[string]string, error) {
		locations, err := d.locations.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		found := make(map[string]string, len(locations))
		for _, l := range locations {
			found[l.ID] = l.DisplayString()
		}
		return found, nil
	})
}

// resolveBatch probes the cache concurrently for every distinct id,
// partitions hits from misses, fetches all misses from the durable store
// in a single batched call, repopulates the cache for each found row, and
// merges. Unresolved ids (stale references) drop out silently.
func (d *DerivedStrings) resolveBatch(
	ctx context.Context,
	ids []string,
	keyFn func(string) string,
	fetchMissing func(ctx context.Context, missing []string) (map[string]string, error),
) (map[string]string, error) {
	result := make(map[string]string)
	if len(ids) == 0 {
		return result, nil
	}

	distinct := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}

	// The probes are independent, so issue them concurrently. Nothing
	// below depends on their completion order.
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		missing  []string
		probeErr error
	)
	for _, id := range distinct {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			value, err := d.kv.Get(ctx, keyFn(id))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result[id] = value
			case errors.Is(err, store.ErrMiss):
				missing = append(missing, id)
			default:
				if probeErr == nil {
					probeErr = err
				}
			}
		}(id)
	}
	wg.Wait()
	if probeErr != nil {
		return nil, probeErr
	}

	if len(missing) == 0 {
		return result, nil
	}

	found, err := fetchMissing(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, value := range found {
		if err := d.kv.Set(ctx, keyFn(id), value); err != nil {
			return nil, err
		}
		result[id] = value
	}
	return result, nil
}
