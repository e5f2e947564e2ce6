package cache

import (
	"context"
	"sync"
	"testing"

	"sensorhub/internal/domain"
	"sensorhub/internal/repository"
	"sensorhub/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingOwnerReader tracks durable-store traffic so tests can assert the
// cache-aside layer stays off the store on hits.
type countingOwnerReader struct {
	mu         sync.Mutex
	owners     map[string]*domain.Owner
	getCalls   int
	batchCalls int
}

func newCountingOwnerReader(owners ...*domain.Owner) *countingOwnerReader {
	m := make(map[string]*domain.Owner)
	for _, o := range owners {
		m[o.ID] = o
	}
	return &countingOwnerReader{owners: m}
}

func (r *countingOwnerReader) GetByID(_ context.Context, id string) (*domain.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	o, ok := r.owners[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (r *countingOwnerReader) GetByIDs(_ context.Context, ids []string) ([]*domain.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchCalls++
	var found []*domain.Owner
	for _, id := range ids {
		if o, ok := r.owners[id]; ok {
			found = append(found, o)
		}
	}
	return found, nil
}

func (r *countingOwnerReader) storeCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls + r.batchCalls
}

type countingLocationReader struct {
	mu         sync.Mutex
	locations  map[string]*domain.Location
	getCalls   int
	batchCalls int
}

func newCountingLocationReader(locations ...*domain.Location) *countingLocationReader {
	m := make(map[string]*domain.Location)
	for _, l := range locations {
		m[l.ID] = l
	}
	return &countingLocationReader{locations: m}
}

func (r *countingLocationReader) GetByID(_ context.Context, id string) (*domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	l, ok := r.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return l, nil
}

func (r *countingLocationReader) GetByIDs(_ context.Context, ids []string) ([]*domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchCalls++
	var found []*domain.Location
	for _, id := range ids {
		if l, ok := r.locations[id]; ok {
			found = append(found, l)
		}
	}
	return found, nil
}

func setupDerived(t *testing.T, owners *countingOwnerReader, locations *countingLocationReader) (*miniredis.Miniredis, store.KV, *DerivedStrings) {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return mr, kv, NewDerivedStrings(kv, owners, locations, zap.NewNop())
}

func TestOwnerFullname_ReadThroughPopulatesCache(t *testing.T) {
	owners := newCountingOwnerReader(&domain.Owner{ID: "owner_1", FirstName: "Ada", LastName: "Lovelace"})
	mr, _, derived := setupDerived(t, owners, newCountingLocationReader())

	ctx := context.Background()

	name, ok, err := derived.OwnerFullname(ctx, "owner_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", name)
	assert.Equal(t, 1, owners.storeCalls())

	cached, err := mr.Get("owner_1/fullname")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", cached)

	// Second read must be served from the cache alone.
	name, ok, err = derived.OwnerFullname(ctx, "owner_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", name)
	assert.Equal(t, 1, owners.storeCalls())
}

func TestOwnerFullname_MissingOwnerIsAbsenceNotError(t *testing.T) {
	owners := newCountingOwnerReader()
	_, _, derived := setupDerived(t, owners, newCountingLocationReader())

	name, ok, err := derived.OwnerFullname(context.Background(), "owner_gone")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestLocationString_ReadThrough(t *testing.T) {
	locations := newCountingLocationReader(&domain.Location{ID: "location_1", City: "Helsinki", Country: "Finland"})
	mr, _, derived := setupDerived(t, newCountingOwnerReader(), locations)

	s, ok, err := derived.LocationString(context.Background(), "location_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Helsinki, Finland", s)

	cached, err := mr.Get("location_1/location")
	require.NoError(t, err)
	assert.Equal(t, "Helsinki, Finland", cached)
}

func TestSeedOwner_OverwritesStaleEntry(t *testing.T) {
	owners := newCountingOwnerReader()
	mr, _, derived := setupDerived(t, owners, newCountingLocationReader())

	require.NoError(t, mr.Set("owner_1/fullname", "Old Name"))

	err := derived.SeedOwner(context.Background(), &domain.Owner{ID: "owner_1", FirstName: "New", LastName: "Name"})
	require.NoError(t, err)

	cached, err := mr.Get("owner_1/fullname")
	require.NoError(t, err)
	assert.Equal(t, "New Name", cached)
}

func TestDropLocation_RemovesKey(t *testing.T) {
	mr, _, derived := setupDerived(t, newCountingOwnerReader(), newCountingLocationReader())

	require.NoError(t, mr.Set("location_1/location", "Oslo, Norway"))
	require.NoError(t, derived.DropLocation(context.Background(), "location_1"))
	assert.False(t, mr.Exists("location_1/location"))
}

func TestOwnerFullnames_BatchResolution(t *testing.T) {
	owners := newCountingOwnerReader(
		&domain.Owner{ID: "owner_a", FirstName: "Ada", LastName: "Lovelace"},
		&domain.Owner{ID: "owner_b", FirstName: "Alan", LastName: "Turing"},
		&domain.Owner{ID: "owner_c", FirstName: "Grace", LastName: "Hopper"},
	)
	mr, _, derived := setupDerived(t, owners, newCountingLocationReader())

	// Two cached, one uncached-but-exists, one nonexistent.
	require.NoError(t, mr.Set("owner_a/fullname", "Ada Lovelace"))
	require.NoError(t, mr.Set("owner_b/fullname", "Alan Turing"))

	ctx := context.Background()
	result, err := derived.OwnerFullnames(ctx, []string{"owner_a", "owner_b", "owner_c", "owner_missing"})
	require.NoError(t, err)

	assert.Len(t, result, 3)
	assert.Equal(t, "Ada Lovelace", result["owner_a"])
	assert.Equal(t, "Alan Turing", result["owner_b"])
	assert.Equal(t, "Grace Hopper", result["owner_c"])
	assert.NotContains(t, result, "owner_missing")

	// Exactly one batched fallback query, no per-id reads.
	assert.Equal(t, 1, owners.batchCalls)
	assert.Equal(t, 0, owners.getCalls)

	// The previously-uncached id is cached now: a follow-up resolution
	// touches the store zero times.
	before := owners.storeCalls()
	result, err = derived.OwnerFullnames(ctx, []string{"owner_a", "owner_b", "owner_c"})
	require.NoError(t, err)
	assert.Len(t, result, 3)
	assert.Equal(t, before, owners.storeCalls())
}

func TestOwnerFullnames_EmptyAndDuplicateInput(t *testing.T) {
	owners := newCountingOwnerReader(&domain.Owner{ID: "owner_a", FirstName: "Ada", LastName: "Lovelace"})
	_, _, derived := setupDerived(t, owners, newCountingLocationReader())

	ctx := context.Background()

	result, err := derived.OwnerFullnames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, 0, owners.storeCalls())

	result, err = derived.OwnerFullnames(ctx, []string{"owner_a", "owner_a", "owner_a"})
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "Ada Lovelace", result["owner_a"])
	assert.Equal(t, 1, owners.batchCalls)
}

func TestLocationStrings_AllMissesHitStoreOnce(t *testing.T) {
	locations := newCountingLocationReader(
		&domain.Location{ID: "location_1", City: "Oslo", Country: "Norway"},
		&domain.Location{ID: "location_2", City: "Turku", Country: "Finland"},
	)
	mr, _, derived := setupDerived(t, newCountingOwnerReader(), locations)

	result, err := derived.LocationStrings(context.Background(), []string{"location_1", "location_2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"location_1": "Oslo, Norway",
		"location_2": "Turku, Finland",
	}, result)
	assert.Equal(t, 1, locations.batchCalls)

	// Both entries repopulated.
	assert.True(t, mr.Exists("location_1/location"))
	assert.True(t, mr.Exists("location_2/location"))
}
