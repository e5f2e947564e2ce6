package service

import (
	"context"
	"testing"

	"sensorhub/internal/cache"
	"sensorhub/internal/domain"
	"sensorhub/internal/repository"
	"sensorhub/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ownerFixture struct {
	mr      *miniredis.Miniredis
	repo    *repository.MemoryOwnersRepository
	service *OwnerService
}

func setupOwners(t *testing.T) *ownerFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	owners := repository.NewMemoryOwnersRepository()
	locations := repository.NewMemoryLocationsRepository()
	derived := cache.NewDerivedStrings(kv, owners, locations, zap.NewNop())

	return &ownerFixture{
		mr:      mr,
		repo:    owners,
		service: NewOwnerService(owners, derived, zap.NewNop()),
	}
}

func strPtr(s string) *string { return &s }

func TestOwnerCreate_SeedsDerivedString(t *testing.T) {
	f := setupOwners(t)

	owner, err := f.service.Create(context.Background(), &domain.Owner{
		FirstName: "Ada", LastName: "Lovelace", EmailAddress: "ada@example.com", DOB: "1815-12-10",
	})
	require.NoError(t, err)
	require.NotEmpty(t, owner.ID)

	cached, err := f.mr.Get(owner.ID + "/fullname")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", cached)
}

func TestOwnerUpdate_NameChangeRefreshesCache(t *testing.T) {
	f := setupOwners(t)
	ctx := context.Background()

	owner, err := f.service.Create(ctx, &domain.Owner{
		FirstName: "Ada", LastName: "Lovelace", EmailAddress: "ada@example.com", DOB: "1815-12-10",
	})
	require.NoError(t, err)

	_, err = f.service.Update(ctx, owner.ID, repository.OwnerUpdate{FirstName: strPtr("Augusta")})
	require.NoError(t, err)

	name, ok, err := f.service.Fullname(ctx, owner.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Augusta Lovelace", name)
}

func TestOwnerUpdate_NonNameChangeLeavesCacheAlone(t *testing.T) {
	f := setupOwners(t)
	ctx := context.Background()

	owner, err := f.service.Create(ctx, &domain.Owner{
		FirstName: "Ada", LastName: "Lovelace", EmailAddress: "ada@example.com", DOB: "1815-12-10",
	})
	require.NoError(t, err)

	// Poison the cache entry so a rewrite would be visible.
	require.NoError(t, f.mr.Set(owner.ID+"/fullname", "Sentinel Value"))

	_, err = f.service.Update(ctx, owner.ID, repository.OwnerUpdate{DOB: strPtr("1815-12-11")})
	require.NoError(t, err)

	cached, err := f.mr.Get(owner.ID + "/fullname")
	require.NoError(t, err)
	assert.Equal(t, "Sentinel Value", cached)
}

func TestOwnerDelete_ClearsCache(t *testing.T) {
	f := setupOwners(t)
	ctx := context.Background()

	owner, err := f.service.Create(ctx, &domain.Owner{
		FirstName: "Ada", LastName: "Lovelace", EmailAddress: "ada@example.com", DOB: "1815-12-10",
	})
	require.NoError(t, err)
	require.True(t, f.mr.Exists(owner.ID+"/fullname"))

	require.NoError(t, f.service.Delete(ctx, owner.ID))
	assert.False(t, f.mr.Exists(owner.ID+"/fullname"))

	// A later lookup must not resurrect the old string.
	_, ok, err := f.service.Fullname(ctx, owner.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOwnerDelete_MissingOwnerLeavesCacheUntouched(t *testing.T) {
	f := setupOwners(t)

	require.NoError(t, f.mr.Set("owner_ghost/fullname", "Ghost"))
	err := f.service.Delete(context.Background(), "owner_ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.True(t, f.mr.Exists("owner_ghost/fullname"))
}

func TestOwnerCreate_DuplicateEmailFailsCleanly(t *testing.T) {
	f := setupOwners(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, &domain.Owner{
		FirstName: "Ada", LastName: "Lovelace", EmailAddress: "ada@example.com", DOB: "1815-12-10",
	})
	require.NoError(t, err)

	_, err = f.service.Create(ctx, &domain.Owner{
		FirstName: "Imposter", LastName: "Lovelace", EmailAddress: "ada@example.com", DOB: "1990-01-01",
	})
	require.Error(t, err)
	assert.True(t, repository.IsConstraint(err, repository.ConstraintUnique))

	// No partial row.
	owners, err := f.service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, owners, 1)
}

func TestOwnerGet_IsIdempotent(t *testing.T) {
	f := setupOwners(t)
	ctx := context.Background()

	owner, err := f.service.Create(ctx, &domain.Owner{
		FirstName: "Ada", LastName: "Lovelace", EmailAddress: "ada@example.com", DOB: "1815-12-10",
	})
	require.NoError(t, err)

	first, err := f.service.Get(ctx, owner.ID)
	require.NoError(t, err)
	second, err := f.service.Get(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
