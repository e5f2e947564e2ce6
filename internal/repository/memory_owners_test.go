package repository

import (
	"context"
	"testing"

	"sensorhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOwners_CRUD(t *testing.T) {
	repo := NewMemoryOwnersRepository()
	ctx := context.Background()

	owner := &domain.Owner{ID: "owner_1", FirstName: "Ada", LastName: "Lovelace", EmailAddress: "ada@example.com"}
	require.NoError(t, repo.Create(ctx, owner))

	got, err := repo.GetByID(ctx, "owner_1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)

	first := "Augusta"
	updated, err := repo.Update(ctx, "owner_1", OwnerUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)

	// Empty update returns the current row.
	same, err := repo.Update(ctx, "owner_1", OwnerUpdate{})
	require.NoError(t, err)
	assert.Equal(t, updated, same)

	require.NoError(t, repo.Delete(ctx, "owner_1"))
	_, err = repo.GetByID(ctx, "owner_1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "owner_1"), ErrNotFound)
}

func TestMemoryOwners_EmailUniqueness(t *testing.T) {
	repo := NewMemoryOwnersRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Owner{ID: "owner_1", EmailAddress: "ada@example.com"}))

	err := repo.Create(ctx, &domain.Owner{ID: "owner_2", EmailAddress: "ada@example.com"})
	assert.True(t, IsConstraint(err, ConstraintUnique))

	require.NoError(t, repo.Create(ctx, &domain.Owner{ID: "owner_2", EmailAddress: "alan@example.com"}))
	email := "ada@example.com"
	_, err = repo.Update(ctx, "owner_2", OwnerUpdate{EmailAddress: &email})
	assert.True(t, IsConstraint(err, ConstraintUnique))
}

func TestMemoryOwners_GetByIDsDeduplicates(t *testing.T) {
	repo := NewMemoryOwnersRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Owner{ID: "owner_1", EmailAddress: "a@example.com"}))
	require.NoError(t, repo.Create(ctx, &domain.Owner{ID: "owner_2", EmailAddress: "b@example.com"}))

	owners, err := repo.GetByIDs(ctx, []string{"owner_1", "owner_1", "owner_2", "owner_missing"})
	require.NoError(t, err)
	assert.Len(t, owners, 2)
}
