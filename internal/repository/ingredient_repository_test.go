package repository

import (
	"context"
	"testing"

	"foodgram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientRepoGetAll_PrefixFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewIngredientRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateBatch(ctx, []models.Ingredient{
		{Name: "Potato", MeasurementUnit: "g"},
		{Name: "potato starch", MeasurementUnit: "g"},
		{Name: "tomato", MeasurementUnit: "g"},
	}))

	// Prefix match, case-insensitive.
	matches, err := repo.GetAll(ctx, "pot")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// "tomato" contains "pot" but does not start with it.
	for _, ing := range matches {
		assert.NotEqual(t, "tomato", ing.Name)
	}

	all, err := repo.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestIngredientRepoFindByIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewIngredientRepo(db)
	ctx := context.Background()

	flour := seedIngredient(t, db, "flour", "g")
	milk := seedIngredient(t, db, "milk", "ml")

	found, err := repo.FindByIDs(ctx, []int64{flour.ID, milk.ID, 9999})
	require.NoError(t, err)
	// Unknown ids are simply absent, the caller compares lengths.
	assert.Len(t, found, 2)

	none, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
