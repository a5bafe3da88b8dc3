package service

import (
	"context"
	"errors"
	"testing"

	"foodgram/database"
	"foodgram/internal/dto"
	"foodgram/internal/models"
	"foodgram/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newRecipeService(t *testing.T) (RecipeService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewRecipeService(
		repository.NewRecipeRepo(db),
		repository.NewTagRepo(db),
		repository.NewIngredientRepo(db),
	)
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func validCreateRequest(tagID, ingredientID int64) dto.RecipeCreateRequest {
	return dto.RecipeCreateRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Tags:        []int64{tagID},
		Ingredients: []dto.RecipeIngredientInput{{ID: ingredientID, Amount: 200}},
	}
}

func TestRecipeCreate_CollectsAllFieldErrors(t *testing.T) {
	svc, db := newRecipeService(t)
	author := seedUser(t, db, "chef")

	_, err := svc.Create(context.Background(), author.ID, dto.RecipeCreateRequest{})
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	// Every failed check comes back together, keyed by field.
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "text")
	assert.Contains(t, ve.Fields, "cooking_time")
	assert.Contains(t, ve.Fields, "tags")
	assert.Contains(t, ve.Fields, "ingredients")
}

func TestRecipeCreate_CookingTimeBounds(t *testing.T) {
	svc, db := newRecipeService(t)
	author := seedUser(t, db, "chef")
	tag := seedTag(t, db, "Dinner", "#49B64E", "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	cases := []struct {
		name    string
		minutes int
		wantErr bool
	}{
		{"zero means missing", 0, true},
		{"lower bound", 1, false},
		{"upper bound", 32000, false},
		{"above upper bound", 32001, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest(tag.ID, flour.ID)
			req.Name = "Recipe " + tc.name
			req.CookingTime = tc.minutes

			_, err := svc.Create(context.Background(), author.ID, req)
			if tc.wantErr {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Contains(t, ve.Fields, "cooking_time")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecipeCreate_RejectsDuplicateIngredients(t *testing.T) {
	svc, db := newRecipeService(t)
	author := seedUser(t, db, "chef")
	tag := seedTag(t, db, "Dinner", "#49B64E", "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	req := validCreateRequest(tag.ID, flour.ID)
	// Same ingredient twice, amounts differ. Still a duplicate.
	req.Ingredients = []dto.RecipeIngredientInput{
		{ID: flour.ID, Amount: 100},
		{ID: flour.ID, Amount: 200},
	}

	_, err := svc.Create(context.Background(), author.ID, req)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "ingredients")
}

func TestRecipeCreate_RejectsUnknownReferences(t *testing.T) {
	svc, db := newRecipeService(t)
	author := seedUser(t, db, "chef")
	tag := seedTag(t, db, "Dinner", "#49B64E", "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	req := validCreateRequest(tag.ID, flour.ID)
	req.Tags = []int64{tag.ID, 9999}
	req.Ingredients = append(req.Ingredients, dto.RecipeIngredientInput{ID: 8888, Amount: 10})

	_, err := svc.Create(context.Background(), author.ID, req)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "tags")
	assert.Contains(t, ve.Fields, "ingredients")
}

func TestRecipeCreate_AmountBounds(t *testing.T) {
	svc, db := newRecipeService(t)
	author := seedUser(t, db, "chef")
	tag := seedTag(t, db, "Dinner", "#49B64E", "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	req := validCreateRequest(tag.ID, flour.ID)
	req.Ingredients = []dto.RecipeIngredientInput{{ID: flour.ID, Amount: 32001}}

	_, err := svc.Create(context.Background(), author.ID, req)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "ingredients")
}

func TestRecipeUpdate_OmittedAssociationsUntouched(t *testing.T) {
	svc, db := newRecipeService(t)
	author := seedUser(t, db, "chef")
	tag := seedTag(t, db, "Dinner", "#49B64E", "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	created, err := svc.Create(context.Background(), author.ID, validCreateRequest(tag.ID, flour.ID))
	require.NoError(t, err)

	newName := "Crepes"
	updated, err := svc.Update(context.Background(), created.ID, author.ID, dto.RecipeUpdateRequest{
		Name: &newName,
	})
	require.NoError(t, err)

	assert.Equal(t, "Crepes", updated.Name)
	assert.Len(t, updated.Tags, 1)
	assert.Len(t, updated.Ingredients, 1)
}

func TestRecipeUpdate_PresentButEmptySetRejected(t *testing.T) {
	svc, db := newRecipeService(t)
	author := seedUser(t, db, "chef")
	tag := seedTag(t, db, "Dinner", "#49B64E", "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	created, err := svc.Create(context.Background(), author.ID, validCreateRequest(tag.ID, flour.ID))
	require.NoError(t, err)

	emptyTags := []int64{}
	_, err = svc.Update(context.Background(), created.ID, author.ID, dto.RecipeUpdateRequest{
		Tags: &emptyTags,
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "tags")

	emptyIngredients := []dto.RecipeIngredientInput{}
	_, err = svc.Update(context.Background(), created.ID, author.ID, dto.RecipeUpdateRequest{
		Ingredients: &emptyIngredients,
	})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "ingredients")
}

func TestRecipeUpdate_OnlyAuthorMayModify(t *testing.T) {
	svc, db := newRecipeService(t)
	author := seedUser(t, db, "chef")
	intruder := seedUser(t, db, "intruder")
	tag := seedTag(t, db, "Dinner", "#49B64E", "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	created, err := svc.Create(context.Background(), author.ID, validCreateRequest(tag.ID, flour.ID))
	require.NoError(t, err)

	newName := "Stolen"
	_, err = svc.Update(context.Background(), created.ID, intruder.ID, dto.RecipeUpdateRequest{Name: &newName})
	assert.True(t, errors.Is(err, ErrNotAuthor))

	err = svc.Delete(context.Background(), created.ID, intruder.ID)
	assert.True(t, errors.Is(err, ErrNotAuthor))

	// The author still can.
	require.NoError(t, svc.Delete(context.Background(), created.ID, author.ID))
}

func TestRecipeGetByID_NotFound(t *testing.T) {
	svc, _ := newRecipeService(t)

	_, err := svc.GetByID(context.Background(), 12345)
	assert.True(t, errors.Is(err, ErrRecipeNotFound))
}

func TestRecipeShortLink_StableAcrossUpdates(t *testing.T) {
	svc, db := newRecipeService(t)
	author := seedUser(t, db, "chef")
	tag := seedTag(t, db, "Dinner", "#49B64E", "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	created, err := svc.Create(context.Background(), author.ID, validCreateRequest(tag.ID, flour.ID))
	require.NoError(t, err)

	link, err := svc.ShortLink(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotEmpty(t, link)

	newName := "Crepes"
	_, err = svc.Update(context.Background(), created.ID, author.ID, dto.RecipeUpdateRequest{Name: &newName})
	require.NoError(t, err)

	linkAfter, err := svc.ShortLink(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, link, linkAfter)

	found, err := svc.GetByShortLink(context.Background(), link)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
