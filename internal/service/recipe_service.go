package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/dto"
	"foodgram/internal/models"
	"foodgram/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrNotAuthor is returned when a user tries to mutate someone else's recipe.
	ErrNotAuthor = errors.New("only the author may modify this recipe")
)

type RecipeService interface {
	Create(ctx context.Context, authorID string, req dto.RecipeCreateRequest) (*models.Recipe, error)
	Update(ctx context.Context, recipeID int64, userID string, req dto.RecipeUpdateRequest) (*models.Recipe, error)
	Delete(ctx context.Context, recipeID int64, userID string) error
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	GetByShortLink(ctx context.Context, token string) (*models.Recipe, error)
	ShortLink(ctx context.Context, id int64) (string, error)
	List(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, error)
}

type recipeService struct {
	repo           *repository.RecipeRepo
	tagRepo        *repository.TagRepo
	ingredientRepo *repository.IngredientRepo
}

func NewRecipeService(repo *repository.RecipeRepo, tagRepo *repository.TagRepo, ingredientRepo *repository.IngredientRepo) RecipeService {
	return &recipeService{
		repo:           repo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
	}
}

// Create validates the whole request, collecting every failed check,
// then writes the recipe aggregate in one transaction.
func (s *recipeService) Create(ctx context.Context, authorID string, req dto.RecipeCreateRequest) (*models.Recipe, error) {
	ve := NewValidationError()

	if strings.TrimSpace(req.Name) == "" {
		ve.Add("name", "this field is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		ve.Add("text", "this field is required")
	}
	if req.CookingTime == 0 {
		ve.Add("cooking_time", "this field is required")
	} else {
		s.validateCookingTime(req.CookingTime, ve)
	}
	s.validateTags(ctx, req.Tags, ve)
	s.validateIngredients(ctx, req.Ingredients, ve)

	if ve.HasErrors() {
		return nil, ve
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
	}

	return s.repo.Create(ctx, recipe, req.Tags, toRecipeIngredients(req.Ingredients))
}

// Update applies a partial update. Omitted tag/ingredient sets are left
// untouched; present sets go through the same validation as create and
// fully replace the existing associations.
func (s *recipeService) Update(ctx context.Context, recipeID int64, userID string, req dto.RecipeUpdateRequest) (*models.Recipe, error) {
	recipe, err := s.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	ve := NewValidationError()

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			ve.Add("name", "this field is required")
		} else {
			recipe.Name = *req.Name
		}
	}
	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			ve.Add("text", "this field is required")
		} else {
			recipe.Text = *req.Text
		}
	}
	if req.Image != nil {
		recipe.Image = *req.Image
	}
	if req.CookingTime != nil {
		s.validateCookingTime(*req.CookingTime, ve)
		recipe.CookingTime = *req.CookingTime
	}

	var tagIDs []int64
	if req.Tags != nil {
		tagIDs = *req.Tags
		s.validateTags(ctx, tagIDs, ve)
	}
	var ingredients []models.RecipeIngredient
	if req.Ingredients != nil {
		s.validateIngredients(ctx, *req.Ingredients, ve)
		ingredients = toRecipeIngredients(*req.Ingredients)
	}

	if ve.HasErrors() {
		return nil, ve
	}

	return s.repo.Update(ctx, recipe, tagIDs, ingredients)
}

func (s *recipeService) Delete(ctx context.Context, recipeID int64, userID string) error {
	recipe, err := s.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return ErrNotAuthor
	}
	return s.repo.Delete(ctx, recipeID)
}

func (s *recipeService) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) GetByShortLink(ctx context.Context, token string) (*models.Recipe, error) {
	recipe, err := s.repo.GetByShortLink(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) ShortLink(ctx context.Context, id int64) (string, error) {
	recipe, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return recipe.ShortLink, nil
}

func (s *recipeService) List(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, error) {
	return s.repo.List(ctx, filter)
}

func (s *recipeService) validateCookingTime(minutes int, ve *ValidationError) {
	if minutes < models.MinCookingTime || minutes > models.MaxCookingTime {
		ve.Add("cooking_time", fmt.Sprintf("cooking time must be between %d and %d minutes",
			models.MinCookingTime, models.MaxCookingTime))
	}
}

func (s *recipeService) validateTags(ctx context.Context, tagIDs []int64, ve *ValidationError) {
	if len(tagIDs) == 0 {
		ve.Add("tags", "add at least one tag")
		return
	}

	seen := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			ve.Add("tags", "tags must not repeat")
			break
		}
		seen[id] = true
	}

	found, err := s.tagRepo.FindByIDs(ctx, tagIDs)
	if err != nil {
		ve.Add("tags", "could not verify tags")
		return
	}
	existing := make(map[int64]bool, len(found))
	for _, t := range found {
		existing[t.ID] = true
	}
	for id := range seen {
		if !existing[id] {
			ve.Add("tags", fmt.Sprintf("tag with id %d does not exist", id))
		}
	}
}

func (s *recipeService) validateIngredients(ctx context.Context, inputs []dto.RecipeIngredientInput, ve *ValidationError) {
	if len(inputs) == 0 {
		ve.Add("ingredients", "add at least one ingredient")
		return
	}

	ids := make([]int64, 0, len(inputs))
	seen := make(map[int64]bool, len(inputs))
	duplicate := false
	for _, in := range inputs {
		// Duplicates are rejected regardless of differing amounts.
		if seen[in.ID] {
			duplicate = true
		}
		seen[in.ID] = true
		ids = append(ids, in.ID)

		if in.Amount < models.MinIngredientAmount || in.Amount > models.MaxIngredientAmount {
			ve.Add("ingredients", fmt.Sprintf("amount for ingredient %d must be between %d and %d",
				in.ID, models.MinIngredientAmount, models.MaxIngredientAmount))
		}
	}
	if duplicate {
		ve.Add("ingredients", "ingredients must not repeat")
	}

	found, err := s.ingredientRepo.FindByIDs(ctx, ids)
	if err != nil {
		ve.Add("ingredients", "could not verify ingredients")
		return
	}
	existing := make(map[int64]bool, len(found))
	for _, ing := range found {
		existing[ing.ID] = true
	}
	for id := range seen {
		if !existing[id] {
			ve.Add("ingredients", fmt.Sprintf("ingredient with id %d does not exist", id))
		}
	}
}

func toRecipeIngredients(inputs []dto.RecipeIngredientInput) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, models.RecipeIngredient{
			IngredientID: in.ID,
			Amount:       in.Amount,
		})
	}
	return rows
}
