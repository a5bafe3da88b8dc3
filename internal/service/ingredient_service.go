package service

import (
	"context"
	"errors"

	"foodgram/internal/models"
	"foodgram/internal/repository"

	"gorm.io/gorm"
)

var ErrIngredientNotFound = errors.New("ingredient not found")

type IngredientService interface {
	GetAll(ctx context.Context, name string) ([]models.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	Load(ctx context.Context, ingredients []models.Ingredient) error
}

type ingredientService struct {
	repo *repository.IngredientRepo
}

func NewIngredientService(repo *repository.IngredientRepo) IngredientService {
	return &ingredientService{repo: repo}
}

func (s *ingredientService) GetAll(ctx context.Context, name string) ([]models.Ingredient, error) {
	return s.repo.GetAll(ctx, name)
}

func (s *ingredientService) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	ing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ing, nil
}

// Load bulk-inserts reference data.
func (s *ingredientService) Load(ctx context.Context, ingredients []models.Ingredient) error {
	return s.repo.CreateBatch(ctx, ingredients)
}
