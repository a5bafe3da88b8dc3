package repository

import (
	"context"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
)

type IngredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db: db}
}

// GetAll lists ingredients ordered by name. A non-empty name argument
// filters to case-insensitive prefix matches, used by the search box.
func (r *IngredientRepo) GetAll(ctx context.Context, name string) ([]models.Ingredient, error) {
	var list []models.Ingredient
	q := r.db.WithContext(ctx).Order("name asc")
	if name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", name+"%")
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get ingredients: %w", err)
	}
	return list, nil
}

func (r *IngredientRepo) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

// CreateBatch loads reference data in bulk.
func (r *IngredientRepo) CreateBatch(ctx context.Context, ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(ingredients, 500).Error; err != nil {
		return fmt.Errorf("bulk create ingredients: %w", err)
	}
	return nil
}

// FindByIDs returns the ingredients matching the given ids. Callers
// compare the result length against the input to detect unknown ids.
func (r *IngredientRepo) FindByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error) {
	var list []models.Ingredient
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find ingredients: %w", err)
	}
	return list, nil
}
