package repository

import (
	"context"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
)

// RecipeFilter narrows List results. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID    string
	TagSlugs    []string
	FavoritedBy string // user id
	InCartOf    string // user id
	Limit       int
}

type RecipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db: db}
}

// Create writes the recipe row together with its tag and ingredient
// associations in one transaction. A failure at any step rolls the
// whole aggregate back.
func (r *RecipeRepo) Create(ctx context.Context, recipe *models.Recipe, tagIDs []int64, ingredients []models.RecipeIngredient) (*models.Recipe, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	if err := tx.Create(recipe).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	if err := replaceAssociations(tx, recipe, tagIDs, ingredients); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit recipe: %w", err)
	}

	return r.GetByID(ctx, recipe.ID)
}

// Update rewrites the recipe row and, when tagIDs/ingredients are
// non-nil, fully replaces the corresponding association set. A nil
// slice leaves the existing associations untouched.
func (r *RecipeRepo) Update(ctx context.Context, recipe *models.Recipe, tagIDs []int64, ingredients []models.RecipeIngredient) (*models.Recipe, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	// Omit associations from the row update, they are replaced below.
	if err := tx.Omit("Tags", "Ingredients", "Author").Save(recipe).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	if tagIDs != nil {
		if err := replaceTags(tx, recipe, tagIDs); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if ingredients != nil {
		if err := replaceIngredients(tx, recipe.ID, ingredients); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit recipe: %w", err)
	}

	return r.GetByID(ctx, recipe.ID)
}

func replaceAssociations(tx *gorm.DB, recipe *models.Recipe, tagIDs []int64, ingredients []models.RecipeIngredient) error {
	if err := replaceTags(tx, recipe, tagIDs); err != nil {
		return err
	}
	return replaceIngredients(tx, recipe.ID, ingredients)
}

// replaceTags discards the whole existing tag set and inserts the new
// one. Full-replace, never a diff: a diff would change behavior under
// concurrent updates.
func replaceTags(tx *gorm.DB, recipe *models.Recipe, tagIDs []int64) error {
	tags := make([]models.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, models.Tag{ID: id})
	}
	if err := tx.Model(recipe).Association("Tags").Replace(&tags); err != nil {
		return fmt.Errorf("replace tags: %w", err)
	}
	return nil
}

// replaceIngredients deletes every existing row for the recipe and
// bulk-inserts the new (ingredient, amount) rows.
func replaceIngredients(tx *gorm.DB, recipeID int64, ingredients []models.RecipeIngredient) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}
	if len(ingredients) == 0 {
		return nil
	}
	for i := range ingredients {
		ingredients[i].ID = 0
		ingredients[i].RecipeID = recipeID
	}
	if err := tx.Create(&ingredients).Error; err != nil {
		return fmt.Errorf("insert recipe ingredients: %w", err)
	}
	return nil
}

// GetByID returns the fully materialized recipe: author, tags and
// ingredient rows with names/units.
func (r *RecipeRepo) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetByShortLink resolves the shareable token back to the recipe.
func (r *RecipeRepo) GetByShortLink(ctx context.Context, token string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("short_link = ?", token).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepo) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	var list []models.Recipe

	q := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("pub_date desc")

	if filter.AuthorID != "" {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		q = q.Joins("JOIN recipe_tags rt ON rt.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = rt.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if filter.FavoritedBy != "" {
		q = q.Joins("JOIN favorites f ON f.recipe_id = recipes.id").
			Where("f.user_id = ?", filter.FavoritedBy)
	}
	if filter.InCartOf != "" {
		q = q.Joins("JOIN shopping_carts sc ON sc.recipe_id = recipes.id").
			Where("sc.user_id = ?", filter.InCartOf)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return list, nil
}

func (r *RecipeRepo) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}
	// Clear join rows first, the sqlite test schema has no FK cascade.
	var recipe models.Recipe
	if err := tx.First(&recipe, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear tags: %w", err)
	}
	if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}
	if err := tx.Delete(&models.Recipe{}, id).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete recipe: %w", err)
	}
	return tx.Commit().Error
}

func (r *RecipeRepo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
