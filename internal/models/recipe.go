package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bounds enforced at write time on cooking time and ingredient amounts.
const (
	MinCookingTime      = 1
	MaxCookingTime      = 32000
	MinIngredientAmount = 1
	MaxIngredientAmount = 32000
)

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID    string    `json:"author_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"index;size:200;not null"`
	Text        string    `json:"text" gorm:"not null"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time" gorm:"not null"` // minutes
	PubDate     time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	// ShortLink is an opaque shareable token, assigned once at creation.
	ShortLink string `json:"short_link" gorm:"type:uuid;uniqueIndex;not null"`

	// Associations
	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

// BeforeCreate assigns the short link token. It never changes afterwards.
func (recipe *Recipe) BeforeCreate(tx *gorm.DB) (err error) {
	if recipe.ShortLink == "" {
		recipe.ShortLink = uuid.New().String()
	}
	return
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient binds one ingredient with its amount to a recipe.
// A recipe cannot list the same ingredient twice.
type RecipeIngredient struct {
	ID           int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	RecipeID     int64 `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64 `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Amount       int   `json:"amount" gorm:"not null"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
