package dto

import (
	"time"

	"foodgram/internal/models"
)

// RecipeIngredientInput is one (ingredient, amount) pair of a create or
// update request.
type RecipeIngredientInput struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// RecipeCreateRequest used for POST /api/recipes. Field presence is
// validated by the service so that all failures come back together,
// keyed by field.
type RecipeCreateRequest struct {
	Name        string                  `json:"name"`
	Text        string                  `json:"text"`
	Image       string                  `json:"image"`
	CookingTime int                     `json:"cooking_time"`
	Tags        []int64                 `json:"tags"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
}

// RecipeUpdateRequest used for PATCH /api/recipes/:recipe_id. Nil
// pointers mean the field was omitted; omitted tag/ingredient sets are
// left untouched, present-but-empty ones fail validation.
type RecipeUpdateRequest struct {
	Name        *string                  `json:"name,omitempty"`
	Text        *string                  `json:"text,omitempty"`
	Image       *string                  `json:"image,omitempty"`
	CookingTime *int                     `json:"cooking_time,omitempty"`
	Tags        *[]int64                 `json:"tags,omitempty"`
	Ingredients *[]RecipeIngredientInput `json:"ingredients,omitempty"`
}

// RecipeIngredientResponse flattens the join row with the ingredient's
// name and unit.
type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe representation.
type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []models.Tag               `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
	PubDate          time.Time                  `json:"pub_date"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
}

// RecipeShortResponse is the compact representation used in relation
// toggles and author previews.
type RecipeShortResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// ShortLinkResponse carries a recipe's immutable shareable token.
type ShortLinkResponse struct {
	ShortLink string `json:"short_link"`
}

// Converters

func FromRecipeToResponse(r models.Recipe, isFavorited, isInCart bool) RecipeResponse {
	resp := RecipeResponse{
		ID:               r.ID,
		Tags:             r.Tags,
		Ingredients:      make([]RecipeIngredientResponse, 0, len(r.Ingredients)),
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
	}
	if resp.Tags == nil {
		resp.Tags = []models.Tag{}
	}
	if r.Author != nil {
		resp.Author = FromUserToResponse(*r.Author, false)
	}
	for _, ri := range r.Ingredients {
		item := RecipeIngredientResponse{
			ID:     ri.IngredientID,
			Amount: ri.Amount,
		}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		resp.Ingredients = append(resp.Ingredients, item)
	}
	return resp
}

func FromRecipeToShortResponse(r models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
