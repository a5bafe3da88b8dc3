package dto

// IngredientInput is one reference ingredient in a bulk load.
type IngredientInput struct {
	Name            string `json:"name" binding:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=200"`
}

// IngredientLoadRequest used for POST /api/ingredients/load (admin
// reference data).
type IngredientLoadRequest struct {
	Ingredients []IngredientInput `json:"ingredients" binding:"required,min=1,dive"`
}
