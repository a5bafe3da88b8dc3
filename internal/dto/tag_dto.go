package dto

// TagCreateRequest used for POST /api/tags (admin reference data).
type TagCreateRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"required,hexcolor"`
	Slug  string `json:"slug" binding:"required,max=200"`
}
