package dto

import "foodgram/internal/models"

// UserResponse is the public user representation.
type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Avatar       *string `json:"avatar,omitempty"`
	IsSubscribed bool    `json:"is_subscribed"`
}

func FromUserToResponse(u models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       u.Avatar,
		IsSubscribed: isSubscribed,
	}
}

// SetPasswordRequest: payload for changing the current user's password
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// AvatarRequest: payload for updating the avatar reference
type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// SubscriptionResponse is an author the user follows, with a preview of
// their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}
