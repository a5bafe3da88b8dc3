package models

import "time"

// Favorite, ShoppingCart and Subscription are structurally identical
// (subject, object) join tables. The unique pair index at the storage
// layer is the race-safety mechanism for concurrent duplicate adds.

type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type ShoppingCart struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// Subscription: UserID follows AuthorID. Self-subscription is rejected
// at the service layer before the uniqueness check.
type Subscription struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscription_user_author"`
	AuthorID  string    `json:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscription_user_author"`
	CreatedAt time.Time `json:"created_at"`

	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
