package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodgram/internal/models"
	"foodgram/internal/repository"
)

// ShoppingListService aggregates a user's cart into a purchasable
// ingredient list and renders it as a plain-text download.
type ShoppingListService interface {
	Aggregate(ctx context.Context, userID string) ([]repository.ShoppingListItem, error)
	Render(user *models.User, items []repository.ShoppingListItem) string
}

type shoppingListService struct {
	repo *repository.ShoppingListRepo
}

func NewShoppingListService(repo *repository.ShoppingListRepo) ShoppingListService {
	return &shoppingListService{repo: repo}
}

func (s *shoppingListService) Aggregate(ctx context.Context, userID string) ([]repository.ShoppingListItem, error) {
	return s.repo.Aggregate(ctx, userID)
}

// Render formats the aggregated list, one numbered line per ingredient.
func (s *shoppingListService) Render(user *models.User, items []repository.ShoppingListItem) string {
	var b strings.Builder

	b.WriteString("Shopping list\n")
	b.WriteString("=============\n\n")
	b.WriteString(fmt.Sprintf("Date: %s\n", time.Now().Format("02.01.2006")))
	if user != nil {
		b.WriteString(fmt.Sprintf("User: %s %s\n\n", user.FirstName, user.LastName))
	}
	b.WriteString("Ingredients:\n")
	b.WriteString("------------\n\n")

	for i, item := range items {
		b.WriteString(fmt.Sprintf("%d. %s (%s) — %d\n",
			i+1, item.Name, item.MeasurementUnit, item.Total))
	}

	b.WriteString(fmt.Sprintf("\nTotal ingredients: %d", len(items)))
	return b.String()
}
