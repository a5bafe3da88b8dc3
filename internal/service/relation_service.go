package service

import (
	"context"
	"errors"

	"foodgram/internal/models"
	"foodgram/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadyFavorited  = errors.New("recipe already in favorites")
	ErrNotFavorited      = errors.New("recipe not in favorites")
	ErrAlreadyInCart     = errors.New("recipe already in shopping cart")
	ErrNotInCart         = errors.New("recipe not in shopping cart")
	ErrAlreadySubscribed = errors.New("already subscribed to this user")
	ErrNotSubscribed     = errors.New("not subscribed to this user")
	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
	ErrUserNotFound      = errors.New("user not found")
)

// RelationService drives the three relationship toggles over the one
// generic repository. Adds are insert-or-reject: a duplicate add fails
// instead of silently succeeding.
type RelationService interface {
	Favorite(ctx context.Context, userID string, recipeID int64) (*models.Recipe, error)
	Unfavorite(ctx context.Context, userID string, recipeID int64) error
	AddToCart(ctx context.Context, userID string, recipeID int64) (*models.Recipe, error)
	RemoveFromCart(ctx context.Context, userID string, recipeID int64) error
	Subscribe(ctx context.Context, userID, authorID string) (*models.User, error)
	Unsubscribe(ctx context.Context, userID, authorID string) error

	// RecipeFlags returns the sets of recipe ids the user has favorited
	// and carted, for annotating listings. Both are empty for userID "".
	RecipeFlags(ctx context.Context, userID string) (favorites, cart map[int64]bool, err error)
	IsSubscribed(ctx context.Context, userID, authorID string) (bool, error)
	SubscribedIDs(ctx context.Context, userID string) (map[string]bool, error)
	Subscriptions(ctx context.Context, userID string) ([]models.User, error)
}

type relationService struct {
	favorites     *repository.RelationRepo[models.Favorite, int64]
	cart          *repository.RelationRepo[models.ShoppingCart, int64]
	subscriptions *repository.RelationRepo[models.Subscription, string]
	recipeRepo    *repository.RecipeRepo
	userRepo      repository.UserRepository
}

func NewRelationService(
	favorites *repository.RelationRepo[models.Favorite, int64],
	cart *repository.RelationRepo[models.ShoppingCart, int64],
	subscriptions *repository.RelationRepo[models.Subscription, string],
	recipeRepo *repository.RecipeRepo,
	userRepo repository.UserRepository,
) RelationService {
	return &relationService{
		favorites:     favorites,
		cart:          cart,
		subscriptions: subscriptions,
		recipeRepo:    recipeRepo,
		userRepo:      userRepo,
	}
}

func (s *relationService) Favorite(ctx context.Context, userID string, recipeID int64) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	err = s.favorites.Add(ctx, &models.Favorite{UserID: userID, RecipeID: recipeID})
	if err != nil {
		if errors.Is(err, repository.ErrRelationExists) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	return recipe, nil
}

func (s *relationService) Unfavorite(ctx context.Context, userID string, recipeID int64) error {
	if err := s.favorites.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrRelationNotFound) {
			return ErrNotFavorited
		}
		return err
	}
	return nil
}

func (s *relationService) AddToCart(ctx context.Context, userID string, recipeID int64) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	err = s.cart.Add(ctx, &models.ShoppingCart{UserID: userID, RecipeID: recipeID})
	if err != nil {
		if errors.Is(err, repository.ErrRelationExists) {
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}
	return recipe, nil
}

func (s *relationService) RemoveFromCart(ctx context.Context, userID string, recipeID int64) error {
	if err := s.cart.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrRelationNotFound) {
			return ErrNotInCart
		}
		return err
	}
	return nil
}

// Subscribe guards against self-subscription before any other check.
func (s *relationService) Subscribe(ctx context.Context, userID, authorID string) (*models.User, error) {
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	err = s.subscriptions.Add(ctx, &models.Subscription{UserID: userID, AuthorID: authorID})
	if err != nil {
		if errors.Is(err, repository.ErrRelationExists) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	return author, nil
}

func (s *relationService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	if _, err := s.userRepo.FindByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.subscriptions.Remove(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrRelationNotFound) {
			return ErrNotSubscribed
		}
		return err
	}
	return nil
}

func (s *relationService) RecipeFlags(ctx context.Context, userID string) (map[int64]bool, map[int64]bool, error) {
	favorites := make(map[int64]bool)
	cart := make(map[int64]bool)
	if userID == "" {
		return favorites, cart, nil
	}

	favIDs, err := s.favorites.ObjectIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range favIDs {
		favorites[id] = true
	}

	cartIDs, err := s.cart.ObjectIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range cartIDs {
		cart[id] = true
	}
	return favorites, cart, nil
}

func (s *relationService) IsSubscribed(ctx context.Context, userID, authorID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.subscriptions.Exists(ctx, userID, authorID)
}

// SubscribedIDs returns the set of author ids the user follows, for
// annotating listings in one query. Empty for userID "".
func (s *relationService) SubscribedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	subscribed := make(map[string]bool)
	if userID == "" {
		return subscribed, nil
	}
	ids, err := s.subscriptions.ObjectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}

// Subscriptions returns the authors the user follows, in follow order.
func (s *relationService) Subscriptions(ctx context.Context, userID string) ([]models.User, error) {
	authorIDs, err := s.subscriptions.ObjectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authors := make([]models.User, 0, len(authorIDs))
	for _, id := range authorIDs {
		author, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		authors = append(authors, *author)
	}
	return authors, nil
}
