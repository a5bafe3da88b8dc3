package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodgram/internal/dto"
	"foodgram/internal/models"
	"foodgram/internal/repository"
	"foodgram/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService mocks the RecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, authorID string, req dto.RecipeCreateRequest) (*models.Recipe, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, recipeID int64, userID string, req dto.RecipeUpdateRequest) (*models.Recipe, error) {
	args := m.Called(ctx, recipeID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, recipeID int64, userID string) error {
	args := m.Called(ctx, recipeID, userID)
	return args.Error(0)
}

func (m *MockRecipeService) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetByShortLink(ctx context.Context, token string) (*models.Recipe, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) ShortLink(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

// MockRelationService mocks the RelationService interface
type MockRelationService struct {
	mock.Mock
}

func (m *MockRelationService) Favorite(ctx context.Context, userID string, recipeID int64) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRelationService) Unfavorite(ctx context.Context, userID string, recipeID int64) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockRelationService) AddToCart(ctx context.Context, userID string, recipeID int64) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRelationService) RemoveFromCart(ctx context.Context, userID string, recipeID int64) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockRelationService) Subscribe(ctx context.Context, userID, authorID string) (*models.User, error) {
	args := m.Called(ctx, userID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRelationService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	args := m.Called(ctx, userID, authorID)
	return args.Error(0)
}

func (m *MockRelationService) RecipeFlags(ctx context.Context, userID string) (map[int64]bool, map[int64]bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(map[int64]bool), args.Get(1).(map[int64]bool), args.Error(2)
}

func (m *MockRelationService) IsSubscribed(ctx context.Context, userID, authorID string) (bool, error) {
	args := m.Called(ctx, userID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRelationService) SubscribedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockRelationService) Subscriptions(ctx context.Context, userID string) ([]models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// MockShoppingListService mocks the ShoppingListService interface
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Aggregate(ctx context.Context, userID string) ([]repository.ShoppingListItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ShoppingListItem), args.Error(1)
}

func (m *MockShoppingListService) Render(user *models.User, items []repository.ShoppingListItem) string {
	args := m.Called(user, items)
	return args.String(0)
}

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) SetPassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockUserService) UpdateAvatar(ctx context.Context, userID, avatar string) (*models.User, error) {
	args := m.Called(ctx, userID, avatar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) DeleteAvatar(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newRecipeHandlerMocks() (*RecipeHandler, *MockRecipeService, *MockRelationService, *MockShoppingListService, *MockUserService) {
	recipes := new(MockRecipeService)
	relations := new(MockRelationService)
	shopping := new(MockShoppingListService)
	users := new(MockUserService)
	h := NewRecipeHandler(recipes, relations, shopping, users, new(MockAuthService))
	return h, recipes, relations, shopping, users
}

// asUser fakes an authenticated request the way AuthMiddleware would.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func TestRecipeHandlerGet_Anonymous(t *testing.T) {
	h, recipes, relations, _, _ := newRecipeHandlerMocks()
	router := setupRouter()
	router.GET("/recipes/:recipe_id", h.Get)

	author := &models.User{ID: "author-1", Username: "chef"}
	recipe := &models.Recipe{ID: 7, AuthorID: "author-1", Name: "Pancakes", Author: author}

	recipes.On("GetByID", mock.Anything, int64(7)).Return(recipe, nil)
	relations.On("RecipeFlags", mock.Anything, "").Return(map[int64]bool{}, map[int64]bool{}, nil)
	relations.On("SubscribedIDs", mock.Anything, "").Return(map[string]bool{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recipes/7", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_favorited":false`)
	assert.Contains(t, w.Body.String(), `"is_in_shopping_cart":false`)
}

func TestRecipeHandlerGet_NotFound(t *testing.T) {
	h, recipes, _, _, _ := newRecipeHandlerMocks()
	router := setupRouter()
	router.GET("/recipes/:recipe_id", h.Get)

	recipes.On("GetByID", mock.Anything, int64(99)).Return(nil, service.ErrRecipeNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recipes/99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeHandlerGet_BadID(t *testing.T) {
	h, _, _, _, _ := newRecipeHandlerMocks()
	router := setupRouter()
	router.GET("/recipes/:recipe_id", h.Get)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recipes/not-a-number", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeHandlerFavorite_Success(t *testing.T) {
	h, _, relations, _, _ := newRecipeHandlerMocks()
	router := setupRouter()
	router.POST("/recipes/:recipe_id/favorite", asUser("user-1"), h.Favorite)

	recipe := &models.Recipe{ID: 7, Name: "Pancakes", CookingTime: 20}
	relations.On("Favorite", mock.Anything, "user-1", int64(7)).Return(recipe, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/recipes/7/favorite", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	// Toggles answer with the short representation.
	assert.Contains(t, w.Body.String(), `"name":"Pancakes"`)
	assert.NotContains(t, w.Body.String(), "ingredients")
}

func TestRecipeHandlerFavorite_Duplicate(t *testing.T) {
	h, _, relations, _, _ := newRecipeHandlerMocks()
	router := setupRouter()
	router.POST("/recipes/:recipe_id/favorite", asUser("user-1"), h.Favorite)

	relations.On("Favorite", mock.Anything, "user-1", int64(7)).Return(nil, service.ErrAlreadyFavorited)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/recipes/7/favorite", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeHandlerUnfavorite_Missing(t *testing.T) {
	h, _, relations, _, _ := newRecipeHandlerMocks()
	router := setupRouter()
	router.DELETE("/recipes/:recipe_id/favorite", asUser("user-1"), h.Unfavorite)

	relations.On("Unfavorite", mock.Anything, "user-1", int64(7)).Return(service.ErrNotFavorited)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/recipes/7/favorite", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeHandlerCreate_ValidationErrorBody(t *testing.T) {
	h, recipes, _, _, _ := newRecipeHandlerMocks()
	router := setupRouter()
	router.POST("/recipes", asUser("user-1"), h.Create)

	ve := service.NewValidationError()
	ve.Add("name", "this field is required")
	ve.Add("tags", "add at least one tag")
	recipes.On("Create", mock.Anything, "user-1", mock.Anything).Return(nil, ve)

	w := postJSON(router, "/recipes", dto.RecipeCreateRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// The body is the field-keyed error map itself.
	assert.Contains(t, w.Body.String(), `"name"`)
	assert.Contains(t, w.Body.String(), `"tags"`)
}

func TestRecipeHandlerDelete_Forbidden(t *testing.T) {
	h, recipes, _, _, _ := newRecipeHandlerMocks()
	router := setupRouter()
	router.DELETE("/recipes/:recipe_id", asUser("intruder"), h.Delete)

	recipes.On("Delete", mock.Anything, int64(7), "intruder").Return(service.ErrNotAuthor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/recipes/7", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecipeHandlerDownloadShoppingCart(t *testing.T) {
	h, _, _, shopping, users := newRecipeHandlerMocks()
	router := setupRouter()
	router.GET("/recipes/download_shopping_cart", asUser("user-1"), h.DownloadShoppingCart)

	items := []repository.ShoppingListItem{{Name: "flour", MeasurementUnit: "g", Total: 150}}
	user := &models.User{ID: "user-1", FirstName: "Alice", LastName: "Smith"}

	shopping.On("Aggregate", mock.Anything, "user-1").Return(items, nil)
	users.On("GetByID", mock.Anything, "user-1").Return(user, nil)
	shopping.On("Render", user, items).Return("rendered list")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recipes/download_shopping_cart", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "rendered list", w.Body.String())
}
