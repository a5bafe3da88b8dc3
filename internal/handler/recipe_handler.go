package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"foodgram/internal/dto"
	"foodgram/internal/middleware"
	"foodgram/internal/models"
	"foodgram/internal/repository"
	"foodgram/internal/service"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	svc         service.RecipeService
	relations   service.RelationService
	shopping    service.ShoppingListService
	users       service.UserService
	authService service.AuthService
}

func NewRecipeHandler(
	svc service.RecipeService,
	relations service.RelationService,
	shopping service.ShoppingListService,
	users service.UserService,
	authService service.AuthService,
) *RecipeHandler {
	return &RecipeHandler{
		svc:         svc,
		relations:   relations,
		shopping:    shopping,
		users:       users,
		authService: authService,
	}
}

func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.authService)
	authOptional := middleware.OptionalAuthMiddleware(h.authService)

	// Read is open to all, anonymous included
	rg.GET("/", authOptional, h.List)
	rg.GET("/by-uuid/:uuid", authOptional, h.GetByShortLink)
	rg.GET("/:recipe_id", authOptional, h.Get)
	rg.GET("/:recipe_id/get-link", h.GetLink)

	rg.POST("/", authRequired, h.Create)
	rg.PATCH("/:recipe_id", authRequired, h.Update)
	rg.DELETE("/:recipe_id", authRequired, h.Delete)

	rg.GET("/favorites", authRequired, h.Favorites)
	rg.POST("/:recipe_id/favorite", authRequired, h.Favorite)
	rg.DELETE("/:recipe_id/favorite", authRequired, h.Unfavorite)

	rg.GET("/download_shopping_cart", authRequired, h.DownloadShoppingCart)
	rg.POST("/:recipe_id/shopping_cart", authRequired, h.AddToCart)
	rg.DELETE("/:recipe_id/shopping_cart", authRequired, h.RemoveFromCart)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var req dto.RecipeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.svc.Create(ctx, userID, req)
	if err != nil {
		h.writeRecipeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toResponse(ctx, userID, *recipe))
}

func (h *RecipeHandler) Update(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	var req dto.RecipeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.svc.Update(ctx, recipeID, userID, req)
	if err != nil {
		h.writeRecipeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toResponse(ctx, userID, *recipe))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, recipeID, userID); err != nil {
		h.writeRecipeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.svc.GetByID(ctx, recipeID)
	if err != nil {
		h.writeRecipeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toResponse(ctx, middleware.CurrentUserID(c), *recipe))
}

func (h *RecipeHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	userID := middleware.CurrentUserID(c)

	filter := repository.RecipeFilter{
		AuthorID: c.Query("author"),
	}
	if tags := c.Query("tags"); tags != "" {
		filter.TagSlugs = strings.Split(tags, ",")
	}
	if c.Query("is_favorited") == "1" && userID != "" {
		filter.FavoritedBy = userID
	}
	if c.Query("is_in_shopping_cart") == "1" && userID != "" {
		filter.InCartOf = userID
	}

	list, err := h.svc.List(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.toResponses(ctx, userID, list))
}

// Favorites lists the authenticated user's favorited recipes.
func (h *RecipeHandler) Favorites(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	userID := middleware.CurrentUserID(c)

	filter := repository.RecipeFilter{FavoritedBy: userID}
	if tags := c.Query("tags"); tags != "" {
		filter.TagSlugs = strings.Split(tags, ",")
	}

	list, err := h.svc.List(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.toResponses(ctx, userID, list))
}

// GetLink returns the recipe's immutable short-link token.
func (h *RecipeHandler) GetLink(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	token, err := h.svc.ShortLink(ctx, recipeID)
	if err != nil {
		h.writeRecipeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ShortLinkResponse{ShortLink: token})
}

// GetByShortLink resolves a short-link token back to the full recipe.
func (h *RecipeHandler) GetByShortLink(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.svc.GetByShortLink(ctx, c.Param("uuid"))
	if err != nil {
		h.writeRecipeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toResponse(ctx, middleware.CurrentUserID(c), *recipe))
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addRelation(c, h.relations.Favorite)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeRelation(c, h.relations.Unfavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.relations.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.relations.RemoveFromCart)
}

func (h *RecipeHandler) addRelation(c *gin.Context, add func(context.Context, string, int64) (*models.Recipe, error)) {
	userID := middleware.CurrentUserID(c)
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := add(ctx, userID, recipeID)
	if err != nil {
		h.writeRelationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromRecipeToShortResponse(*recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove func(context.Context, string, int64) error) {
	userID := middleware.CurrentUserID(c)
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := remove(ctx, userID, recipeID); err != nil {
		h.writeRelationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart aggregates the user's cart and returns it as a
// plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.shopping.Aggregate(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	text := h.shopping.Render(user, items)
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// toResponse materializes one recipe with the requesting user's flags.
func (h *RecipeHandler) toResponse(ctx context.Context, userID string, recipe models.Recipe) dto.RecipeResponse {
	responses := h.toResponses(ctx, userID, []models.Recipe{recipe})
	return responses[0]
}

func (h *RecipeHandler) toResponses(ctx context.Context, userID string, recipes []models.Recipe) []dto.RecipeResponse {
	favorites, cart, err := h.relations.RecipeFlags(ctx, userID)
	if err != nil {
		favorites, cart = map[int64]bool{}, map[int64]bool{}
	}
	subscribed, err := h.relations.SubscribedIDs(ctx, userID)
	if err != nil {
		subscribed = map[string]bool{}
	}

	responses := make([]dto.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		resp := dto.FromRecipeToResponse(r, favorites[r.ID], cart[r.ID])
		if r.Author != nil {
			resp.Author.IsSubscribed = subscribed[r.Author.ID]
		}
		responses = append(responses, resp)
	}
	return responses
}

func (h *RecipeHandler) writeRecipeError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ve.Fields)
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, service.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *RecipeHandler) writeRelationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, service.ErrAlreadyFavorited), errors.Is(err, service.ErrAlreadyInCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFavorited), errors.Is(err, service.ErrNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func recipeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("recipe_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe_id"})
		return 0, false
	}
	return id, true
}
