package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"foodgram/internal/dto"
	"foodgram/internal/middleware"
	"foodgram/internal/repository"
	"foodgram/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc         service.UserService
	relations   service.RelationService
	recipes     service.RecipeService
	recipeRepo  *repository.RecipeRepo
	authService service.AuthService
}

func NewUserHandler(
	svc service.UserService,
	relations service.RelationService,
	recipes service.RecipeService,
	recipeRepo *repository.RecipeRepo,
	authService service.AuthService,
) *UserHandler {
	return &UserHandler{
		svc:         svc,
		relations:   relations,
		recipes:     recipes,
		recipeRepo:  recipeRepo,
		authService: authService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.authService)
	authOptional := middleware.OptionalAuthMiddleware(h.authService)

	rg.GET("/", authOptional, h.List)
	rg.GET("/me", authRequired, h.Me)
	rg.POST("/set_password", authRequired, h.SetPassword)
	rg.GET("/me/avatar", authRequired, h.GetAvatar)
	rg.PUT("/me/avatar", authRequired, h.UpdateAvatar)
	rg.DELETE("/me/avatar", authRequired, h.DeleteAvatar)
	rg.GET("/subscriptions", authRequired, h.Subscriptions)
	rg.GET("/:user_id", authOptional, h.Get)
	rg.POST("/:user_id/subscribe", authRequired, h.Subscribe)
	rg.DELETE("/:user_id/subscribe", authRequired, h.Unsubscribe)
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.svc.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	subscribed, err := h.relations.SubscribedIDs(ctx, middleware.CurrentUserID(c))
	if err != nil {
		subscribed = map[string]bool{}
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.FromUserToResponse(u, subscribed[u.ID]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.svc.GetByID(ctx, c.Param("user_id"))
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	isSubscribed, err := h.relations.IsSubscribed(ctx, middleware.CurrentUserID(c), user.ID)
	if err != nil {
		isSubscribed = false
	}
	c.JSON(http.StatusOK, dto.FromUserToResponse(*user, isSubscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.svc.GetByID(ctx, middleware.CurrentUserID(c))
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserToResponse(*user, false))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	err := h.svc.SetPassword(ctx, middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.writeUserError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) GetAvatar(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.svc.GetByID(ctx, middleware.CurrentUserID(c))
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": user.Avatar})
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	var req dto.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.svc.UpdateAvatar(ctx, middleware.CurrentUserID(c), req.Avatar)
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": user.Avatar})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.DeleteAvatar(ctx, middleware.CurrentUserID(c)); err != nil {
		h.writeUserError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the user follows, with recipe previews.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	userID := middleware.CurrentUserID(c)
	authors, err := h.relations.Subscriptions(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		item := dto.SubscriptionResponse{
			UserResponse: dto.FromUserToResponse(author, true),
			Recipes:      []dto.RecipeShortResponse{},
		}

		recipes, err := h.recipes.List(ctx, repository.RecipeFilter{AuthorID: author.ID, Limit: 3})
		if err == nil {
			for _, r := range recipes {
				item.Recipes = append(item.Recipes, dto.FromRecipeToShortResponse(r))
			}
		}
		if count, err := h.recipeRepo.CountByAuthor(ctx, author.ID); err == nil {
			item.RecipesCount = count
		}

		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	author, err := h.relations.Subscribe(ctx, middleware.CurrentUserID(c), c.Param("user_id"))
	if err != nil {
		h.writeSubscribeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromUserToResponse(*author, true))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.relations.Unsubscribe(ctx, middleware.CurrentUserID(c), c.Param("user_id")); err != nil {
		h.writeSubscribeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) writeUserError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *UserHandler) writeSubscribeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSelfSubscription), errors.Is(err, service.ErrAlreadySubscribed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrNotSubscribed):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
