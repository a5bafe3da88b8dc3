package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"foodgram/internal/dto"
	"foodgram/internal/middleware"
	"foodgram/internal/models"
	"foodgram/internal/service"

	"github.com/gin-gonic/gin"
)

type IngredientHandler struct {
	svc         service.IngredientService
	authService service.AuthService
}

func NewIngredientHandler(svc service.IngredientService, authService service.AuthService) *IngredientHandler {
	return &IngredientHandler{svc: svc, authService: authService}
}

func (h *IngredientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:ingredient_id", h.Get)
	// Reference data, bulk-loaded by administrators
	rg.POST("/load", middleware.AuthMiddleware(h.authService), middleware.RequireAdmin(), h.Load)
}

// List supports a ?name= prefix filter for the search box.
func (h *IngredientHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ingredients, err := h.svc.GetAll(ctx, c.Query("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("ingredient_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient_id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ing, err := h.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrIngredientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ing)
}

// Load bulk-inserts reference ingredients.
func (h *IngredientHandler) Load(c *gin.Context) {
	var req dto.IngredientLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	ingredients := make([]models.Ingredient, 0, len(req.Ingredients))
	for _, in := range req.Ingredients {
		ingredients = append(ingredients, models.Ingredient{
			Name:            in.Name,
			MeasurementUnit: in.MeasurementUnit,
		})
	}

	if err := h.svc.Load(ctx, ingredients); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"loaded": len(ingredients)})
}
