package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/codec"
	"github.com/pageza/recipebox/backend/internal/filter"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/pagination"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// Paging holds the page size used when a request names none, and the
// largest size a request may ask for.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

type RecipeHandler struct {
	recipeService service.IRecipeService
	paging        Paging
}

func NewRecipeHandler(recipeService service.IRecipeService, paging Paging) *RecipeHandler {
	if paging.DefaultSize <= 0 {
		paging.DefaultSize = pagination.DefaultPageSize
	}
	return &RecipeHandler{
		recipeService: recipeService,
		paging:        paging,
	}
}

// RegisterRoutes mounts the recipe endpoints on router. The writes handlers
// run in front of every mutating endpoint.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, writes ...gin.HandlerFunc) {
	guarded := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(slices.Clip(writes), handler)
	}

	recipes := router.Group("/recipes")
	{
		recipes.POST("", guarded(h.CreateRecipe)...)
		recipes.PUT("", guarded(h.UpdateRecipe)...)
		recipes.GET("/find-all", h.ListRecipes)
		recipes.GET("/find", h.FilterRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.DELETE("/:id", guarded(h.DeleteRecipe)...)
	}
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.Failed(err.Error()))
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.OK(recipe))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.Failed(err.Error()))
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(recipe))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipe, err := h.recipeService.DeleteRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(recipe))
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, ok := h.pageRequest(c)
	if !ok {
		return
	}

	result, err := h.recipeService.ListRecipes(c.Request.Context(), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) FilterRecipes(c *gin.Context) {
	var q types.FilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, types.Failed(err.Error()))
		return
	}
	page, ok := h.pageRequest(c)
	if !ok {
		return
	}

	raw := filter.Raw{
		IngredientName:    q.IngredientName,
		IncludeIngredient: q.IncludeIngredient,
		InstructionSearch: q.InstructionSearch,
		NumberOfServings:  q.NumberOfServings,
	}
	if q.Classification != "" {
		class, err := model.ParseClassification(q.Classification)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.Failed(err.Error()))
			return
		}
		raw.Classification = &class
	}

	result, err := h.recipeService.FilterRecipes(c.Request.Context(), raw, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// pageRequest reads page and size from the query string. On failure the
// response has already been written.
func (h *RecipeHandler) pageRequest(c *gin.Context) (pagination.Request, bool) {
	var q types.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, types.Failed(err.Error()))
		return pagination.Request{}, false
	}

	page, size := 0, h.paging.DefaultSize
	if q.Page != nil {
		page = *q.Page
	}
	if q.Size != nil {
		size = *q.Size
	}

	req, err := pagination.NewRequestWithMax(page, size, h.paging.MaxSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.Failed(err.Error()))
		return pagination.Request{}, false
	}
	return req, true
}

// fail maps a service error onto a status code and envelope
func (h *RecipeHandler) fail(c *gin.Context, err error) {
	var decodeErr *codec.DecodeError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, types.Missing(""))
	case errors.Is(err, service.ErrInvalidRecipe):
		c.JSON(http.StatusBadRequest, types.Failed(err.Error()))
	case errors.As(err, &decodeErr):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, types.Failed(
			fmt.Sprintf("Recipe %s has corrupt ingredient data", c.Param("id")),
		))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, types.Failed(""))
	}
}
