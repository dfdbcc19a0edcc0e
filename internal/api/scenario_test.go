package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/mocks"
	"github.com/pageza/recipebox/backend/internal/pagination"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/store"
	"github.com/pageza/recipebox/backend/internal/testhelpers/fixtures"
	"github.com/pageza/recipebox/backend/internal/types"
)

func setupStoreRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	mem := store.NewMemory(store.WithClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	}))
	return setupRecipeTestRouter(service.NewRecipeService(mem, zap.NewNop())), mem
}

func names(page pagination.Page[types.RecipeResponse]) []string {
	out := make([]string, len(page.Content))
	for i, r := range page.Content {
		out[i] = r.Name
	}
	return out
}

func TestRecipeScenarioOverHTTP(t *testing.T) {
	router, _ := setupStoreRouter(t)

	smoothieBody := map[string]any{
		"name":             "Green smoothie",
		"numberOfServings": 1,
		"classification":   "VEGETARIAN",
		"ingredients": []map[string]any{
			{"name": "lettuce", "quantity": 150, "unitOfMeasure": "GRAM"},
			{"name": "water", "quantity": 500, "unitOfMeasure": "MILLILITRE"},
		},
		"instructions": "Add lettuce and water to blender and crush",
	}

	w := doRequest(router, http.MethodPost, "/api/v1/recipes", eggBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	egg := decode[types.APIResponse[types.RecipeResponse]](t, w).Body

	w = doRequest(router, http.MethodPost, "/api/v1/recipes", smoothieBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("AllCriteria", func(t *testing.T) {
		w := doRequest(router, http.MethodGet,
			"/api/v1/recipes/find?ingredientName=egg&includeIngredient=true&instructionSearch=boil&numberOfServings=1&classification=NON_VEGETARIAN", nil)
		require.Equal(t, http.StatusOK, w.Code)

		page := decode[pagination.Page[types.RecipeResponse]](t, w)
		assert.Equal(t, []string{"Boil egg"}, names(page))
		assert.Equal(t, 1, page.TotalElements)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("Wildcards", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/recipes/find", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"Green smoothie", "Boil egg"}, names(decode[pagination.Page[types.RecipeResponse]](t, w)))
	})

	t.Run("Exclude", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/recipes/find?ingredientName=egg&includeIngredient=false", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"Green smoothie"}, names(decode[pagination.Page[types.RecipeResponse]](t, w)))
	})

	t.Run("PageBeyondEnd", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/recipes/find-all?page=3&size=1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		page := decode[pagination.Page[types.RecipeResponse]](t, w)
		assert.Empty(t, page.Content)
		assert.Equal(t, 2, page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)

		w = doRequest(router, http.MethodGet, "/api/v1/recipes/find?page=922337203685477581&size=10", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		page = decode[pagination.Page[types.RecipeResponse]](t, w)
		assert.Empty(t, page.Content)
		assert.Equal(t, 2, page.TotalElements)
	})

	t.Run("UpdateThenDelete", func(t *testing.T) {
		update := map[string]any{"id": egg.ID}
		for k, v := range eggBody {
			update[k] = v
		}
		update["numberOfServings"] = 2

		w := doRequest(router, http.MethodPut, "/api/v1/recipes", update)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decode[types.APIResponse[types.RecipeResponse]](t, w).Body
		assert.Equal(t, int64(2), updated.NumberOfServings)
		assert.Equal(t, egg.DateCreated, updated.DateCreated)
		assert.True(t, updated.LastUpdated.After(egg.LastUpdated))

		w = doRequest(router, http.MethodDelete, "/api/v1/recipes/"+egg.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, egg.ID, decode[types.APIResponse[types.RecipeResponse]](t, w).Body.ID)

		w = doRequest(router, http.MethodGet, "/api/v1/recipes/"+egg.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doRequest(router, http.MethodDelete, "/api/v1/recipes/"+egg.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCorruptRecipeOverHTTP(t *testing.T) {
	router, mem := setupStoreRouter(t)

	corrupt := fixtures.Corrupt(t, "Flatbread")
	saved, err := mem.Save(context.Background(), &corrupt)
	require.NoError(t, err)

	w := doRequest(router, http.MethodGet, "/api/v1/recipes/"+saved.ID, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[types.APIResponse[any]](t, w)
	assert.Equal(t, types.Error, resp.ResponseCode)
	assert.Contains(t, resp.Narrative, saved.ID)

	w = doRequest(router, http.MethodGet, "/api/v1/recipes/find-all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[pagination.Page[types.RecipeResponse]](t, w)
	require.Len(t, page.Content, 1)
	assert.True(t, page.Content[0].IngredientsCorrupt)
	assert.Nil(t, page.Content[0].Ingredients)

	// an ingredient criterion cannot be evaluated against the record
	w = doRequest(router, http.MethodGet, "/api/v1/recipes/find?ingredientName=flour", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[pagination.Page[types.RecipeResponse]](t, w).Content)
}

func TestHealthCheck(t *testing.T) {
	checker := new(mocks.MockHealthChecker)
	router := gin.New()
	router.GET("/health", HealthCheck(checker))

	checker.On("HealthCheck", mock.Anything).Return(nil).Once()
	w := doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, w)["status"])

	checker.On("HealthCheck", mock.Anything).Return(errors.New("connection refused")).Once()
	w = doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "connection refused", body["database"])
}
