package service

import (
	"context"

	"github.com/pageza/recipebox/backend/internal/filter"
	"github.com/pageza/recipebox/backend/internal/pagination"
	"github.com/pageza/recipebox/backend/internal/types"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, req *types.CreateRecipeRequest) (*types.RecipeResponse, error)
	GetRecipe(ctx context.Context, id string) (*types.RecipeResponse, error)
	UpdateRecipe(ctx context.Context, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, id string) (*types.RecipeResponse, error)
	ListRecipes(ctx context.Context, page pagination.Request) (pagination.Page[types.RecipeResponse], error)
	FilterRecipes(ctx context.Context, raw filter.Raw, page pagination.Request) (pagination.Page[types.RecipeResponse], error)
}

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
