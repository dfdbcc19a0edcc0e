package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/codec"
	"github.com/pageza/recipebox/backend/internal/filter"
	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/pagination"
	"github.com/pageza/recipebox/backend/internal/store"
	"github.com/pageza/recipebox/backend/internal/types"
)

var (
	ErrNotFound      = errors.New("recipe not found")
	ErrInvalidRecipe = errors.New("invalid recipe")
)

// RecipeService handles recipe operations
type RecipeService struct {
	store store.RecipeStore
	log   *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(s store.RecipeStore, log *zap.Logger) *RecipeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecipeService{store: s, log: log}
}

// scoped makes sure downstream code logs through the request logger, or the
// service logger outside a request.
func (s *RecipeService) scoped(ctx context.Context) (context.Context, *zap.Logger) {
	l := logger.FromContextOr(ctx, s.log)
	return logger.ContextWithLogger(ctx, l), l
}

// CreateRecipe creates a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, req *types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	ctx, log := s.scoped(ctx)

	rec, err := toModel(req)
	if err != nil {
		return nil, err
	}
	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	log.Info("recipe created", zap.String("recipe_id", saved.ID))
	resp := render(ctx, "create", saved)
	return &resp, nil
}

// GetRecipe retrieves a recipe by ID. A stored ingredient list that cannot be
// decoded is an error here; the caller never sees an empty list in its place.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*types.RecipeResponse, error) {
	ctx, _ = s.scoped(ctx)

	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	ingredients, err := codec.Decode(rec.Ingredients)
	if err != nil {
		store.ReportDecodeFailures(ctx, "get", []filter.Failure{{RecipeID: rec.ID, Err: err}})
		return nil, fmt.Errorf("recipe %s has corrupt ingredient data: %w", rec.ID, err)
	}
	resp := toResponse(rec, ingredients)
	return &resp, nil
}

// UpdateRecipe replaces the mutable fields of an existing recipe
func (s *RecipeService) UpdateRecipe(ctx context.Context, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	ctx, log := s.scoped(ctx)

	existing, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	rec, err := toModel(&req.CreateRecipeRequest)
	if err != nil {
		return nil, err
	}
	rec.AuditedRecord = existing.AuditedRecord

	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	log.Info("recipe updated", zap.String("recipe_id", saved.ID))
	resp := render(ctx, "update", saved)
	return &resp, nil
}

// DeleteRecipe deletes a recipe and returns what was deleted
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) (*types.RecipeResponse, error) {
	ctx, log := s.scoped(ctx)

	rec, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete recipe: %w", err)
	}
	if !deleted {
		// removed concurrently between the lookup and the delete
		return nil, ErrNotFound
	}

	log.Info("recipe deleted", zap.String("recipe_id", id))
	resp := render(ctx, "delete", rec)
	return &resp, nil
}

// ListRecipes returns one page of all recipes, newest first
func (s *RecipeService) ListRecipes(ctx context.Context, page pagination.Request) (pagination.Page[types.RecipeResponse], error) {
	return s.query(ctx, "list", filter.Criteria{}, page)
}

// FilterRecipes returns one page of the recipes matching raw, newest first
func (s *RecipeService) FilterRecipes(ctx context.Context, raw filter.Raw, page pagination.Request) (pagination.Page[types.RecipeResponse], error) {
	return s.query(ctx, "filter", filter.Normalize(raw), page)
}

func (s *RecipeService) query(ctx context.Context, op string, c filter.Criteria, page pagination.Request) (pagination.Page[types.RecipeResponse], error) {
	ctx, log := s.scoped(ctx)
	log.Debug("querying recipes",
		zap.String("operation", op),
		zap.Object("criteria", c),
		zap.Int("page", page.Page),
		zap.Int("size", page.Size),
	)

	result, err := store.QueryRecipes(ctx, s.store, c, page)
	if err != nil {
		return pagination.Page[types.RecipeResponse]{}, fmt.Errorf("failed to query recipes: %w", err)
	}
	return pagination.MapPage(result, func(r model.Recipe) types.RecipeResponse {
		return render(ctx, op, &r)
	}), nil
}

func (s *RecipeService) find(ctx context.Context, id string) (*model.Recipe, error) {
	rec, err := s.store.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return rec, nil
}

func toModel(req *types.CreateRecipeRequest) (*model.Recipe, error) {
	class, err := model.ParseClassification(req.Classification)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}

	ingredients := make([]model.Ingredient, len(req.Ingredients))
	for i, in := range req.Ingredients {
		unit, err := model.ParseUnitOfMeasure(in.UnitOfMeasure)
		if err != nil {
			return nil, fmt.Errorf("%w: ingredient %d: %v", ErrInvalidRecipe, i, err)
		}
		ingredients[i] = model.Ingredient{Name: in.Name, Quantity: in.Quantity, UnitOfMeasure: unit}
	}
	blob, err := codec.Encode(ingredients)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}

	return &model.Recipe{
		Name:             req.Name,
		NumberOfServings: req.NumberOfServings,
		Classification:   class,
		Ingredients:      blob,
		Instructions:     req.Instructions,
	}, nil
}

// render converts a stored recipe for output. A corrupt ingredient list is
// reported and rendered as null with IngredientsCorrupt set.
func render(ctx context.Context, op string, rec *model.Recipe) types.RecipeResponse {
	ingredients, err := codec.Decode(rec.Ingredients)
	if err != nil {
		store.ReportDecodeFailures(ctx, op, []filter.Failure{{RecipeID: rec.ID, Err: err}})
		resp := toResponse(rec, nil)
		resp.IngredientsCorrupt = true
		return resp
	}
	return toResponse(rec, ingredients)
}

func toResponse(rec *model.Recipe, ingredients []model.Ingredient) types.RecipeResponse {
	var items []types.IngredientResponse
	if ingredients != nil {
		items = make([]types.IngredientResponse, len(ingredients))
		for i, in := range ingredients {
			items[i] = types.IngredientResponse{
				Name:          in.Name,
				Quantity:      in.Quantity,
				UnitOfMeasure: string(in.UnitOfMeasure),
			}
		}
	}
	return types.RecipeResponse{
		ID:               rec.ID,
		Name:             rec.Name,
		NumberOfServings: rec.NumberOfServings,
		Classification:   string(rec.Classification),
		Ingredients:      items,
		Instructions:     rec.Instructions,
		DateCreated:      rec.DateCreated,
		LastUpdated:      rec.LastUpdated,
	}
}
