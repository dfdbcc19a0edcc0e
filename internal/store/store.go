// Package store persists recipes and answers filtered, paginated queries over them.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/filter"
	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/pagination"
)

var ErrNotFound = errors.New("recipe not found")

// RecipeStore is the persistence contract for recipes.
type RecipeStore interface {
	// Save inserts or replaces r. A missing ID and DateCreated are assigned,
	// LastUpdated is refreshed. The stored record is returned.
	Save(ctx context.Context, r *model.Recipe) (*model.Recipe, error)
	// FindByID returns ErrNotFound for unknown IDs.
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
	// DeleteByID reports whether a record was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
	// Scan returns every record, newest first.
	Scan(ctx context.Context) ([]model.Recipe, error)
}

// Querier is implemented by stores that evaluate criteria themselves.
type Querier interface {
	Query(ctx context.Context, c filter.Criteria, req pagination.Request) (pagination.Page[model.Recipe], error)
}

// QueryRecipes answers a query against s. Stores implementing Querier answer it
// directly; any other store is scanned and filtered in process. Both strategies
// return the same page for the same data.
func QueryRecipes(ctx context.Context, s RecipeStore, c filter.Criteria, req pagination.Request) (pagination.Page[model.Recipe], error) {
	if q, ok := s.(Querier); ok {
		return q.Query(ctx, c, req)
	}
	return scanQuery(ctx, s, c, req)
}

func scanQuery(ctx context.Context, s RecipeStore, c filter.Criteria, req pagination.Request) (pagination.Page[model.Recipe], error) {
	defer metrics.ObserveQuery("scan", time.Now())

	records, err := s.Scan(ctx)
	if err != nil {
		return pagination.Page[model.Recipe]{}, fmt.Errorf("failed to scan recipes: %w", err)
	}
	matched, failures := filter.Select(c, records)
	ReportDecodeFailures(ctx, "query", failures)
	return pagination.Paginate(matched, req), nil
}

// ReportDecodeFailures logs and counts records whose stored ingredient list
// could not be decoded.
func ReportDecodeFailures(ctx context.Context, operation string, failures []filter.Failure) {
	if len(failures) == 0 {
		return
	}
	log := logger.FromContext(ctx)
	for _, f := range failures {
		log.Warn("recipe has corrupt ingredient data",
			zap.String("operation", operation),
			zap.String("recipe_id", f.RecipeID),
			zap.Error(f.Err),
		)
	}
	metrics.IngredientDecodeFailures.WithLabelValues(operation).Add(float64(len(failures)))
}
