package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/backend/internal/filter"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/pagination"
)

// recipeRow is the persisted shape of a recipe. InstructionsFolded holds the
// instructions lowercased by filter.Fold so instruction search can run in SQL
// with the same case folding the in-process predicate uses.
type recipeRow struct {
	model.Recipe       `gorm:"embedded"`
	InstructionsFolded string `gorm:"type:text;not null;default:''"`
}

func (recipeRow) TableName() string {
	return "recipes"
}

// Models lists the gorm models backing this package, for AutoMigrate.
func Models() []any {
	return []any{&recipeRow{}}
}

func newRow(r model.Recipe) recipeRow {
	return recipeRow{Recipe: r, InstructionsFolded: filter.Fold(r.Instructions)}
}

func (row recipeRow) recipe() model.Recipe {
	r := row.Recipe
	r.DateCreated = model.Timestamp(r.DateCreated)
	r.LastUpdated = model.Timestamp(r.LastUpdated)
	return r
}

func toRecipes(rows []recipeRow) []model.Recipe {
	out := make([]model.Recipe, len(rows))
	for i := range rows {
		out[i] = rows[i].recipe()
	}
	return out
}

// Gorm stores recipes in a SQL database and pushes query criteria into SQL.
type Gorm struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGorm returns a store over db. The recipes table must already exist.
func NewGorm(db *gorm.DB, opts ...Option) *Gorm {
	o := applyOptions(opts)
	return &Gorm{db: db, now: o.now}
}

// mutableColumns are replaced on update; id and date_created never change.
var mutableColumns = []string{
	"last_updated", "name", "number_of_servings", "classification",
	"ingredients", "instructions", "instructions_folded",
}

func (s *Gorm) Save(ctx context.Context, r *model.Recipe) (*model.Recipe, error) {
	rec := *r
	if rec.ID != "" && rec.DateCreated.IsZero() {
		existing, err := s.FindByID(ctx, rec.ID)
		switch {
		case err == nil:
			rec.DateCreated = existing.DateCreated
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}
	rec.Stamp(s.now())

	row := newRow(rec)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(mutableColumns),
		}).
		Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	return &rec, nil
}

func (s *Gorm) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	var row recipeRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	rec := row.recipe()
	return &rec, nil
}

func (s *Gorm) DeleteByID(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&recipeRow{}, "id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete recipe: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *Gorm) Scan(ctx context.Context) ([]model.Recipe, error) {
	var rows []recipeRow
	if err := s.db.WithContext(ctx).Order(s.order()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return toRecipes(rows), nil
}

// Query filters on classification, servings and instruction text in SQL. The
// ingredient list is a text blob, so when an ingredient criterion is active the
// prefiltered rows are evaluated and paginated in process. Rows with corrupt
// ingredients are then skipped and reported like in the scan strategy.
func (s *Gorm) Query(ctx context.Context, c filter.Criteria, req pagination.Request) (pagination.Page[model.Recipe], error) {
	defer metrics.ObserveQuery("pushdown", time.Now())

	if c.Ingredient.IsWildcard() {
		var total int64
		if err := s.where(ctx, c).Count(&total).Error; err != nil {
			return pagination.Page[model.Recipe]{}, fmt.Errorf("failed to count recipes: %w", err)
		}
		if req.PastEnd(int(total)) {
			return pagination.NewPage[model.Recipe](nil, int(total), req), nil
		}

		var rows []recipeRow
		err := s.where(ctx, c).
			Order(s.order()).
			Limit(req.Size).
			Offset(req.Offset()).
			Find(&rows).Error
		if err != nil {
			return pagination.Page[model.Recipe]{}, fmt.Errorf("failed to query recipes: %w", err)
		}
		return pagination.NewPage(toRecipes(rows), int(total), req), nil
	}

	var rows []recipeRow
	if err := s.where(ctx, c).Order(s.order()).Find(&rows).Error; err != nil {
		return pagination.Page[model.Recipe]{}, fmt.Errorf("failed to query recipes: %w", err)
	}
	matched, failures := filter.Select(c, toRecipes(rows))
	ReportDecodeFailures(ctx, "query", failures)
	return pagination.NewPage(pagination.Window(matched, req), len(matched), req), nil
}

func (s *Gorm) where(ctx context.Context, c filter.Criteria) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&recipeRow{})
	if v, ok := c.Classification.Get(); ok {
		tx = tx.Where("classification = ?", string(v))
	}
	if v, ok := c.NumberOfServings.Get(); ok {
		tx = tx.Where("number_of_servings = ?", v)
	}
	if v, ok := c.InstructionSearch.Get(); ok {
		tx = tx.Where(`instructions_folded LIKE ? ESCAPE '\'`, "%"+escapeLike(v)+"%")
	}
	return tx
}

// order sorts newest first with ties broken by byte order of id, matching pagination.Compare.
func (s *Gorm) order() string {
	if s.db.Dialector.Name() == "postgres" {
		return `date_created DESC, id COLLATE "C" ASC`
	}
	return "date_created DESC, id ASC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
