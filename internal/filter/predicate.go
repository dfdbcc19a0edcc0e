package filter

import (
	"strings"

	"github.com/pageza/recipebox/backend/internal/codec"
	"github.com/pageza/recipebox/backend/internal/model"
)

// Evaluate reports whether r satisfies every active criterion in c.
//
// Criteria are checked cheapest first and the ingredient list is only decoded
// when an ingredient criterion is active. If that decode fails the recipe does
// not match and the *codec.DecodeError is returned so the caller can report the
// corrupt record; Evaluate never fails for any other reason.
func Evaluate(c Criteria, r *model.Recipe) (bool, error) {
	if want, ok := c.Classification.Get(); ok && r.Classification != want {
		return false, nil
	}
	if want, ok := c.NumberOfServings.Get(); ok && r.NumberOfServings != want {
		return false, nil
	}
	if needle, ok := c.InstructionSearch.Get(); ok && !strings.Contains(Fold(r.Instructions), needle) {
		return false, nil
	}
	if want, ok := c.Ingredient.Get(); ok {
		found, err := codec.Contains(r.Ingredients, want.Name)
		if err != nil {
			return false, err
		}
		if found != want.Include {
			return false, nil
		}
	}
	return true, nil
}

// Matches is Evaluate without the decode error.
func Matches(c Criteria, r *model.Recipe) bool {
	ok, _ := Evaluate(c, r)
	return ok
}

// Failure identifies a record whose ingredients could not be decoded during selection.
type Failure struct {
	RecipeID string
	Err      error
}

// Select returns the records matching c in input order, along with every record
// that was skipped because its ingredients could not be decoded.
func Select(c Criteria, records []model.Recipe) ([]model.Recipe, []Failure) {
	matched := make([]model.Recipe, 0, len(records))
	var failures []Failure
	for i := range records {
		ok, err := Evaluate(c, &records[i])
		if err != nil {
			failures = append(failures, Failure{RecipeID: records[i].ID, Err: err})
			continue
		}
		if ok {
			matched = append(matched, records[i])
		}
	}
	return matched, failures
}
