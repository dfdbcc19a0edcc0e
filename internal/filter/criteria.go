// Package filter turns raw recipe query parameters into canonical criteria and
// evaluates those criteria against stored recipes.
package filter

import (
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/recipebox/backend/internal/model"
)

// Raw holds query parameters as a caller supplies them. Empty strings, a zero
// serving count and a nil classification all mean "no constraint".
type Raw struct {
	IngredientName    string
	IncludeIngredient bool
	InstructionSearch string
	NumberOfServings  int64
	Classification    *model.Classification
}

// IngredientConstraint requires a recipe to contain (Include) or lack an
// ingredient with exactly this name.
type IngredientConstraint struct {
	Name    string
	Include bool
}

func (ic IngredientConstraint) String() string {
	if ic.Include {
		return "+" + ic.Name
	}
	return "-" + ic.Name
}

// Criteria is the canonical form of a recipe query. The zero value matches every
// recipe. InstructionSearch holds an already lowercased needle; build Criteria
// with Normalize unless the values are known to be canonical.
type Criteria struct {
	Classification    Field[model.Classification]
	NumberOfServings  Field[int64]
	InstructionSearch Field[string]
	Ingredient        Field[IngredientConstraint]
}

// Normalize converts raw parameters into Criteria. It accepts any input.
func Normalize(raw Raw) Criteria {
	var c Criteria

	// Names match exactly, so only a blank name is dropped; the value is kept untrimmed.
	if strings.TrimSpace(raw.IngredientName) != "" {
		c.Ingredient = Active(IngredientConstraint{Name: raw.IngredientName, Include: raw.IncludeIngredient})
	}
	if search := strings.TrimSpace(raw.InstructionSearch); search != "" {
		c.InstructionSearch = Active(Fold(search))
	}
	// Zero is the "any" sentinel, so a recipe with no servings can't be selected by count.
	if raw.NumberOfServings > 0 {
		c.NumberOfServings = Active(raw.NumberOfServings)
	}
	if raw.Classification != nil {
		c.Classification = Active(*raw.Classification)
	}
	return c
}

// IsWildcard reports whether c matches every recipe.
func (c Criteria) IsWildcard() bool {
	return c.Classification.IsWildcard() &&
		c.NumberOfServings.IsWildcard() &&
		c.InstructionSearch.IsWildcard() &&
		c.Ingredient.IsWildcard()
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (c Criteria) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("classification", c.Classification.String())
	enc.AddString("numberOfServings", c.NumberOfServings.String())
	enc.AddString("instructionSearch", c.InstructionSearch.String())
	enc.AddString("ingredient", c.Ingredient.String())
	return nil
}

func (c Criteria) String() string {
	return "classification=" + c.Classification.String() +
		" servings=" + c.NumberOfServings.String() +
		" instructions=" + strconv.Quote(c.InstructionSearch.String()) +
		" ingredient=" + c.Ingredient.String()
}

// Fold lowercases s for case-insensitive comparison.
func Fold(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Lower(language.Und).String(s)
}
