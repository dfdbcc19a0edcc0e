// Package fixtures builds recipe records for tests.
package fixtures

import (
	"testing"

	"github.com/pageza/recipebox/backend/internal/codec"
	"github.com/pageza/recipebox/backend/internal/model"
)

// EggIngredients is the ingredient list of the "Boil egg" recipe.
func EggIngredients() []model.Ingredient {
	return []model.Ingredient{
		{Name: "egg", Quantity: 1, UnitOfMeasure: model.Unit},
	}
}

// SmoothieIngredients is the ingredient list of the "Green smoothie" recipe.
func SmoothieIngredients() []model.Ingredient {
	return []model.Ingredient{
		{Name: "lettuce", Quantity: 150, UnitOfMeasure: model.Gram},
		{Name: "water", Quantity: 500, UnitOfMeasure: model.Millilitre},
	}
}

// NewRecipe returns an unsaved recipe with encoded ingredients.
func NewRecipe(t testing.TB, name string, class model.Classification, servings int64, instructions string, ingredients []model.Ingredient) model.Recipe {
	t.Helper()
	blob, err := codec.Encode(ingredients)
	if err != nil {
		t.Fatalf("encode ingredients for %q: %v", name, err)
	}
	return model.Recipe{
		Name:             name,
		NumberOfServings: servings,
		Classification:   class,
		Ingredients:      blob,
		Instructions:     instructions,
	}
}

// BoilEgg returns the non-vegetarian sample recipe.
func BoilEgg(t testing.TB) model.Recipe {
	return NewRecipe(t, "Boil egg", model.NonVegetarian, 1,
		"Add water and egg to pot and bring to boil", EggIngredients())
}

// GreenSmoothie returns the vegetarian sample recipe.
func GreenSmoothie(t testing.TB) model.Recipe {
	return NewRecipe(t, "Green smoothie", model.Vegetarian, 1,
		"Add lettuce and water to blender and crush", SmoothieIngredients())
}

// Corrupt returns a recipe whose stored ingredient list cannot be decoded.
func Corrupt(t testing.TB, name string) model.Recipe {
	r := NewRecipe(t, name, model.Vegetarian, 2, "Stir well", nil)
	r.Ingredients = `[{"name":"flour","quantity":`
	return r
}
