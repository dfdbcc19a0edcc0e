package types

import "time"

// IngredientResponse is one decoded ingredient line
type IngredientResponse struct {
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	UnitOfMeasure string  `json:"unitOfMeasure"`
}

// RecipeResponse is the client view of a recipe. When the stored ingredient
// list cannot be decoded, Ingredients is null and IngredientsCorrupt is set.
type RecipeResponse struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	NumberOfServings   int64                `json:"numberOfServings"`
	Classification     string               `json:"classification"`
	Ingredients        []IngredientResponse `json:"ingredients"`
	IngredientsCorrupt bool                 `json:"ingredientsCorrupt,omitempty"`
	Instructions       string               `json:"instructions"`
	DateCreated        time.Time            `json:"dateCreated"`
	LastUpdated        time.Time            `json:"lastUpdated"`
}
