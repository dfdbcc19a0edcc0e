package types

// IngredientRequest is one ingredient line in a create or update body
type IngredientRequest struct {
	Name          string  `json:"name" binding:"required,max=255"`
	Quantity      float64 `json:"quantity" binding:"gte=0"`
	UnitOfMeasure string  `json:"unitOfMeasure" binding:"required,oneof=UNIT GRAM KILOGRAM MILLILITRE LITRE TEASPOON TABLESPOON CUP PINCH"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Any id or timestamps sent by the client are ignored.
type CreateRecipeRequest struct {
	Name             string              `json:"name" binding:"required,max=255"`
	NumberOfServings int64               `json:"numberOfServings" binding:"min=0"`
	Classification   string              `json:"classification" binding:"required,oneof=VEGETARIAN NON_VEGETARIAN"`
	Ingredients      []IngredientRequest `json:"ingredients" binding:"required,min=1,dive"`
	Instructions     string              `json:"instructions" binding:"required"`
}

// UpdateRecipeRequest replaces every mutable field of the recipe with the given id
type UpdateRecipeRequest struct {
	ID string `json:"id" binding:"required"`
	CreateRecipeRequest
}

// FilterQuery holds the query string of the filtered listing
type FilterQuery struct {
	IngredientName    string `form:"ingredientName"`
	IncludeIngredient bool   `form:"includeIngredient,default=true"`
	InstructionSearch string `form:"instructionSearch"`
	NumberOfServings  int64  `form:"numberOfServings,default=0"`
	Classification    string `form:"classification" binding:"omitempty,oneof=VEGETARIAN NON_VEGETARIAN"`
}

// PageQuery holds the paging parameters; nil means the server default
type PageQuery struct {
	Page *int `form:"page"`
	Size *int `form:"size"`
}
