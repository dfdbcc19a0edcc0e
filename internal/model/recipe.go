package model

import "fmt"

// Classification tells whether a recipe is suitable for vegetarians
type Classification string

const (
	Vegetarian    Classification = "VEGETARIAN"
	NonVegetarian Classification = "NON_VEGETARIAN"
)

// Valid reports whether c is a known classification
func (c Classification) Valid() bool {
	switch c {
	case Vegetarian, NonVegetarian:
		return true
	}
	return false
}

// ParseClassification converts s into a Classification
func ParseClassification(s string) (Classification, error) {
	c := Classification(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown classification %q", s)
	}
	return c, nil
}

// Recipe is the persisted recipe record. Ingredients holds the encoded ingredient
// list produced by the codec package; callers decode it when they need the items.
type Recipe struct {
	AuditedRecord
	Name             string         `gorm:"size:255;not null" json:"name"`
	NumberOfServings int64          `gorm:"not null;index" json:"numberOfServings"`
	Classification   Classification `gorm:"size:32;not null;index" json:"classification"`
	Ingredients      string         `gorm:"type:text;not null" json:"ingredients"`
	Instructions     string         `gorm:"type:text;not null" json:"instructions"`
}

// TableName returns the table name for the Recipe model
func (Recipe) TableName() string {
	return "recipes"
}

// Equal reports whether r and other are the same recipe. Recipes are identified by ID only.
func (r Recipe) Equal(other Recipe) bool {
	return r.ID == other.ID
}
