package model

import "fmt"

// UnitOfMeasure is the unit an ingredient quantity is expressed in
type UnitOfMeasure string

const (
	Unit       UnitOfMeasure = "UNIT"
	Gram       UnitOfMeasure = "GRAM"
	Kilogram   UnitOfMeasure = "KILOGRAM"
	Millilitre UnitOfMeasure = "MILLILITRE"
	Litre      UnitOfMeasure = "LITRE"
	Teaspoon   UnitOfMeasure = "TEASPOON"
	Tablespoon UnitOfMeasure = "TABLESPOON"
	Cup        UnitOfMeasure = "CUP"
	Pinch      UnitOfMeasure = "PINCH"
)

var units = map[UnitOfMeasure]struct{}{
	Unit: {}, Gram: {}, Kilogram: {}, Millilitre: {}, Litre: {},
	Teaspoon: {}, Tablespoon: {}, Cup: {}, Pinch: {},
}

// Valid reports whether u is a known unit
func (u UnitOfMeasure) Valid() bool {
	_, ok := units[u]
	return ok
}

// ParseUnitOfMeasure converts s into a UnitOfMeasure
func ParseUnitOfMeasure(s string) (UnitOfMeasure, error) {
	u := UnitOfMeasure(s)
	if !u.Valid() {
		return "", fmt.Errorf("unknown unit of measure %q", s)
	}
	return u, nil
}

// Ingredient is a single line of a recipe's ingredient list
type Ingredient struct {
	Name          string        `json:"name"`
	Quantity      float64       `json:"quantity"`
	UnitOfMeasure UnitOfMeasure `json:"unitOfMeasure"`
}
