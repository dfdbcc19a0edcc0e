package filter

import "fmt"

// Field is one criterion of a query: either a wildcard that places no constraint
// on the recipe, or an active value the recipe is tested against. The zero Field
// is a wildcard.
type Field[T any] struct {
	value  T
	active bool
}

// Wildcard returns a field that matches every recipe.
func Wildcard[T any]() Field[T] {
	return Field[T]{}
}

// Active returns a field constraining recipes to v.
func Active[T any](v T) Field[T] {
	return Field[T]{value: v, active: true}
}

// Get returns the constraint value and whether the field is active.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.active
}

// IsWildcard reports whether the field places no constraint.
func (f Field[T]) IsWildcard() bool {
	return !f.active
}

func (f Field[T]) String() string {
	if !f.active {
		return "*"
	}
	return fmt.Sprintf("%v", f.value)
}
