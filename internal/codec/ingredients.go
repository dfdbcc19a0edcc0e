// Package codec converts a recipe's ordered ingredient list to and from the
// single text value it is persisted as.
//
// The stored form is a JSON array of objects with the keys "name", "quantity"
// and "unitOfMeasure", in list order. Decode is strict: anything Encode could
// not have produced is rejected with a *DecodeError, so an unreadable record is
// never mistaken for a recipe without ingredients.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pageza/recipebox/backend/internal/model"
)

// DecodeError reports a stored ingredient list that cannot be decoded.
type DecodeError struct {
	// Index is the offending element, or -1 when the blob as a whole is unreadable.
	Index  int
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "decode ingredients: " + e.Reason
	if e.Index >= 0 {
		msg = fmt.Sprintf("decode ingredients: element %d: %s", e.Index, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports an ingredient that has no valid stored form.
type EncodeError struct {
	Index  int
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode ingredients: element %d: %s", e.Index, e.Reason)
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

type storedIngredient struct {
	Name          string              `json:"name"`
	Quantity      float64             `json:"quantity"`
	UnitOfMeasure model.UnitOfMeasure `json:"unitOfMeasure"`
}

// wireIngredient uses pointers so that missing keys can be told apart from zero values.
type wireIngredient struct {
	Name          *string              `json:"name"`
	Quantity      *float64             `json:"quantity"`
	UnitOfMeasure *model.UnitOfMeasure `json:"unitOfMeasure"`
}

// Encode returns the stored form of ingredients. A nil list encodes like an empty one.
func Encode(ingredients []model.Ingredient) (string, error) {
	out := make([]storedIngredient, len(ingredients))
	for i, ing := range ingredients {
		if !utf8.ValidString(ing.Name) {
			return "", &EncodeError{Index: i, Reason: "name is not valid UTF-8"}
		}
		if reason := checkIngredient(ing.Quantity, ing.UnitOfMeasure); reason != "" {
			return "", &EncodeError{Index: i, Reason: reason}
		}
		out[i] = storedIngredient(ing)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("encode ingredients: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Decode parses a stored ingredient list, preserving element order.
func Decode(text string) ([]model.Ingredient, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &DecodeError{Index: -1, Reason: "empty value"}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var raw []*wireIngredient
	if err := dec.Decode(&raw); err != nil {
		return nil, &DecodeError{Index: -1, Reason: "malformed value", Err: err}
	}
	if raw == nil {
		return nil, &DecodeError{Index: -1, Reason: "value is null"}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &DecodeError{Index: -1, Reason: "unexpected data after list"}
	}

	ingredients := make([]model.Ingredient, len(raw))
	for i, w := range raw {
		switch {
		case w == nil:
			return nil, &DecodeError{Index: i, Reason: "element is null"}
		case w.Name == nil:
			return nil, &DecodeError{Index: i, Reason: "missing name"}
		case w.Quantity == nil:
			return nil, &DecodeError{Index: i, Reason: "missing quantity"}
		case w.UnitOfMeasure == nil:
			return nil, &DecodeError{Index: i, Reason: "missing unitOfMeasure"}
		}
		if reason := checkIngredient(*w.Quantity, *w.UnitOfMeasure); reason != "" {
			return nil, &DecodeError{Index: i, Reason: reason}
		}
		ingredients[i] = model.Ingredient{
			Name:          *w.Name,
			Quantity:      *w.Quantity,
			UnitOfMeasure: *w.UnitOfMeasure,
		}
	}
	return ingredients, nil
}

// Contains reports whether the stored list holds an ingredient named exactly name.
func Contains(text, name string) (bool, error) {
	ingredients, err := Decode(text)
	if err != nil {
		return false, err
	}
	for _, ing := range ingredients {
		if ing.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func checkIngredient(quantity float64, unit model.UnitOfMeasure) string {
	switch {
	case math.IsNaN(quantity) || math.IsInf(quantity, 0):
		return "quantity is not a finite number"
	case quantity < 0:
		return fmt.Sprintf("negative quantity %v", quantity)
	case !unit.Valid():
		return fmt.Sprintf("unknown unit of measure %q", string(unit))
	}
	return ""
}
