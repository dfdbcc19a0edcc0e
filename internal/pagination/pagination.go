// Package pagination orders recipe records deterministically and slices them into pages.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/pageza/recipebox/backend/internal/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var ErrInvalidPage = errors.New("invalid page request")

// Request selects one zero-based page of a result set.
type Request struct {
	Page int
	Size int
}

// NewRequest validates page and size. Sizes above MaxPageSize are clamped.
func NewRequest(page, size int) (Request, error) {
	return NewRequestWithMax(page, size, MaxPageSize)
}

// NewRequestWithMax is NewRequest with a caller supplied upper bound on size.
func NewRequestWithMax(page, size, maxSize int) (Request, error) {
	if page < 0 {
		return Request{}, fmt.Errorf("%w: page must be >= 0, got %d", ErrInvalidPage, page)
	}
	if size < 1 {
		return Request{}, fmt.Errorf("%w: size must be >= 1, got %d", ErrInvalidPage, size)
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return Request{Page: page, Size: size}, nil
}

// Offset is the index of the first element on the requested page. It
// saturates at math.MaxInt instead of overflowing.
func (r Request) Offset() int {
	if r.Size > 0 && r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// PastEnd reports whether the requested page starts at or after total.
func (r Request) PastEnd(total int) bool {
	if r.Size <= 0 || total <= 0 {
		return true
	}
	return r.Page > (total-1)/r.Size
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	PageNumber    int `json:"pageNumber"`
	PageSize      int `json:"pageSize"`
}

// NewPage builds a page whose content was already sliced by the caller,
// for example with LIMIT/OFFSET in SQL.
func NewPage[T any](content []T, total int, req Request) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages(total, req.Size),
		PageNumber:    req.Page,
		PageSize:      req.Size,
	}
}

func totalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Compare orders recipes newest first, breaking timestamp ties by ascending ID.
func Compare(a, b model.Recipe) int {
	if c := b.DateCreated.Compare(a.DateCreated); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Sort returns a sorted copy of records.
func Sort(records []model.Recipe) []model.Recipe {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, Compare)
	return sorted
}

// Paginate sorts records and returns the requested page. records is not modified.
// A page past the end has empty content but still reports the totals.
func Paginate(records []model.Recipe, req Request) Page[model.Recipe] {
	sorted := Sort(records)
	return NewPage(Window(sorted, req), len(sorted), req)
}

// Window returns the part of an already ordered slice covered by req.
func Window[T any](ordered []T, req Request) []T {
	if req.PastEnd(len(ordered)) {
		return []T{}
	}
	start := req.Offset()
	end := start + min(req.Size, len(ordered)-start)
	return slices.Clone(ordered[start:end])
}

// MapPage converts page content, keeping the paging metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Content))
	for i, v := range p.Content {
		out[i] = fn(v)
	}
	return Page[U]{
		Content:       out,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
	}
}
