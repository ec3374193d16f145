// Package pipeline holds the pure list derivations applied to a recommendation
// list before it is shown: classification filter, search, sort and windowing.
// None of the functions keep state or modify their input.
package pipeline

import (
	"strings"

	"github.com/leyumyum/leyum-web/internal/food"
)

// Any disables a taxonomy filter.
const Any = "any"

// WindowIncrement is both the initial visible window and the growth step.
const WindowIncrement = 8

// TypeFilter restricts items by the two taxonomy fields that can change
// without asking the server again.
type TypeFilter struct {
	FoodType    string
	ProteinType string
}

func (f TypeFilter) active() bool {
	return !isAny(f.FoodType) || !isAny(f.ProteinType)
}

func isAny(v string) bool {
	return v == "" || v == Any
}

// FilterByClassification keeps items matching both taxonomy values.
func FilterByClassification(items []food.Item, f TypeFilter) []food.Item {
	if !f.active() {
		return items
	}
	out := make([]food.Item, 0, len(items))
	for _, it := range items {
		if !isAny(f.FoodType) && it.FoodType != f.FoodType {
			continue
		}
		if !isAny(f.ProteinType) && it.ProteinType != f.ProteinType {
			continue
		}
		out = append(out, it)
	}
	return out
}

// FilterBySearch keeps items whose name or restaurant contains query,
// ignoring case. An empty query returns items unchanged.
func FilterBySearch(items []food.Item, query string) []food.Item {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	out := make([]food.Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) || strings.Contains(strings.ToLower(it.Restaurant), q) {
			out = append(out, it)
		}
	}
	return out
}

// Paginate returns the first window items.
func Paginate(items []food.Item, window int) []food.Item {
	if window <= 0 {
		return []food.Item{}
	}
	if window >= len(items) {
		return items
	}
	return items[:window]
}

// NextWindow grows current by WindowIncrement, capped at total.
func NextWindow(current, total int) int {
	next := current + WindowIncrement
	if next > total {
		next = total
	}
	if next < current {
		return current
	}
	return next
}

// Query bundles everything Derive needs.
type Query struct {
	Types  TypeFilter
	Search string
	Sort   SortConfig
}

// Derive runs classification filter, search and sort in that order.
// Pagination is left to the caller since the window lives with the view.
func Derive(raw []food.Item, q Query) []food.Item {
	out := FilterByClassification(raw, q.Types)
	out = FilterBySearch(out, q.Search)
	return SortBy(out, q.Sort)
}
