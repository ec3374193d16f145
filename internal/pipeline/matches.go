package pipeline

import (
	"cmp"
	"slices"

	"github.com/leyumyum/leyum-web/internal/food"
)

// MatchFilter narrows the personalised results view.
type MatchFilter string

const (
	MatchAll         MatchFilter = "all"
	MatchHealthy     MatchFilter = "healthy"
	MatchHighProtein MatchFilter = "highProtein"
	MatchLowCalorie  MatchFilter = "lowCalorie"
)

func (f MatchFilter) Valid() bool {
	switch f {
	case MatchAll, MatchHealthy, MatchHighProtein, MatchLowCalorie:
		return true
	}
	return false
}

func FilterMatches(items []food.Item, f MatchFilter) []food.Item {
	if f == MatchAll || f == "" {
		return items
	}
	out := make([]food.Item, 0, len(items))
	for _, it := range items {
		switch {
		case f == MatchHealthy && it.HealthScore >= 7,
			f == MatchHighProtein && it.Protein >= 25,
			f == MatchLowCalorie && it.Calories < 500:
			out = append(out, it)
		}
	}
	return out
}

// MatchSort orders the personalised results view.
type MatchSort string

const (
	MatchByScore   MatchSort = "match"
	MatchByHealth  MatchSort = "healthScore"
	MatchByCalorie MatchSort = "calories"
	MatchByProtein MatchSort = "protein"
)

func (s MatchSort) Valid() bool {
	switch s {
	case MatchByScore, MatchByHealth, MatchByCalorie, MatchByProtein:
		return true
	}
	return false
}

// SortMatches is stable. Sorting by match score only reorders pairs that
// both carry a score.
func SortMatches(items []food.Item, s MatchSort) []food.Item {
	var fn func(a, b food.Item) int
	switch s {
	case MatchByScore:
		fn = func(a, b food.Item) int {
			if a.MatchScore == nil || b.MatchScore == nil {
				return 0
			}
			return cmp.Compare(*b.MatchScore, *a.MatchScore)
		}
	case MatchByHealth:
		fn = func(a, b food.Item) int { return cmp.Compare(b.HealthScore, a.HealthScore) }
	case MatchByCalorie:
		fn = func(a, b food.Item) int { return cmp.Compare(a.Calories, b.Calories) }
	case MatchByProtein:
		fn = func(a, b food.Item) int { return cmp.Compare(b.Protein, a.Protein) }
	default:
		return items
	}
	out := food.Clone(items)
	slices.SortStableFunc(out, fn)
	return out
}
