package pipeline

import (
	"cmp"
	"encoding/json"
	"errors"
	"slices"

	"github.com/leyumyum/leyum-web/internal/food"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortField string

const (
	SortHealthScore SortField = "health_score"
	SortRestaurant  SortField = "restaurant"
	SortCalories    SortField = "calories"
	SortProtein     SortField = "protein"
	SortCarbs       SortField = "carbs"
	SortFat         SortField = "fat"
	SortFiber       SortField = "fiber"
	SortSugar       SortField = "sugar"
	SortSodium      SortField = "sodium"
	SortName        SortField = "item_name"
	SortMatchScore  SortField = "match_score"
)

var ErrUnknownSortField = errors.New("unknown sort field")

var comparators = map[SortField]func(a, b food.Item) int{
	SortHealthScore: func(a, b food.Item) int { return cmp.Compare(a.HealthScore, b.HealthScore) },
	SortRestaurant:  func(a, b food.Item) int { return cmp.Compare(a.Restaurant, b.Restaurant) },
	SortCalories:    func(a, b food.Item) int { return cmp.Compare(a.Calories, b.Calories) },
	SortProtein:     func(a, b food.Item) int { return cmp.Compare(a.Protein, b.Protein) },
	SortCarbs:       func(a, b food.Item) int { return cmp.Compare(a.Carbs, b.Carbs) },
	SortFat:         func(a, b food.Item) int { return cmp.Compare(a.Fat, b.Fat) },
	SortFiber:       func(a, b food.Item) int { return cmp.Compare(a.Fiber, b.Fiber) },
	SortSugar:       func(a, b food.Item) int { return cmp.Compare(a.Sugar, b.Sugar) },
	SortSodium:      func(a, b food.Item) int { return cmp.Compare(a.Sodium, b.Sodium) },
	SortName:        func(a, b food.Item) int { return cmp.Compare(a.Name, b.Name) },
	SortMatchScore:  compareMatchScore,
}

// items without a score sort below scored ones
func compareMatchScore(a, b food.Item) int {
	switch {
	case a.MatchScore == nil && b.MatchScore == nil:
		return 0
	case a.MatchScore == nil:
		return -1
	case b.MatchScore == nil:
		return 1
	}
	return cmp.Compare(*a.MatchScore, *b.MatchScore)
}

// SortFields lists the fields offered to users, in display order.
var SortFields = []SortField{SortHealthScore, SortRestaurant, SortCalories, SortProtein}

// ParseSortField validates a field name coming from a request.
func ParseSortField(s string) (SortField, error) {
	f := SortField(s)
	if _, ok := comparators[f]; !ok {
		return "", ErrUnknownSortField
	}
	return f, nil
}

// SortConfig is an ordered set of sort keys with a direction each. The
// insertion order of keys is the tie-break priority. The zero value sorts
// nothing. SortConfig is a value: Toggle returns a new config.
type SortConfig struct {
	keys []SortField
	dirs map[SortField]Direction
}

// Toggle cycles field through none -> asc -> desc -> none.
func (c SortConfig) Toggle(field SortField) SortConfig {
	next := SortConfig{
		keys: slices.Clone(c.keys),
		dirs: make(map[SortField]Direction, len(c.dirs)+1),
	}
	for k, v := range c.dirs {
		next.dirs[k] = v
	}

	switch next.dirs[field] {
	case "":
		next.dirs[field] = Asc
		next.keys = append(next.keys, field)
	case Asc:
		next.dirs[field] = Desc
	default:
		delete(next.dirs, field)
		next.keys = slices.DeleteFunc(next.keys, func(k SortField) bool { return k == field })
	}
	return next
}

func (c SortConfig) ActiveKeys() []SortField {
	return slices.Clone(c.keys)
}

func (c SortConfig) Direction(field SortField) (Direction, bool) {
	d, ok := c.dirs[field]
	return d, ok
}

func (c SortConfig) Empty() bool {
	return len(c.keys) == 0
}

func (c SortConfig) MarshalJSON() ([]byte, error) {
	keys := c.keys
	if keys == nil {
		keys = []SortField{}
	}
	dirs := c.dirs
	if dirs == nil {
		dirs = map[SortField]Direction{}
	}
	return json.Marshal(struct {
		ActiveKeys []SortField              `json:"active_keys"`
		Directions map[SortField]Direction `json:"directions"`
	}{keys, dirs})
}

func (c SortConfig) compare(a, b food.Item) int {
	for _, k := range c.keys {
		fn, ok := comparators[k]
		if !ok {
			continue
		}
		r := fn(a, b)
		if r == 0 {
			continue
		}
		if c.dirs[k] == Desc {
			return -r
		}
		return r
	}
	return 0
}

// SortBy orders items by cfg using a stable sort. With no active keys the
// input is returned as is.
func SortBy(items []food.Item, cfg SortConfig) []food.Item {
	if cfg.Empty() {
		return items
	}
	out := food.Clone(items)
	slices.SortStableFunc(out, cfg.compare)
	return out
}
