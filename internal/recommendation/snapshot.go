package recommendation

import (
	"fmt"
	"slices"

	"github.com/leyumyum/leyum-web/internal/food"
	"github.com/leyumyum/leyum-web/internal/foodapi"
	"github.com/leyumyum/leyum-web/internal/pipeline"
)

// ItemView is an item as rendered, with its identity key and health badge.
type ItemView struct {
	food.Item
	Key        food.Key `json:"key"`
	HealthBand string   `json:"health_band"`
}

func views(items []food.Item) []ItemView {
	out := make([]ItemView, len(items))
	for i, it := range items {
		out[i] = ItemView{Item: it, Key: it.Key(), HealthBand: food.HealthBand(it.HealthScore)}
	}
	return out
}

type SelectorState[T comparable] struct {
	Value   T                    `json:"value"`
	Options []pipeline.Option[T] `json:"options"`
}

func selectorState[T comparable](s pipeline.Selector[T]) SelectorState[T] {
	return SelectorState[T]{Value: s.Value(), Options: s.Options()}
}

type RestaurantState struct {
	Selected []string `json:"selected"`
	Options  []string `json:"options"`
}

type FilterState struct {
	Hunger      SelectorState[Level]  `json:"hunger"`
	Health      SelectorState[Level]  `json:"health"`
	Count       SelectorState[int]    `json:"count"`
	FoodType    SelectorState[string] `json:"food_type"`
	ProteinType SelectorState[string] `json:"protein_type"`
	Restaurants RestaurantState       `json:"restaurants"`
}

// NoResults explains an empty derived list.
type NoResults struct {
	Reason string   `json:"reason"`
	Adjust []string `json:"adjust"`
}

// Snapshot is what a workspace currently shows.
type Snapshot struct {
	Mode                    Mode                 `json:"mode"`
	PreferenceTestCompleted bool                 `json:"preference_test_completed"`
	Source                  string               `json:"source,omitempty"`
	Filters                 FilterState          `json:"filters"`
	Sort                    pipeline.SortConfig  `json:"sort"`
	SortFields              []pipeline.SortField `json:"sort_fields"`
	Search                  string               `json:"search"`
	Items                   []ItemView           `json:"items"`
	Total                   int                  `json:"total"`
	Window                  int                  `json:"visible_window"`
	HasMore                 bool                 `json:"has_more"`
	Loading                 bool                 `json:"loading"`
	Growing                 bool                 `json:"growing"`
	Error                   string               `json:"error,omitempty"`
	ErrorKind               foodapi.Kind         `json:"error_kind,omitempty"`
	Message                 string               `json:"message,omitempty"`
	NoResults               *NoResults           `json:"no_results,omitempty"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.filters.types()
	s.syncTaxonomy()
	if s.filters.types() != before {
		s.rederive()
	}

	restaurants := []string{}
	if s.cfg.Taxonomy != nil {
		restaurants = s.cfg.Taxonomy.Restaurants()
	}
	selected := slices.Clone(s.filters.Restaurants)
	if selected == nil {
		selected = []string{}
	}

	visible := pipeline.Paginate(s.derived, s.window)
	snap := Snapshot{
		Mode:                    s.mode,
		PreferenceTestCompleted: s.testCompleted,
		Source:                  string(s.origin),
		Filters: FilterState{
			Hunger:      selectorState(s.filters.Hunger),
			Health:      selectorState(s.filters.Health),
			Count:       selectorState(s.filters.Count),
			FoodType:    selectorState(s.filters.FoodType),
			ProteinType: selectorState(s.filters.ProteinType),
			Restaurants: RestaurantState{Selected: selected, Options: restaurants},
		},
		Sort:       s.sort,
		SortFields: slices.Clone(pipeline.SortFields),
		Search:     s.search,
		Items:      views(visible),
		Total:      len(s.derived),
		Window:     s.window,
		HasMore:    len(visible) < len(s.derived),
		Loading:    s.loading,
		Growing:    s.growing,
		Message:    s.message,
	}
	if s.err != nil {
		snap.Error = foodapi.UserMessage(s.err)
		snap.ErrorKind = foodapi.KindOf(s.err)
	}
	if !s.loading && s.origin != originNone && len(s.derived) == 0 {
		snap.NoResults = s.noResults()
	}
	return snap
}

func (s *Store) noResults() *NoResults {
	nr := &NoResults{Reason: "No items match your current filters", Adjust: []string{}}
	if s.search != "" {
		nr.Reason = fmt.Sprintf("No items match your search %q", s.search)
	}
	if len(s.filters.Restaurants) > 0 {
		nr.Adjust = append(nr.Adjust, "Selected restaurants")
	}
	if s.filters.Hunger.Value() != LevelAll {
		nr.Adjust = append(nr.Adjust, "Hunger level")
	}
	if s.filters.Health.Value() != LevelAll {
		nr.Adjust = append(nr.Adjust, "Health preferences")
	}
	if s.filters.FoodType.Value() != pipeline.Any {
		nr.Adjust = append(nr.Adjust, "Food type")
	}
	if s.filters.ProteinType.Value() != pipeline.Any {
		nr.Adjust = append(nr.Adjust, "Protein type")
	}
	return nr
}
