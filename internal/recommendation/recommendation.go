// Package recommendation owns the recommendation list of one workspace: the
// raw list from the food API, the filters and sort applied to it, the search
// query and the visible window.
package recommendation

import (
	"context"
	"slices"

	"github.com/leyumyum/leyum-web/internal/food"
	"github.com/leyumyum/leyum-web/internal/foodapi"
	"github.com/leyumyum/leyum-web/internal/pipeline"
)

type Mode string

const (
	ModeCustom Mode = "custom"
	ModeAI     Mode = "ai"
)

func (m Mode) Valid() bool {
	return m == ModeCustom || m == ModeAI
}

// Level is the value of the hunger and health filters.
type Level string

const (
	LevelAll    Level = "all"
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

const (
	// CountAll asks the server for every matching item; the visible window
	// pages through them. It is the default.
	CountAll  = 999
	CountPage = pipeline.WindowIncrement
)

// Field names a classification filter.
type Field string

const (
	FieldHunger      Field = "hunger"
	FieldHealth      Field = "health"
	FieldCount       Field = "count"
	FieldRestaurants Field = "restaurants"
	FieldFoodType    Field = "food_type"
	FieldProteinType Field = "protein_type"
)

// Filters holds the classification filters. Single-choice fields always have
// exactly one value; Restaurants is a set where empty means any restaurant.
type Filters struct {
	Hunger      pipeline.Selector[Level]
	Health      pipeline.Selector[Level]
	Count       pipeline.Selector[int]
	FoodType    pipeline.Selector[string]
	ProteinType pipeline.Selector[string]
	Restaurants []string
}

func DefaultFilters() Filters {
	return Filters{
		Hunger: pipeline.NewSelector(
			pipeline.Option[Level]{Value: LevelAll, Label: "All (0-2000 cal)"},
			pipeline.Option[Level]{Value: LevelLow, Label: "Low (0-400 cal)"},
			pipeline.Option[Level]{Value: LevelMedium, Label: "Medium (401-999 cal)"},
			pipeline.Option[Level]{Value: LevelHigh, Label: "High (1000-2000 cal)"},
		),
		Health: pipeline.NewSelector(
			pipeline.Option[Level]{Value: LevelAll, Label: "All (1-10)"},
			pipeline.Option[Level]{Value: LevelLow, Label: "Low (1-4.9)"},
			pipeline.Option[Level]{Value: LevelMedium, Label: "Medium (5-7.9)"},
			pipeline.Option[Level]{Value: LevelHigh, Label: "High (8-10)"},
		),
		Count: pipeline.NewSelector(
			pipeline.Option[int]{Value: CountAll, Label: "All Results"},
			pipeline.Option[int]{Value: CountPage, Label: "8 Results"},
		),
		FoodType:    pipeline.NewSelector(typeOptions(nil)...),
		ProteinType: pipeline.NewSelector(typeOptions(nil)...),
	}
}

func typeOptions(values []string) []pipeline.Option[string] {
	out := make([]pipeline.Option[string], 0, len(values)+1)
	out = append(out, pipeline.Option[string]{Value: pipeline.Any, Label: "Any"})
	for _, v := range values {
		if v == "" || v == pipeline.Any {
			continue
		}
		out = append(out, pipeline.Option[string]{Value: v, Label: v})
	}
	return out
}

func (f Filters) types() pipeline.TypeFilter {
	return pipeline.TypeFilter{FoodType: f.FoodType.Value(), ProteinType: f.ProteinType.Value()}
}

func (f *Filters) toggleRestaurant(name string) {
	if i := slices.Index(f.Restaurants, name); i >= 0 {
		f.Restaurants = slices.Delete(slices.Clone(f.Restaurants), i, i+1)
		return
	}
	f.Restaurants = append(slices.Clone(f.Restaurants), name)
}

func (f Filters) request() foodapi.RecommendRequest {
	return foodapi.RecommendRequest{
		Hunger:      string(f.Hunger.Value()),
		Health:      string(f.Health.Value()),
		Count:       f.Count.Value(),
		Restaurants: slices.Clone(f.Restaurants),
		FoodType:    f.FoodType.Value(),
		ProteinType: f.ProteinType.Value(),
	}
}

// Source is the part of the food API the store calls.
type Source interface {
	Recommend(ctx context.Context, req foodapi.RecommendRequest) ([]food.Item, error)
	Matches(ctx context.Context) (foodapi.Matches, error)
}

// Hints supplies the soft preference sent in ai mode before a preference
// test has completed.
type Hints interface {
	LikedCategories() []string
}

// Taxonomy supplies the values the restaurant and type filters accept.
type Taxonomy interface {
	Restaurants() []string
	FoodTypes() []string
	ProteinTypes() []string
}
