package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leyumyum/leyum-web/internal/food"
)

func names(items []food.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func sample() []food.Item {
	return []food.Item{
		{Name: "Double Cheeseburger", Restaurant: "Wendy's", Calories: 850, Protein: 45, HealthScore: 4.2, FoodType: "burger", ProteinType: "beef"},
		{Name: "Chicken Tacos", Restaurant: "Taco Bell", Calories: 450, Protein: 28, HealthScore: 6.5, FoodType: "mexican", ProteinType: "chicken"},
		{Name: "Chicken Fingers", Restaurant: "Raising Cane's", Calories: 620, Protein: 38, HealthScore: 5.8, FoodType: "fried", ProteinType: "chicken"},
		{Name: "Curly Fries", Restaurant: "Jack in the Box", Calories: 380, Protein: 4, HealthScore: 3.5, FoodType: "side", ProteinType: food.Unknown},
		{Name: "Spicy Chicken Sandwich", Restaurant: "Wendy's", Calories: 510, Protein: 32, HealthScore: 6.2, FoodType: "sandwich", ProteinType: "chicken"},
		{Name: "Supreme Nachos", Restaurant: "Taco Bell", Calories: 760, Protein: 22, HealthScore: 4.0, FoodType: "mexican", ProteinType: "beef"},
	}
}

func TestFilterByClassification(t *testing.T) {
	items := sample()

	got := FilterByClassification(items, TypeFilter{FoodType: Any, ProteinType: Any})
	assert.Equal(t, names(items), names(got), "any/any keeps everything")

	got = FilterByClassification(items, TypeFilter{FoodType: "mexican", ProteinType: Any})
	assert.Equal(t, []string{"Chicken Tacos", "Supreme Nachos"}, names(got))

	got = FilterByClassification(items, TypeFilter{FoodType: "mexican", ProteinType: "beef"})
	assert.Equal(t, []string{"Supreme Nachos"}, names(got))

	got = FilterByClassification(items, TypeFilter{FoodType: Any, ProteinType: "chicken"})
	assert.Equal(t, []string{"Chicken Tacos", "Chicken Fingers", "Spicy Chicken Sandwich"}, names(got))
}

func TestFilterBySearch_EmptyQueryIsIdentity(t *testing.T) {
	items := sample()
	got := FilterBySearch(items, "")
	if diff := cmp.Diff(items, got); diff != "" {
		t.Fatalf("empty query changed the list (-want +got):\n%s", diff)
	}
}

func TestFilterBySearch_MatchesNameOrRestaurant(t *testing.T) {
	items := []food.Item{
		{Name: "Chicken Tacos", Restaurant: "Taco Bell"},
		{Name: "Nachos", Restaurant: "Taco Bell"},
		{Name: "Fries", Restaurant: "Wendy's"},
	}
	got := FilterBySearch(items, "taco")
	assert.Equal(t, []string{"Chicken Tacos", "Nachos"}, names(got))

	got = FilterBySearch(items, "WENDY")
	assert.Equal(t, []string{"Fries"}, names(got))
}

func TestSortConfig_ToggleCycle(t *testing.T) {
	var cfg SortConfig

	cfg = cfg.Toggle(SortCalories)
	d, ok := cfg.Direction(SortCalories)
	require.True(t, ok)
	assert.Equal(t, Asc, d)
	assert.Equal(t, []SortField{SortCalories}, cfg.ActiveKeys())

	cfg = cfg.Toggle(SortCalories)
	d, _ = cfg.Direction(SortCalories)
	assert.Equal(t, Desc, d)
	assert.Equal(t, []SortField{SortCalories}, cfg.ActiveKeys())

	cfg = cfg.Toggle(SortCalories)
	_, ok = cfg.Direction(SortCalories)
	assert.False(t, ok)
	assert.Empty(t, cfg.ActiveKeys())

	items := sample()
	assert.Equal(t, names(items), names(SortBy(items, cfg)), "removing the key restores input order")
}

func TestSortConfig_ToggleDoesNotMutateReceiver(t *testing.T) {
	base := SortConfig{}.Toggle(SortProtein)
	_ = base.Toggle(SortCalories)
	assert.Equal(t, []SortField{SortProtein}, base.ActiveKeys())
}

func TestSortConfig_EveryKeyHasDirection(t *testing.T) {
	var cfg SortConfig
	for _, f := range []SortField{SortCalories, SortProtein, SortCalories, SortRestaurant, SortCalories, SortProtein} {
		cfg = cfg.Toggle(f)
		for _, k := range cfg.ActiveKeys() {
			_, ok := cfg.Direction(k)
			require.Truef(t, ok, "key %s has no direction", k)
		}
	}
}

func TestSortBy_MultiKeyAndDirection(t *testing.T) {
	cfg := SortConfig{}.Toggle(SortRestaurant).Toggle(SortCalories).Toggle(SortCalories)
	got := SortBy(sample(), cfg)
	assert.Equal(t, []string{
		"Curly Fries",
		"Chicken Fingers",
		"Supreme Nachos",
		"Chicken Tacos",
		"Double Cheeseburger",
		"Spicy Chicken Sandwich",
	}, names(got))
}

func TestSortBy_Idempotent(t *testing.T) {
	cfg := SortConfig{}.Toggle(SortHealthScore).Toggle(SortProtein)
	once := SortBy(sample(), cfg)
	twice := SortBy(once, cfg)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("sorting twice changed the order (-once +twice):\n%s", diff)
	}
}

func TestSortBy_Stable(t *testing.T) {
	items := []food.Item{
		{Name: "a", Restaurant: "X", Calories: 100},
		{Name: "b", Restaurant: "Y", Calories: 200},
		{Name: "c", Restaurant: "X", Calories: 300},
		{Name: "d", Restaurant: "Y", Calories: 50},
		{Name: "e", Restaurant: "X", Calories: 10},
	}
	got := SortBy(items, SortConfig{}.Toggle(SortRestaurant))
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, names(got))
}

func TestSortBy_DoesNotModifyInput(t *testing.T) {
	items := sample()
	before := names(items)
	_ = SortBy(items, SortConfig{}.Toggle(SortCalories))
	assert.Equal(t, before, names(items))
}

func TestSortBy_MatchScoreMissingSortsLow(t *testing.T) {
	hi, lo := 90.0, 40.0
	items := []food.Item{{Name: "none"}, {Name: "hi", MatchScore: &hi}, {Name: "lo", MatchScore: &lo}}
	got := SortBy(items, SortConfig{}.Toggle(SortMatchScore).Toggle(SortMatchScore))
	assert.Equal(t, []string{"hi", "lo", "none"}, names(got))
}

func TestParseSortField(t *testing.T) {
	f, err := ParseSortField("health_score")
	require.NoError(t, err)
	assert.Equal(t, SortHealthScore, f)

	_, err = ParseSortField("price")
	assert.ErrorIs(t, err, ErrUnknownSortField)
}

func TestPaginateAndNextWindow(t *testing.T) {
	items := make([]food.Item, 20)
	assert.Len(t, Paginate(items, 8), 8)
	assert.Len(t, Paginate(items, 30), 20)
	assert.Empty(t, Paginate(items, 0))

	assert.Equal(t, 16, NextWindow(8, 20))
	assert.Equal(t, 20, NextWindow(16, 20))
	assert.Equal(t, 20, NextWindow(20, 20))
}

func TestDerive_ReferentiallyTransparent(t *testing.T) {
	q := Query{
		Types:  TypeFilter{FoodType: Any, ProteinType: "chicken"},
		Search: "chicken",
		Sort:   SortConfig{}.Toggle(SortCalories),
	}
	a := Derive(sample(), q)
	b := Derive(sample(), q)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("derive is not deterministic:\n%s", diff)
	}
	assert.Equal(t, []string{"Chicken Tacos", "Spicy Chicken Sandwich", "Chicken Fingers"}, names(a))
}
