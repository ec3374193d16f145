package cart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leyumyum/leyum-web/internal/food"
)

func TestService_AddTwiceThenRemoveByDelta(t *testing.T) {
	s := NewService(NewInMemoryRepository())
	fries := food.Item{Name: "Fries", Restaurant: "Sonic", Calories: 380}

	_, err := s.AddItem("ws", fries)
	require.NoError(t, err)
	lines, err := s.AddItem("ws", fries)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	lines, err = s.UpdateQuantity("ws", lines[0].Key, -2)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestService_QuantityNeverPersistsBelowOne(t *testing.T) {
	s := NewService(NewInMemoryRepository())
	items := []food.Item{
		{Name: "Fries", Restaurant: "Sonic"},
		{Name: "Fries", Restaurant: "KFC"},
		{Name: "Taco", Restaurant: "Taco Bell"},
	}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		it := items[rng.Intn(len(items))]
		if rng.Intn(2) == 0 {
			_, err := s.AddItem("ws", it)
			require.NoError(t, err)
		} else {
			_, err := s.UpdateQuantity("ws", it.Key(), rng.Intn(7)-4)
			if err != nil {
				require.ErrorIs(t, err, ErrLineNotFound)
			}
		}
		lines, err := s.Lines("ws")
		require.NoError(t, err)
		seen := map[food.Key]bool{}
		for _, l := range lines {
			require.GreaterOrEqual(t, l.Quantity, 1)
			require.False(t, seen[l.Key], "one line per item")
			seen[l.Key] = true
		}
	}
}

func TestService_RemoveAndClear(t *testing.T) {
	s := NewService(NewInMemoryRepository())
	a := food.Item{Name: "A", Restaurant: "Sonic"}
	b := food.Item{Name: "B", Restaurant: "Sonic"}
	_, _ = s.AddItem("ws", a)
	_, _ = s.AddItem("ws", a)
	_, _ = s.AddItem("ws", b)

	lines, err := s.Remove("ws", a.Key())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "B", lines[0].Item.Name)

	_, err = s.Remove("ws", a.Key())
	assert.ErrorIs(t, err, ErrLineNotFound)

	lines, err = s.UpdateQuantity("ws", b.Key(), 0)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	require.NoError(t, s.Clear("ws"))
	lines, _ = s.Lines("ws")
	assert.Empty(t, lines)
	assert.NotNil(t, lines)
}

func TestNutrientStatus(t *testing.T) {
	assert.Equal(t, StatusLow, NutrientStatus(34, 50))
	assert.Equal(t, StatusBalanced, NutrientStatus(35, 50))
	assert.Equal(t, StatusBalanced, NutrientStatus(65, 50))
	assert.Equal(t, StatusHigh, NutrientStatus(66, 50))
}

func TestSummarize(t *testing.T) {
	id := 3
	lines := []Line{
		{Key: "sonic|fries", Item: food.Item{Name: "Fries", Restaurant: "Sonic", Calories: 380, Protein: 4, Carbs: 50, Fiber: 4, Sugar: 1, Sodium: 1800}, Quantity: 2},
		{Key: "id:3", Item: food.Item{ID: &id, Name: "Shake", Restaurant: "Steak 'N Shake", Calories: 700, Sugar: 90}, Quantity: 1},
		{Key: "sonic|tots", Item: food.Item{Name: "Tots", Restaurant: "Sonic", Calories: 290}, Quantity: 1},
	}

	sum := Summarize(lines)
	assert.Equal(t, 4, sum.ItemCount)
	assert.Equal(t, Nutrients{Calories: 1750, Protein: 8, Carbs: 100, Fiber: 8, Sugar: 92, Sodium: 3600}, sum.Totals)
	assert.Equal(t, StatusBalanced, sum.Status["calories"])
	assert.Equal(t, StatusHigh, sum.Status["sodium"])
	assert.Equal(t, StatusLow, sum.Status["fat"])
	assert.Equal(t, []string{
		"more protein-rich foods (meat, fish, legumes)",
		"more fiber (vegetables, whole grains)",
		"complex carbohydrates (whole grains, rice)",
		"less sugary items",
		"less salty foods",
	}, sum.Suggestions)
	assert.Equal(t, "Consider adding more protein-rich foods (meat, fish, legumes), more fiber (vegetables, whole grains), complex carbohydrates (whole grains, rice), less sugary items, less salty foods to balance your meal.", sum.Advice)
	assert.Equal(t, "https://www.doordash.com/search/store/Sonic%2CSteak%20%27N%20Shake", sum.CheckoutURL)
}

func TestSummarize_Balanced(t *testing.T) {
	lines := []Line{{Item: food.Item{Protein: 50, Fiber: 28, Carbs: 275, Sugar: 20, Sodium: 1500}, Quantity: 1}}
	sum := Summarize(lines)
	assert.Empty(t, sum.Suggestions)
	assert.Equal(t, WellBalanced, sum.Advice)

	empty := Summarize([]Line{})
	assert.Equal(t, "", empty.CheckoutURL)
	assert.Equal(t, 0, empty.ItemCount)
}
