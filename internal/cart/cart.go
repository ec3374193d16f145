package cart

import (
	"net/url"
	"strings"

	"github.com/leyumyum/leyum-web/internal/food"
)

// Line is one distinct item in the cart. Quantity is always at least 1.
type Line struct {
	Key      food.Key  `json:"key"`
	Item     food.Item `json:"item"`
	Quantity int       `json:"quantity"`
}

// Nutrients are quantity-weighted sums over the cart.
type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// DailyValues are the reference intakes suggestions are measured against.
var DailyValues = Nutrients{
	Calories: 2000,
	Protein:  50,
	Carbs:    275,
	Fat:      78,
	Fiber:    28,
	Sugar:    50,
	Sodium:   2300,
}

func Totals(lines []Line) Nutrients {
	var n Nutrients
	for _, l := range lines {
		q := float64(l.Quantity)
		n.Calories += l.Item.Calories * q
		n.Protein += l.Item.Protein * q
		n.Carbs += l.Item.Carbs * q
		n.Fat += l.Item.Fat * q
		n.Fiber += l.Item.Fiber * q
		n.Sugar += l.Item.Sugar * q
		n.Sodium += l.Item.Sodium * q
	}
	return n
}

type Status string

const (
	StatusLow      Status = "low"
	StatusBalanced Status = "balanced"
	StatusHigh     Status = "high"
)

// NutrientStatus is low under 70% of target and high over 130%.
func NutrientStatus(total, target float64) Status {
	pct := total / target * 100
	switch {
	case pct < 70:
		return StatusLow
	case pct > 130:
		return StatusHigh
	}
	return StatusBalanced
}

// Statuses classifies every nutrient against DailyValues.
func Statuses(n Nutrients) map[string]Status {
	return map[string]Status{
		"calories": NutrientStatus(n.Calories, DailyValues.Calories),
		"protein":  NutrientStatus(n.Protein, DailyValues.Protein),
		"carbs":    NutrientStatus(n.Carbs, DailyValues.Carbs),
		"fat":      NutrientStatus(n.Fat, DailyValues.Fat),
		"fiber":    NutrientStatus(n.Fiber, DailyValues.Fiber),
		"sugar":    NutrientStatus(n.Sugar, DailyValues.Sugar),
		"sodium":   NutrientStatus(n.Sodium, DailyValues.Sodium),
	}
}

const WellBalanced = "Your meal is well balanced!"

type rule struct {
	fires  func(n Nutrients) bool
	advice string
}

var rules = []rule{
	{func(n Nutrients) bool { return n.Protein < DailyValues.Protein*0.7 }, "more protein-rich foods (meat, fish, legumes)"},
	{func(n Nutrients) bool { return n.Fiber < DailyValues.Fiber*0.7 }, "more fiber (vegetables, whole grains)"},
	{func(n Nutrients) bool { return n.Carbs < DailyValues.Carbs*0.7 }, "complex carbohydrates (whole grains, rice)"},
	{func(n Nutrients) bool { return n.Sugar > DailyValues.Sugar*1.3 }, "less sugary items"},
	{func(n Nutrients) bool { return n.Sodium > DailyValues.Sodium*1.3 }, "less salty foods"},
}

// Suggestions lists the callouts that fire for n, in rule order.
func Suggestions(n Nutrients) []string {
	out := []string{}
	for _, r := range rules {
		if r.fires(n) {
			out = append(out, r.advice)
		}
	}
	return out
}

// Advice joins suggestions into the sentence shown under the cart.
func Advice(suggestions []string) string {
	if len(suggestions) == 0 {
		return WellBalanced
	}
	return "Consider adding " + strings.Join(suggestions, ", ") + " to balance your meal."
}

func ItemCount(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

const checkoutBase = "https://www.doordash.com/search/store/"

// CheckoutURL deep-links to a store search for the cart's restaurants.
// An empty cart has no link.
func CheckoutURL(lines []Line) string {
	if len(lines) == 0 {
		return ""
	}
	seen := make(map[string]bool)
	names := make([]string, 0, len(lines))
	for _, l := range lines {
		r := l.Item.Restaurant
		if seen[r] {
			continue
		}
		seen[r] = true
		names = append(names, r)
	}
	return checkoutBase + url.PathEscape(strings.Join(names, ","))
}

// Summary is everything the cart panel shows.
type Summary struct {
	Lines       []Line            `json:"lines"`
	ItemCount   int               `json:"item_count"`
	Totals      Nutrients         `json:"totals"`
	DailyValues Nutrients         `json:"daily_values"`
	Status      map[string]Status `json:"status"`
	Suggestions []string          `json:"suggestions"`
	Advice      string            `json:"advice"`
	CheckoutURL string            `json:"checkout_url,omitempty"`
}

func Summarize(lines []Line) Summary {
	t := Totals(lines)
	sug := Suggestions(t)
	return Summary{
		Lines:       lines,
		ItemCount:   ItemCount(lines),
		Totals:      t,
		DailyValues: DailyValues,
		Status:      Statuses(t),
		Suggestions: sug,
		Advice:      Advice(sug),
		CheckoutURL: CheckoutURL(lines),
	}
}
