package food

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Unknown is the taxonomy value the API uses when an item was never classified.
const Unknown = "Unknown"

// Item is a menu item as returned by the food API. Items are read-only once
// received; every list operation in this module copies rather than mutates them.
type Item struct {
	ID          *int     `json:"id,omitempty"`
	Name        string   `json:"item_name"`
	Restaurant  string   `json:"restaurant"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Fiber       float64  `json:"fiber"`
	Sugar       float64  `json:"sugar"`
	Sodium      float64  `json:"sodium"`
	HealthScore float64  `json:"health_score"`
	FoodType    string   `json:"food_type"`
	ProteinType string   `json:"protein_type"`
	Reasoning   string   `json:"reasoning,omitempty"`
	Description string   `json:"description,omitempty"`
	MatchScore  *float64 `json:"match_score,omitempty"`
}

// UnmarshalJSON accepts the test-card shape as well, where the item name is
// sent as "name" instead of "item_name", and fills missing taxonomy fields.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	aux := struct {
		*plain
		AltName string `json:"name"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if it.Name == "" {
		it.Name = aux.AltName
	}
	if it.FoodType == "" {
		it.FoodType = Unknown
	}
	if it.ProteinType == "" {
		it.ProteinType = Unknown
	}
	return nil
}

// Key identifies an item across lists. The server id wins when present,
// otherwise restaurant and name together; the name alone is not unique.
type Key string

func (it Item) Key() Key {
	if it.ID != nil {
		return Key("id:" + strconv.Itoa(*it.ID))
	}
	return Key(strings.ToLower(strings.TrimSpace(it.Restaurant)) + "|" + strings.ToLower(strings.TrimSpace(it.Name)))
}

// Health bands used to badge items.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

func HealthBand(score float64) string {
	switch {
	case score >= 8:
		return BandHigh
	case score >= 5:
		return BandMedium
	default:
		return BandLow
	}
}

// Clone returns a copy of items so callers can reorder it freely.
func Clone(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
