package food

import (
	"encoding/json"
	"testing"
)

func TestItem_UnmarshalAcceptsTestCardShape(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`{"id":7,"name":"Curly Fries","restaurant":"Jack in the Box","calories":380}`), &it); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if it.Name != "Curly Fries" {
		t.Fatalf("expected name alias to fill item_name, got %q", it.Name)
	}
	if it.FoodType != Unknown || it.ProteinType != Unknown {
		t.Fatalf("expected missing taxonomy to default to Unknown, got %q/%q", it.FoodType, it.ProteinType)
	}
	if it.ID == nil || *it.ID != 7 {
		t.Fatalf("expected id 7, got %v", it.ID)
	}
}

func TestItem_ItemNameWinsOverAlias(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`{"item_name":"Nachos","name":"ignored","food_type":"mexican"}`), &it); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if it.Name != "Nachos" || it.FoodType != "mexican" {
		t.Fatalf("unexpected item %+v", it)
	}
}

func TestItem_Key(t *testing.T) {
	a := Item{Name: "Fries", Restaurant: "Wendy's"}
	b := Item{Name: "Fries", Restaurant: "McDonald's"}
	if a.Key() == b.Key() {
		t.Fatalf("same name at different restaurants must not share a key")
	}
	if a.Key() != (Item{Name: " fries", Restaurant: "WENDY'S"}).Key() {
		t.Fatalf("key should ignore case and surrounding space")
	}
	id := 3
	if got := (Item{ID: &id, Name: "x"}).Key(); got != "id:3" {
		t.Fatalf("expected server id key, got %q", got)
	}
}

func TestHealthBand(t *testing.T) {
	cases := map[float64]string{9.1: BandHigh, 8: BandHigh, 7.9: BandMedium, 5: BandMedium, 4.9: BandLow, 0: BandLow}
	for score, want := range cases {
		if got := HealthBand(score); got != want {
			t.Errorf("HealthBand(%v) = %q, want %q", score, got, want)
		}
	}
}
