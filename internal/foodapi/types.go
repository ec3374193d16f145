package foodapi

import (
	"encoding/json"

	"github.com/leyumyum/leyum-web/internal/food"
)

// anyRestaurant is sent when no restaurant subset is selected.
const anyRestaurant = "any"

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	Hunger              string
	Health              string
	Count               int
	Restaurants         []string
	FoodType            string
	ProteinType         string
	PreferredCategories []string
}

func (r RecommendRequest) MarshalJSON() ([]byte, error) {
	var restaurant any = anyRestaurant
	if len(r.Restaurants) > 0 {
		restaurant = r.Restaurants
	}
	preferred := r.PreferredCategories
	if preferred == nil {
		preferred = []string{}
	}
	return json.Marshal(struct {
		Hunger              string   `json:"hunger"`
		Health              string   `json:"health"`
		Count               int      `json:"count"`
		Restaurant          any      `json:"restaurant"`
		FoodType            string   `json:"food_type"`
		ProteinType         string   `json:"protein_type"`
		PreferredCategories []string `json:"preferredCategories"`
	}{r.Hunger, r.Health, r.Count, restaurant, r.FoodType, r.ProteinType, preferred})
}

// Matches is the reply of GET /matches.
type Matches struct {
	Items   []food.Item
	Message string
}

type preferenceRequest struct {
	FoodID  int  `json:"food_id"`
	IsLiked bool `json:"is_liked"`
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`

	Restaurants     []string    `json:"restaurants"`
	FoodTypes       []string    `json:"food_types"`
	ProteinTypes    []string    `json:"protein_types"`
	Recommendations []food.Item `json:"recommendations"`
	Matches         []food.Item `json:"matches"`
	Cards           []food.Item `json:"cards"`
}

type healthReply struct {
	Status string `json:"status"`
}
