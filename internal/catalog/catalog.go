package catalog

// Catalog is the public DTO returned by the catalog API.
type Catalog struct {
	Restaurants  []string `json:"restaurants"`
	FoodTypes    []string `json:"food_types"`
	ProteinTypes []string `json:"protein_types"`
	// Loaded is false while the lists above are the built-in fallback.
	Loaded bool   `json:"loaded"`
	Error  string `json:"error,omitempty"`
}

// FallbackRestaurants is offered until the remote list arrives.
var FallbackRestaurants = []string{
	"Arby's",
	"Buffalo Wild Wings",
	"Burger King",
	"Chick Fil A",
	"Dairy Queen",
	"Firehouse Subs",
	"In-N-Out",
	"Jack in the Box",
	"KFC",
	"McDonald's",
	"Panera Bread",
	"Pizza Hut",
	"Popeyes",
	"Raising Cane's Chicken Fingers",
	"Sonic",
	"Steak 'N Shake",
	"Taco Bell",
	"Wendy's",
	"Whataburger",
}

func fallback() Catalog {
	rs := make([]string, len(FallbackRestaurants))
	copy(rs, FallbackRestaurants)
	return Catalog{Restaurants: rs, FoodTypes: []string{}, ProteinTypes: []string{}}
}
