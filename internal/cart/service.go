package cart

import (
	"errors"

	"github.com/leyumyum/leyum-web/internal/food"
)

var ErrInvalidItem = errors.New("item needs a name and a restaurant")

// Service orchestrates cart operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddItem puts one more of item into the cart.
func (s *Service) AddItem(cartID string, item food.Item) ([]Line, error) {
	if item.ID == nil && (item.Name == "" || item.Restaurant == "") {
		return nil, ErrInvalidItem
	}
	return s.repo.Add(cartID, item, 1)
}

// UpdateQuantity adds delta to a line; zero or less removes it. A zero delta
// returns the cart unchanged.
func (s *Service) UpdateQuantity(cartID string, key food.Key, delta int) ([]Line, error) {
	if delta == 0 {
		lines, err := s.repo.Get(cartID)
		if err != nil {
			return nil, err
		}
		for _, l := range lines {
			if l.Key == key {
				return lines, nil
			}
		}
		return nil, ErrLineNotFound
	}
	return s.repo.Update(cartID, key, delta)
}

func (s *Service) Remove(cartID string, key food.Key) ([]Line, error) {
	return s.repo.Remove(cartID, key)
}

func (s *Service) Lines(cartID string) ([]Line, error) {
	return s.repo.Get(cartID)
}

// Clear empties the cart and returns an error if something goes wrong.
func (s *Service) Clear(cartID string) error {
	return s.repo.Clear(cartID)
}

// Summary recomputes totals and advice from the current lines.
func (s *Service) Summary(cartID string) (Summary, error) {
	lines, err := s.repo.Get(cartID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(lines), nil
}
