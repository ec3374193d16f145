package cart

import (
	"errors"
	"slices"
	"sync"

	"github.com/leyumyum/leyum-web/internal/food"
)

var (
	ErrLineNotFound = errors.New("cart line not found")
)

// Repository stores one cart per workspace. Lines keep insertion order and a
// change that brings a quantity to zero or below removes the line.
type Repository interface {
	Add(cartID string, item food.Item, qty int) ([]Line, error)
	Update(cartID string, key food.Key, delta int) ([]Line, error)
	Remove(cartID string, key food.Key) ([]Line, error)
	Get(cartID string) ([]Line, error)
	Clear(cartID string) error
}

// InMemoryRepository keeps carts for the life of the process.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[string][]Line)}
}

func (r *InMemoryRepository) Add(cartID string, item food.Item, qty int) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := item.Key()
	lines := r.carts[cartID]
	if i := index(lines, key); i >= 0 {
		return r.apply(cartID, i, qty), nil
	}
	if qty <= 0 {
		return slices.Clone(lines), nil
	}
	lines = append(lines, Line{Key: key, Item: item, Quantity: qty})
	r.carts[cartID] = lines
	return slices.Clone(lines), nil
}

func (r *InMemoryRepository) Update(cartID string, key food.Key, delta int) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := index(r.carts[cartID], key)
	if i < 0 {
		return nil, ErrLineNotFound
	}
	return r.apply(cartID, i, delta), nil
}

func (r *InMemoryRepository) Remove(cartID string, key food.Key) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.carts[cartID]
	i := index(lines, key)
	if i < 0 {
		return nil, ErrLineNotFound
	}
	lines = slices.Delete(lines, i, i+1)
	r.carts[cartID] = lines
	return slices.Clone(lines), nil
}

func (r *InMemoryRepository) Get(cartID string) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.carts[cartID])
	if out == nil {
		out = []Line{}
	}
	return out, nil
}

// Clear empties a cart and forgets it.
func (r *InMemoryRepository) Clear(cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, cartID)
	return nil
}

// apply adds delta to line i, removing it when the quantity drops to zero.
// Callers hold the lock.
func (r *InMemoryRepository) apply(cartID string, i, delta int) []Line {
	lines := r.carts[cartID]
	lines[i].Quantity += delta
	if lines[i].Quantity <= 0 {
		lines = slices.Delete(lines, i, i+1)
	}
	r.carts[cartID] = lines
	out := slices.Clone(lines)
	if out == nil {
		out = []Line{}
	}
	return out
}

func index(lines []Line, key food.Key) int {
	return slices.IndexFunc(lines, func(l Line) bool { return l.Key == key })
}
