package catalog

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/leyumyum/leyum-web/internal/foodapi"
)

// Service caches the taxonomy lists shared by every workspace.
type Service struct {
	src Source
	log *zap.Logger

	group singleflight.Group

	mu      sync.RWMutex
	current Catalog
}

func NewService(src Source, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{src: src, log: log.Named("catalog"), current: fallback()}
}

// Get returns a copy of the cached catalog.
func (s *Service) Get() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.current)
}

// Ensure refreshes once if the remote lists were never loaded.
func (s *Service) Ensure(ctx context.Context) (Catalog, error) {
	if c := s.Get(); c.Loaded {
		return c, nil
	}
	return s.Refresh(ctx)
}

// Refresh loads the three lists concurrently. Concurrent callers share one
// round trip. On failure the previous lists are kept and the error recorded.
func (s *Service) Refresh(ctx context.Context) (Catalog, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		s.mu.Lock()
		s.current.Error = foodapi.UserMessage(err)
		s.mu.Unlock()
		s.log.Warn("catalog refresh failed", zap.Error(err))
		return s.Get(), err
	}

	c := v.(Catalog)
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
	s.log.Debug("catalog refreshed",
		zap.Int("restaurants", len(c.Restaurants)),
		zap.Int("food_types", len(c.FoodTypes)),
		zap.Int("protein_types", len(c.ProteinTypes)))
	return clone(c), nil
}

func (s *Service) load(ctx context.Context) (Catalog, error) {
	var c Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.Restaurants, err = s.src.Restaurants(gctx)
		return err
	})
	g.Go(func() (err error) {
		c.FoodTypes, err = s.src.FoodTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		c.ProteinTypes, err = s.src.ProteinTypes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	if len(c.Restaurants) == 0 {
		c.Restaurants = slices.Clone(FallbackRestaurants)
	}
	if c.FoodTypes == nil {
		c.FoodTypes = []string{}
	}
	if c.ProteinTypes == nil {
		c.ProteinTypes = []string{}
	}
	c.Loaded = true
	return c, nil
}

// Restaurants, FoodTypes and ProteinTypes let the recommendation store read
// the current options without depending on this package.
func (s *Service) Restaurants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.current.Restaurants)
}

func (s *Service) FoodTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.current.FoodTypes)
}

func (s *Service) ProteinTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.current.ProteinTypes)
}

func clone(c Catalog) Catalog {
	c.Restaurants = slices.Clone(c.Restaurants)
	c.FoodTypes = slices.Clone(c.FoodTypes)
	c.ProteinTypes = slices.Clone(c.ProteinTypes)
	return c
}
