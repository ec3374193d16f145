package recommendation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leyumyum/leyum-web/internal/food"
	"github.com/leyumyum/leyum-web/internal/foodapi"
	"github.com/leyumyum/leyum-web/internal/pipeline"
	"github.com/leyumyum/leyum-web/internal/schedule"
)

// ErrStale is returned by a fetch that was superseded by a newer one before
// it completed. Its result is discarded.
var ErrStale = errors.New("recommendation request superseded")

type Config struct {
	// FetchDelay is waited before every request.
	FetchDelay time.Duration
	// GrowDelay is how long the window stays locked after growing.
	GrowDelay time.Duration
	Schedule  schedule.Func
	Taxonomy  Taxonomy
	Hints     Hints
}

type origin string

const (
	originNone      origin = ""
	originRecommend origin = "recommendations"
	originMatches   origin = "matches"
)

// Store is safe for concurrent use. Every mutation goes through its methods;
// a failed request never touches the lists.
type Store struct {
	src Source
	cfg Config
	log *zap.Logger

	mu            sync.Mutex
	mode          Mode
	testCompleted bool
	filters       Filters
	sort          pipeline.SortConfig
	search        string

	raw     []food.Item
	derived []food.Item
	origin  origin
	// fetched records the type filters the raw list was requested with.
	fetched pipeline.TypeFilter
	message string
	window  int

	seq     uint64
	loading bool
	err     error

	growing  bool
	stopGrow func() bool
}

func NewStore(src Source, cfg Config, log *zap.Logger) *Store {
	if cfg.Schedule == nil {
		cfg.Schedule = schedule.Real
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		src:     src,
		cfg:     cfg,
		log:     log.Named("recommendation"),
		mode:    ModeCustom,
		filters: DefaultFilters(),
		window:  pipeline.WindowIncrement,
	}
	s.syncTaxonomy()
	return s
}

func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches between custom and ai mode without fetching.
func (s *Store) SetMode(m Mode) error {
	if !m.Valid() {
		return foodapi.Validation("mode", fmt.Sprintf("Unknown mode %q", m))
	}
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
	return nil
}

// CompletePreferenceTest is the completion signal of a swipe session: the
// store switches to ai mode, remembers the test as done and fetches matches.
func (s *Store) CompletePreferenceTest(ctx context.Context) error {
	s.mu.Lock()
	s.mode = ModeAI
	s.testCompleted = true
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// Fetch requests recommendations for the current mode and filters. Only the
// most recently issued fetch may commit; older ones return ErrStale.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.loading = true
	s.err = nil
	mode := s.mode
	useMatches := mode == ModeAI && s.testCompleted
	req := s.filters.request()
	s.mu.Unlock()

	if mode == ModeAI && !useMatches && s.cfg.Hints != nil {
		req.PreferredCategories = s.cfg.Hints.LikedCategories()
	}

	if err := sleep(ctx, s.cfg.FetchDelay); err != nil {
		s.mu.Lock()
		if seq == s.seq {
			s.loading = false
		}
		s.mu.Unlock()
		return err
	}

	var (
		items []food.Item
		msg   string
		err   error
	)
	if useMatches {
		var m foodapi.Matches
		m, err = s.src.Matches(ctx)
		items, msg = m.Items, m.Message
	} else {
		items, err = s.src.Recommend(ctx, req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.log.Debug("discarding stale response", zap.Uint64("seq", seq), zap.Uint64("latest", s.seq))
		return fmt.Errorf("%w: request %d, latest %d", ErrStale, seq, s.seq)
	}
	s.loading = false
	if err != nil {
		s.err = err
		s.log.Info("fetch failed", zap.Uint64("seq", seq), zap.Error(err))
		return err
	}

	s.raw = items
	s.message = msg
	if useMatches {
		s.origin = originMatches
		s.fetched = pipeline.TypeFilter{FoodType: pipeline.Any, ProteinType: pipeline.Any}
	} else {
		s.origin = originRecommend
		s.fetched = pipeline.TypeFilter{FoodType: req.FoodType, ProteinType: req.ProteinType}
	}
	s.rederive()
	s.window = pipeline.WindowIncrement
	s.log.Debug("fetch committed", zap.Uint64("seq", seq), zap.String("origin", string(s.origin)), zap.Int("items", len(items)))
	return nil
}

// SetFilter replaces the value of a single-choice field or toggles a
// restaurant. Server-evaluated fields refetch; the type fields only
// re-derive while the raw list was fetched without that restriction.
func (s *Store) SetFilter(ctx context.Context, field Field, value string) error {
	s.mu.Lock()
	refetch, err := s.applyFilter(field, value)
	if err != nil {
		s.err = err
		s.mu.Unlock()
		return err
	}
	if !refetch {
		s.rederive()
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.Fetch(ctx)
}

func (s *Store) applyFilter(field Field, value string) (refetch bool, err error) {
	invalid := func() error {
		return foodapi.Validation("filter", fmt.Sprintf("Unknown %s %q", field, value))
	}
	switch field {
	case FieldHunger, FieldHealth:
		sel := &s.filters.Hunger
		if field == FieldHealth {
			sel = &s.filters.Health
		}
		old := sel.Value()
		if err := sel.Set(Level(value)); err != nil {
			return false, invalid()
		}
		return old != sel.Value(), nil
	case FieldCount:
		n, err := strconv.Atoi(value)
		if err != nil {
			return false, invalid()
		}
		old := s.filters.Count.Value()
		if err := s.filters.Count.Set(n); err != nil {
			return false, invalid()
		}
		return old != n, nil
	case FieldRestaurants:
		// a selected name can always be removed, even once the catalog drops it
		selected := slices.Contains(s.filters.Restaurants, value)
		if value == "" || (!selected && s.cfg.Taxonomy != nil && !slices.Contains(s.cfg.Taxonomy.Restaurants(), value)) {
			return false, invalid()
		}
		s.filters.toggleRestaurant(value)
		return true, nil
	case FieldFoodType, FieldProteinType:
		s.syncTaxonomy()
		sel, fetched := &s.filters.FoodType, s.fetched.FoodType
		if field == FieldProteinType {
			sel, fetched = &s.filters.ProteinType, s.fetched.ProteinType
		}
		old := sel.Value()
		if err := sel.Set(value); err != nil {
			return false, invalid()
		}
		narrowed := fetched != "" && fetched != pipeline.Any
		return old != value && narrowed && s.origin == originRecommend, nil
	}
	return false, foodapi.Validation("filter", fmt.Sprintf("Unknown filter %q", field))
}

// ToggleSort cycles field through ascending, descending and off.
func (s *Store) ToggleSort(field string) error {
	f, err := pipeline.ParseSortField(field)
	if err != nil {
		return foodapi.Validation("sort", fmt.Sprintf("Unknown sort field %q", field))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Toggle(f)
	s.rederive()
	return nil
}

func (s *Store) SetSearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = query
	s.rederive()
}

// Grow widens the visible window by one increment when the derived list has
// more to show, no fetch is pending and the previous growth has settled.
// It reports whether the window grew.
func (s *Store) Grow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading || s.growing || s.window >= len(s.derived) {
		return false
	}
	s.window = pipeline.NextWindow(s.window, len(s.derived))
	s.growing = true
	s.stopGrow = s.cfg.Schedule(s.cfg.GrowDelay, s.settleGrow)
	return true
}

func (s *Store) settleGrow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.growing = false
	s.stopGrow = nil
}

// Close stops pending timers.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopGrow != nil {
		s.stopGrow()
		s.stopGrow = nil
	}
	s.growing = false
}

// MatchView is the personalised results view over a matches list.
type MatchView struct {
	Available bool       `json:"available"`
	Filter    string     `json:"filter"`
	Sort      string     `json:"sort"`
	Items     []ItemView `json:"items"`
	Total     int        `json:"total"`
	Message   string     `json:"message,omitempty"`
}

// Matches applies a quick filter and a match sort to the fetched matches.
// Available is false until matches have been fetched.
func (s *Store) Matches(f pipeline.MatchFilter, o pipeline.MatchSort) (MatchView, error) {
	if !f.Valid() {
		return MatchView{}, foodapi.Validation("matches", fmt.Sprintf("Unknown filter %q", f))
	}
	if !o.Valid() {
		return MatchView{}, foodapi.Validation("matches", fmt.Sprintf("Unknown sort %q", o))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := MatchView{Filter: string(f), Sort: string(o), Items: []ItemView{}}
	if s.origin != originMatches {
		return v, nil
	}
	items := pipeline.SortMatches(pipeline.FilterMatches(s.raw, f), o)
	v.Available = true
	v.Items = views(items)
	v.Total = len(s.raw)
	v.Message = s.message
	return v, nil
}

func (s *Store) rederive() {
	s.derived = pipeline.Derive(s.raw, pipeline.Query{
		Types:  s.filters.types(),
		Search: s.search,
		Sort:   s.sort,
	})
}

// syncTaxonomy refreshes the options of the type selectors. A value that is
// no longer offered falls back to any.
func (s *Store) syncTaxonomy() {
	if s.cfg.Taxonomy == nil {
		return
	}
	s.filters.FoodType.SetOptions(typeOptions(s.cfg.Taxonomy.FoodTypes()))
	s.filters.ProteinType.SetOptions(typeOptions(s.cfg.Taxonomy.ProteinTypes()))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
