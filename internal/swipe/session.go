// Package swipe runs the preference test: a sequence of like/dislike
// decisions on test cards, moving through idle, loading, active, processing
// and completed.
package swipe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leyumyum/leyum-web/internal/food"
	"github.com/leyumyum/leyum-web/internal/foodapi"
	"github.com/leyumyum/leyum-web/internal/schedule"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseActive     Phase = "active"
	PhaseProcessing Phase = "processing"
	PhaseCompleted  Phase = "completed"
)

type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

var (
	ErrWrongPhase = errors.New("action not allowed in current phase")
	ErrNoCards    = errors.New("no test cards available")
	// ErrClosed is returned by an open whose session was closed or reopened
	// before the cards arrived.
	ErrClosed = errors.New("test session closed")
)

// Result is one swipe decision.
type Result struct {
	Item  food.Item `json:"item"`
	Liked bool      `json:"liked"`
}

type CardSource interface {
	TestCards(ctx context.Context) ([]food.Item, error)
}

type PreferenceSink interface {
	SavePreference(ctx context.Context, foodID int, liked bool) error
}

// Completer receives the completion signal when the user asks to see the
// matches of a completed test.
type Completer interface {
	CompletePreferenceTest(ctx context.Context) error
}

type Config struct {
	ProcessingDelay time.Duration
	// SaveTimeout bounds each preference save.
	SaveTimeout time.Duration
	Schedule    schedule.Func
}

// Session is safe for concurrent use.
type Session struct {
	cards CardSource
	prefs PreferenceSink
	cfg   Config
	log   *zap.Logger

	mu      sync.Mutex
	phase   Phase
	items   []food.Item
	index   int
	results []Result
	err     error
	// gen invalidates loads and timers that belong to an earlier open.
	gen            uint64
	stopProcessing func() bool

	saves sync.WaitGroup
}

func NewSession(cards CardSource, prefs PreferenceSink, cfg Config, log *zap.Logger) *Session {
	if cfg.Schedule == nil {
		cfg.Schedule = schedule.Real
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		cards: cards,
		prefs: prefs,
		cfg:   cfg,
		log:   log.Named("swipe"),
		phase: PhaseIdle,
	}
}

// Open starts a new test from scratch and loads its cards. An empty card
// list still activates the session, with nothing to swipe.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	s.reset()
	s.phase = PhaseLoading
	s.results = nil
	gen := s.gen
	s.mu.Unlock()

	cards, err := s.cards.TestCards(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrClosed
	}
	if err != nil {
		s.phase = PhaseIdle
		s.err = err
		s.log.Info("loading test cards failed", zap.Error(err))
		return err
	}
	s.items = cards
	s.phase = PhaseActive
	s.log.Debug("test opened", zap.Int("cards", len(cards)))
	return nil
}

// Swipe records a decision on the current card and advances. The decision on
// the last card starts processing.
func (s *Session) Swipe(dir Direction) (Result, error) {
	if dir != Left && dir != Right {
		return Result{}, foodapi.Validation("swipe", fmt.Sprintf("Unknown direction %q", dir))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseActive {
		return Result{}, fmt.Errorf("%w: swipe in %s", ErrWrongPhase, s.phase)
	}
	if len(s.items) == 0 {
		return Result{}, ErrNoCards
	}

	r := Result{Item: s.items[s.index], Liked: dir == Right}
	s.results = append(s.results, r)
	s.save(r)

	if s.index == len(s.items)-1 {
		s.phase = PhaseProcessing
		gen := s.gen
		s.stopProcessing = s.cfg.Schedule(s.cfg.ProcessingDelay, func() { s.finishProcessing(gen) })
		return r, nil
	}
	s.index++
	return r, nil
}

// save records the decision in the background. Failures are logged only.
func (s *Session) save(r Result) {
	if r.Item.ID == nil || *r.Item.ID <= 0 {
		s.log.Warn("card has no food id, preference not saved", zap.String("item", r.Item.Name))
		return
	}
	id, liked := *r.Item.ID, r.Liked
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SaveTimeout)
		defer cancel()
		if err := s.prefs.SavePreference(ctx, id, liked); err != nil {
			s.log.Warn("saving preference failed", zap.Int("food_id", id), zap.Bool("liked", liked), zap.Error(err))
		}
	}()
}

func (s *Session) finishProcessing(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.phase != PhaseProcessing {
		return
	}
	s.phase = PhaseCompleted
	s.stopProcessing = nil
	s.log.Debug("test completed", zap.Int("results", len(s.results)))
}

// ViewMatches closes a completed session and signals completion to c.
func (s *Session) ViewMatches(ctx context.Context, c Completer) error {
	s.mu.Lock()
	if s.phase != PhaseCompleted {
		phase := s.phase
		s.mu.Unlock()
		return fmt.Errorf("%w: view matches in %s", ErrWrongPhase, phase)
	}
	s.reset()
	s.mu.Unlock()
	return c.CompletePreferenceTest(ctx)
}

// Close aborts to idle from any phase. Swipe results are kept until the next
// open.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// reset returns to idle and invalidates anything started by the previous open.
func (s *Session) reset() {
	if s.stopProcessing != nil {
		s.stopProcessing()
		s.stopProcessing = nil
	}
	s.gen++
	s.phase = PhaseIdle
	s.items = nil
	s.index = 0
	s.err = nil
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// LikedCategories returns the distinct food types of liked cards in swipe
// order, leaving out unclassified ones.
func (s *Session) LikedCategories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	seen := make(map[string]bool)
	for _, r := range s.results {
		t := r.Item.FoodType
		if !r.Liked || t == "" || t == food.Unknown || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Snapshot is the rendered state of the test.
type Snapshot struct {
	Phase    Phase      `json:"phase"`
	Index    int        `json:"index"`
	Total    int        `json:"total"`
	Current  *food.Item `json:"current,omitempty"`
	Results  []Result   `json:"results"`
	NoCards  bool       `json:"no_cards"`
	CanSwipe bool       `json:"can_swipe"`
	Error    string     `json:"error,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Phase:   s.phase,
		Index:   s.index,
		Total:   len(s.items),
		Results: make([]Result, len(s.results)),
		NoCards: s.phase == PhaseActive && len(s.items) == 0,
	}
	copy(snap.Results, s.results)
	if s.phase == PhaseActive && s.index < len(s.items) {
		cur := s.items[s.index]
		snap.Current = &cur
		snap.CanSwipe = true
	}
	if s.err != nil {
		snap.Error = foodapi.UserMessage(s.err)
	}
	return snap
}
