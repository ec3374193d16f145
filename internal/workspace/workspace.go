// Package workspace keeps the per-browser state of the BFF: each workspace
// owns one recommendation store, one swipe session, one view router and one
// cart, and is found through a cookie.
package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leyumyum/leyum-web/internal/recommendation"
	"github.com/leyumyum/leyum-web/internal/swipe"
	"github.com/leyumyum/leyum-web/internal/view"
)

type Workspace struct {
	ID              string
	Recommendations *recommendation.Store
	Test            *swipe.Session
	View            *view.Router
}

// Carts is the cart service as seen by the registry.
type Carts interface {
	Clear(cartID string) error
}

type Deps struct {
	Recommendations recommendation.Source
	Cards           swipe.CardSource
	Preferences     swipe.PreferenceSink
	Taxonomy        recommendation.Taxonomy
	Carts           Carts

	RecommendationConfig recommendation.Config
	SwipeConfig          swipe.Config

	// TTL is how long an untouched workspace lives.
	TTL time.Duration
	Now func() time.Time
}

type entry struct {
	ws       *Workspace
	lastSeen time.Time
}

// Registry is safe for concurrent use.
type Registry struct {
	deps Deps
	log  *zap.Logger

	mu    sync.Mutex
	items map[string]*entry
}

func NewRegistry(deps Deps, log *zap.Logger) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{deps: deps, log: log.Named("workspace"), items: make(map[string]*entry)}
}

// Create starts a fresh workspace.
func (r *Registry) Create() *Workspace {
	id := uuid.NewString()
	log := r.log.With(zap.String("workspace", id))

	session := swipe.NewSession(r.deps.Cards, r.deps.Preferences, r.deps.SwipeConfig, log)
	cfg := r.deps.RecommendationConfig
	cfg.Hints = session
	cfg.Taxonomy = r.deps.Taxonomy
	store := recommendation.NewStore(r.deps.Recommendations, cfg, log)

	ws := &Workspace{
		ID:              id,
		Recommendations: store,
		Test:            session,
		View:            view.NewRouter(store),
	}

	r.mu.Lock()
	r.items[id] = &entry{ws: ws, lastSeen: r.deps.Now()}
	n := len(r.items)
	r.mu.Unlock()
	log.Debug("workspace created", zap.Int("active", n))
	return ws
}

// Get returns the workspace and marks it as used.
func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.deps.Now()
	return e.ws, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep expires workspaces idle for longer than the TTL and returns how many
// were removed. A zero TTL never expires anything.
func (r *Registry) Sweep() int {
	if r.deps.TTL <= 0 {
		return 0
	}
	cutoff := r.deps.Now().Add(-r.deps.TTL)

	r.mu.Lock()
	var expired []*Workspace
	for id, e := range r.items {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.ws)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range expired {
		r.release(ws)
	}
	if len(expired) > 0 {
		r.log.Info("expired idle workspaces", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Close releases every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Workspace, 0, len(r.items))
	for id, e := range r.items {
		all = append(all, e.ws)
		delete(r.items, id)
	}
	r.mu.Unlock()
	for _, ws := range all {
		r.release(ws)
	}
}

func (r *Registry) release(ws *Workspace) {
	ws.Test.Close()
	ws.Recommendations.Close()
	if r.deps.Carts != nil {
		if err := r.deps.Carts.Clear(ws.ID); err != nil {
			r.log.Warn("clearing cart failed", zap.String("workspace", ws.ID), zap.Error(err))
		}
	}
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			r.Sweep()
		}
	}
}
