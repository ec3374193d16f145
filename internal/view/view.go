// Package view tracks which top-level screen a workspace is on.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/leyumyum/leyum-web/internal/recommendation"
)

type Phase string

const (
	PhaseLanding    Phase = "landing"
	PhaseModeChoice Phase = "mode_choice"
	PhaseMain       Phase = "main"
)

var ErrWrongPhase = errors.New("transition not allowed from current view")

// Recommendations is the part of the recommendation store the router drives.
type Recommendations interface {
	Mode() recommendation.Mode
	SetMode(m recommendation.Mode) error
	Fetch(ctx context.Context) error
}

// Router is safe for concurrent use.
type Router struct {
	recs Recommendations

	mu    sync.Mutex
	phase Phase
}

func NewRouter(recs Recommendations) *Router {
	return &Router{recs: recs, phase: PhaseLanding}
}

type State struct {
	Phase Phase               `json:"phase"`
	Mode  recommendation.Mode `json:"mode"`
}

func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return State{Phase: r.phase, Mode: r.recs.Mode()}
}

// Start leaves the landing screen for the mode choice.
func (r *Router) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.phase {
	case PhaseLanding:
		r.phase = PhaseModeChoice
		return nil
	case PhaseModeChoice:
		return nil
	}
	return fmt.Errorf("%w: start from %s", ErrWrongPhase, r.phase)
}

// ChooseMode enters the main screen in mode m and loads recommendations.
// The main screen is shown even when loading fails.
func (r *Router) ChooseMode(ctx context.Context, m recommendation.Mode) error {
	r.mu.Lock()
	if r.phase != PhaseModeChoice {
		phase := r.phase
		r.mu.Unlock()
		return fmt.Errorf("%w: choose mode from %s", ErrWrongPhase, phase)
	}
	if err := r.recs.SetMode(m); err != nil {
		r.mu.Unlock()
		return err
	}
	r.phase = PhaseMain
	r.mu.Unlock()
	return r.recs.Fetch(ctx)
}

// OpenDatabase jumps to the main screen in custom mode from anywhere.
func (r *Router) OpenDatabase(ctx context.Context) error {
	r.mu.Lock()
	if err := r.recs.SetMode(recommendation.ModeCustom); err != nil {
		r.mu.Unlock()
		return err
	}
	r.phase = PhaseMain
	r.mu.Unlock()
	return r.recs.Fetch(ctx)
}

// SwitchMode changes mode on the main screen without loading.
func (r *Router) SwitchMode(m recommendation.Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseMain {
		return fmt.Errorf("%w: switch mode from %s", ErrWrongPhase, r.phase)
	}
	return r.recs.SetMode(m)
}
