package pipeline

import (
	"errors"
	"fmt"
	"slices"
)

var ErrUnknownOption = errors.New("unknown option")

// Option is one entry of a single-choice selector.
type Option[T comparable] struct {
	Value T      `json:"value"`
	Label string `json:"label"`
}

// Selector holds exactly one current value drawn from its options. The first
// option is the default and is restored whenever the current value stops
// being offered.
type Selector[T comparable] struct {
	options []Option[T]
	current T
}

// NewSelector panics when called without options; selectors are declared
// statically and an empty one is a programming error.
func NewSelector[T comparable](options ...Option[T]) Selector[T] {
	if len(options) == 0 {
		panic("pipeline: selector needs at least one option")
	}
	return Selector[T]{options: slices.Clone(options), current: options[0].Value}
}

func (s Selector[T]) Value() T {
	return s.current
}

func (s Selector[T]) Options() []Option[T] {
	return slices.Clone(s.options)
}

func (s Selector[T]) Has(v T) bool {
	return slices.ContainsFunc(s.options, func(o Option[T]) bool { return o.Value == v })
}

// Set replaces the current value. Unknown values leave the selector as it was.
func (s *Selector[T]) Set(v T) error {
	if !s.Has(v) {
		return fmt.Errorf("%w: %v", ErrUnknownOption, v)
	}
	s.current = v
	return nil
}

// SetOptions swaps the offered options, keeping the current value if it is
// still offered.
func (s *Selector[T]) SetOptions(options []Option[T]) {
	if len(options) == 0 {
		return
	}
	s.options = slices.Clone(options)
	if !s.Has(s.current) {
		s.current = s.options[0].Value
	}
}
