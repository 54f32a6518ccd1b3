package domain

import (
	"fmt"
	"maps"
)

// SimpleModel is a Model constrained to exactly one function set, with
// pass-through access to that set's center coordinates and functions.
type SimpleModel struct {
	Model
}

// NewSimpleModel returns a simple model holding one empty function set
// labeled "fs".
func NewSimpleModel() *SimpleModel {
	s := &SimpleModel{Model: *NewModel()}
	_ = s.Model.AddFunctionSet(NewFunctionSet("fs"))
	return s
}

// SimpleModelFrom builds a simple model from an existing description, which
// must hold exactly one function set. The set is cloned, not shared, so the
// source stays independent.
func SimpleModelFrom(m *Model) (*SimpleModel, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: source model must not be nil", ErrInvalidArgument)
	}
	if len(m.sets) != 1 {
		return nil, fmt.Errorf("%w: source model must have exactly one function set, got %d", ErrInvalidArgument, len(m.sets))
	}
	s := &SimpleModel{Model: *NewModel()}
	maps.Copy(s.Options, m.Options)
	_ = s.Model.AddFunctionSet(m.sets[0].Copy())
	return s, nil
}

// AddFunctionSet fails once the single slot is occupied.
func (s *SimpleModel) AddFunctionSet(fs *FunctionSet) error {
	if len(s.sets) >= 1 {
		return fmt.Errorf("%w: a simple model holds exactly one function set", ErrCapacityExceeded)
	}
	return s.Model.AddFunctionSet(fs)
}

// X0 returns the X coordinate of the model center.
func (s *SimpleModel) X0() *Parameter { return s.sets[0].x0 }

// Y0 returns the Y coordinate of the model center.
func (s *SimpleModel) Y0() *Parameter { return s.sets[0].y0 }

// AddFunction adds f to the sole function set.
func (s *SimpleModel) AddFunction(f *Function) error {
	return s.sets[0].AddFunction(f)
}

// Functions returns the functions of the sole function set.
func (s *SimpleModel) Functions() []*Function {
	return s.sets[0].Functions()
}
