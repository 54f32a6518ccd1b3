package domain

import (
	"fmt"
	"strings"
)

// FunctionSet groups one or more image functions sharing a common (X0, Y0)
// center position. Function labels are unique within a set; insertion order
// is preserved.
type FunctionSet struct {
	label     string
	x0        *Parameter
	y0        *Parameter
	functions []*Function
	byLabel   map[string]*Function
}

// NewFunctionSet creates an empty function set centered at (0, 0).
func NewFunctionSet(label string) *FunctionSet {
	return &FunctionSet{
		label:   label,
		x0:      NewParameter("X0", 0),
		y0:      NewParameter("Y0", 0),
		byLabel: make(map[string]*Function),
	}
}

// Label returns the set label, e.g. "fs0" or "offset nucleus".
func (s *FunctionSet) Label() string { return s.label }

// X0 returns the X coordinate of the set's center.
func (s *FunctionSet) X0() *Parameter { return s.x0 }

// Y0 returns the Y coordinate of the set's center.
func (s *FunctionSet) Y0() *Parameter { return s.y0 }

// AddFunction appends f to the set and makes it addressable by label.
func (s *FunctionSet) AddFunction(f *Function) error {
	if f == nil {
		return fmt.Errorf("%w: function must not be nil", ErrTypeMismatch)
	}
	if _, ok := s.byLabel[f.Label()]; ok {
		return fmt.Errorf("%w: function %q already exists in set %q", ErrDuplicateName, f.Label(), s.label)
	}
	s.functions = append(s.functions, f)
	s.byLabel[f.Label()] = f
	return nil
}

// Function looks up a function by label.
func (s *FunctionSet) Function(label string) (*Function, bool) {
	f, ok := s.byLabel[label]
	return f, ok
}

// Functions returns the function entries in insertion order (copied slice,
// shared entries).
func (s *FunctionSet) Functions() []*Function {
	out := make([]*Function, len(s.functions))
	copy(out, s.functions)
	return out
}

// FunctionTypes returns the function-type names in insertion order.
func (s *FunctionSet) FunctionTypes() []string {
	types := make([]string, len(s.functions))
	for i, f := range s.functions {
		types[i] = f.FuncType()
	}
	return types
}

// ParameterList returns X0, Y0 and then every function's parameters in
// order. This ordering is the contract the flat fit vector is built on.
func (s *FunctionSet) ParameterList() []*Parameter {
	params := make([]*Parameter, 0, 2+len(s.functions))
	params = append(params, s.x0, s.y0)
	for _, f := range s.functions {
		params = append(params, f.params...)
	}
	return params
}

// Equal reports whether label, center and the full function list match.
func (s *FunctionSet) Equal(o *FunctionSet) bool {
	if o == nil || s.label != o.label || !s.x0.Equal(o.x0) || !s.y0.Equal(o.y0) || len(s.functions) != len(o.functions) {
		return false
	}
	for i, f := range s.functions {
		if !f.Equal(o.functions[i]) {
			return false
		}
	}
	return true
}

// Copy returns a deep clone: the center parameters and every function are
// duplicated, nothing mutable is shared with the source.
func (s *FunctionSet) Copy() *FunctionSet {
	c := NewFunctionSet(s.label)
	c.x0 = s.x0.Copy()
	c.y0 = s.y0.Copy()
	for _, f := range s.functions {
		_ = c.AddFunction(f.Copy())
	}
	return c
}

// String renders the set as an X0/Y0 group of the configuration grammar.
// The set label rides on the X0 line as a comment so it survives a
// round-trip.
func (s *FunctionSet) String() string {
	lines := make([]string, 0, len(s.functions)+2)
	lines = append(lines, fmt.Sprintf("%s   # %s", s.x0, s.label), s.y0.String())
	for _, f := range s.functions {
		lines = append(lines, f.String())
	}
	return strings.Join(lines, "\n")
}
