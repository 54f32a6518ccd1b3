package domain

import (
	"fmt"
	"strings"
)

// Function describes a single image-function instance: the function type
// known to the fitting engine (e.g. "Gaussian", "EdgeOnDisk"), a label unique
// within its function set, and the ordered parameter list whose insertion
// order defines the fit-vector order.
type Function struct {
	funcType string
	label    string
	params   []*Parameter
	byName   map[string]*Parameter
}

// NewFunction creates an empty function entry. An empty label defaults to
// the function type.
func NewFunction(funcType, label string) *Function {
	if label == "" {
		label = funcType
	}
	return &Function{
		funcType: funcType,
		label:    label,
		byName:   make(map[string]*Parameter),
	}
}

// FuncType returns the image-function type name. The name is a lookup key
// into the fitting engine's function registry and is not validated here.
func (f *Function) FuncType() string { return f.funcType }

// Label returns the function label, e.g. "disk" or "nuclear ring".
func (f *Function) Label() string { return f.label }

// AddParameter appends p to the ordered parameter list and makes it
// addressable by name through Parameter. The ordered list stays the single
// source of truth for ordering and equality.
func (f *Function) AddParameter(p *Parameter) error {
	if p == nil {
		return fmt.Errorf("%w: parameter must not be nil", ErrTypeMismatch)
	}
	f.params = append(f.params, p)
	f.byName[p.Name()] = p
	return nil
}

// Parameter looks up a parameter by name.
func (f *Function) Parameter(name string) (*Parameter, bool) {
	p, ok := f.byName[name]
	return p, ok
}

// ParameterList returns the parameters in fit-vector order. The slice is a
// copy but the entries are shared with the function.
func (f *Function) ParameterList() []*Parameter {
	out := make([]*Parameter, len(f.params))
	copy(out, f.params)
	return out
}

// Equal reports whether type, label and the full parameter list match.
func (f *Function) Equal(o *Function) bool {
	if o == nil || f.funcType != o.funcType || f.label != o.label || len(f.params) != len(o.params) {
		return false
	}
	for i, p := range f.params {
		if !p.Equal(o.params[i]) {
			return false
		}
	}
	return true
}

// Copy returns a deep clone sharing no parameter with the source.
func (f *Function) Copy() *Function {
	c := NewFunction(f.funcType, f.label)
	for _, p := range f.params {
		_ = c.AddParameter(p.Copy())
	}
	return c
}

// String renders the function as a FUNCTION block of the configuration
// grammar.
func (f *Function) String() string {
	lines := make([]string, 0, len(f.params)+1)
	lines = append(lines, fmt.Sprintf("FUNCTION %s   # %s", f.funcType, f.label))
	for _, p := range f.params {
		lines = append(lines, p.String())
	}
	return strings.Join(lines, "\n")
}
