package domain

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Model is the root aggregate of an image-decomposition description: global
// scalar options (instrument constants such as GAIN or ORIGINAL_SKY) plus
// the ordered function sets making up the model proper. The model owns every
// descendant entry.
type Model struct {
	Options map[string]float64

	sets    []*FunctionSet
	byLabel map[string]*FunctionSet
}

// NewModel creates an empty model description.
func NewModel() *Model {
	return &Model{
		Options: make(map[string]float64),
		byLabel: make(map[string]*FunctionSet),
	}
}

// AddFunctionSet appends fs to the model. Set labels are unique within a
// model.
func (m *Model) AddFunctionSet(fs *FunctionSet) error {
	if fs == nil {
		return fmt.Errorf("%w: function set must not be nil", ErrTypeMismatch)
	}
	if _, ok := m.byLabel[fs.Label()]; ok {
		return fmt.Errorf("%w: function set %q already exists", ErrDuplicateName, fs.Label())
	}
	m.sets = append(m.sets, fs)
	m.byLabel[fs.Label()] = fs
	return nil
}

// FunctionSet looks up a function set by label.
func (m *Model) FunctionSet(label string) (*FunctionSet, bool) {
	fs, ok := m.byLabel[label]
	return fs, ok
}

// FunctionSets returns the function sets in insertion order (copied slice,
// shared entries).
func (m *Model) FunctionSets() []*FunctionSet {
	out := make([]*FunctionSet, len(m.sets))
	copy(out, m.sets)
	return out
}

// FunctionSetIndices returns the starting offset of each function set within
// the model's flattened function list, counted in functions, not
// parameters. The first offset is always 0.
func (m *Model) FunctionSetIndices() []int {
	indices := []int{0}
	for i := 0; i < len(m.sets)-1; i++ {
		indices = append(indices, len(m.sets[i].functions))
	}
	return indices
}

// FunctionTypes lists the function types of every set, in set order.
func (m *Model) FunctionTypes() []string {
	var types []string
	for _, fs := range m.sets {
		types = append(types, fs.FunctionTypes()...)
	}
	return types
}

// ParameterList returns every parameter of the model in fit-vector order:
// for each function set, X0, Y0, then each function's parameters in
// insertion order. The external optimizer indexes this vector purely by
// position, so any reordering of the tree is a breaking change.
func (m *Model) ParameterList() []*Parameter {
	var params []*Parameter
	for _, fs := range m.sets {
		params = append(params, fs.ParameterList()...)
	}
	return params
}

// GetRawParameters returns the current values in ParameterList order.
func (m *Model) GetRawParameters() []float64 {
	params := m.ParameterList()
	values := make([]float64, len(params))
	for i, p := range params {
		values[i] = p.Value()
	}
	return values
}

// GetParameterLimits returns the limit pairs in ParameterList order; a nil
// entry marks an unbounded parameter.
func (m *Model) GetParameterLimits() []*Limits {
	params := m.ParameterList()
	limits := make([]*Limits, len(params))
	for i, p := range params {
		if l, ok := p.Limits(); ok {
			limits[i] = &Limits{Lower: l.Lower, Upper: l.Upper}
		}
	}
	return limits
}

// SetRawParameters writes fitted values back into the owned parameters by
// position, matching ParameterList order. Only values change: limits are
// widened where a written value falls outside them, the tree structure is
// untouched. This is the only mutation surface granted to the external
// optimizer.
func (m *Model) SetRawParameters(values []float64) error {
	params := m.ParameterList()
	if len(values) != len(params) {
		return fmt.Errorf("%w: got %d values for %d parameters", ErrInvalidArgument, len(values), len(params))
	}
	for i, p := range params {
		p.updateValue(values[i])
	}
	return nil
}

// Equal reports whether the options mapping and the function-set list match.
func (m *Model) Equal(o *Model) bool {
	if o == nil || !maps.Equal(m.Options, o.Options) || len(m.sets) != len(o.sets) {
		return false
	}
	for i, fs := range m.sets {
		if !fs.Equal(o.sets[i]) {
			return false
		}
	}
	return true
}

// Copy returns a deep clone sharing no mutable entry with the source, so a
// fit can run against the clone's vector view without touching the
// original.
func (m *Model) Copy() *Model {
	c := NewModel()
	maps.Copy(c.Options, m.Options)
	for _, fs := range m.sets {
		_ = c.AddFunctionSet(fs.Copy())
	}
	return c
}

// String renders the model in the configuration grammar: option lines in
// sorted key order, then the function-set blocks.
func (m *Model) String() string {
	keys := make([]string, 0, len(m.Options))
	for k := range m.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+len(m.sets))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s\t%s", k, formatValue(m.Options[k])))
	}
	for _, fs := range m.sets {
		lines = append(lines, fs.String())
	}
	return strings.Join(lines, "\n")
}
