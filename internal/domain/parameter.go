package domain

import (
	"fmt"
	"strconv"
)

// Limits is an inclusive lower/upper bound pair constraining a parameter
// during fitting.
type Limits struct {
	Lower float64
	Upper float64
}

// Parameter holds a single scalar quantity of an image function: its name,
// current value (e.g. a suggested initial value), optional fitting limits and
// whether the value is held fixed during a fit. Whenever limits are present,
// Lower < Upper and Lower <= Value <= Upper hold.
type Parameter struct {
	name   string
	value  float64
	limits *Limits
	fixed  bool
}

// NewParameter creates an unbounded, free parameter.
func NewParameter(name string, value float64) *Parameter {
	return &Parameter{name: name, value: value}
}

// NewBoundedParameter creates a parameter with fitting limits, applying the
// same clamping rules as SetValue.
func NewBoundedParameter(name string, value, lower, upper float64) (*Parameter, error) {
	p := &Parameter{name: name}
	if err := p.SetValue(value, false, lower, upper); err != nil {
		return nil, err
	}
	return p, nil
}

// Name returns the parameter label, e.g. "X0" or "sigma".
func (p *Parameter) Name() string { return p.name }

// Value returns the current value of the parameter.
func (p *Parameter) Value() float64 { return p.value }

// Fixed reports whether the parameter is held fixed during fitting.
func (p *Parameter) Fixed() bool { return p.fixed }

// SetFixed marks the parameter as fixed or free.
func (p *Parameter) SetFixed(fixed bool) { p.fixed = fixed }

// Limits returns the current limits; ok is false when the parameter is
// unbounded.
func (p *Parameter) Limits() (Limits, bool) {
	if p.limits == nil {
		return Limits{}, false
	}
	return *p.limits, true
}

// SetValue sets the value unconditionally. bounds must be empty or exactly
// (lower, upper); a single bound is rejected. A bound on the wrong side of
// the new value is clamped to the value instead of being rejected — note the
// stored pair may therefore differ from what the caller passed in. Without
// bounds, existing limits are kept, widened if the new value escapes them.
func (p *Parameter) SetValue(value float64, fixed bool, bounds ...float64) error {
	switch len(bounds) {
	case 0:
	case 2:
		lower, upper := bounds[0], bounds[1]
		if value < lower {
			lower = value
		} else if value > upper {
			upper = value
		}
		if lower >= upper {
			return fmt.Errorf("%w: lower limit %v must be < upper limit %v", ErrInvalidBounds, lower, upper)
		}
		p.limits = &Limits{Lower: lower, Upper: upper}
	default:
		return fmt.Errorf("%w: lower and upper limits must be given together", ErrInvalidBounds)
	}
	p.value = value
	p.fixed = fixed
	p.widenLimits()
	return nil
}

// SetTolerance sets the limits as a fractional offset around the current
// value: [value*(1-tol), value*(1+tol)]. tol must lie in [0, 1], and the
// resulting pair must be non-degenerate (a zero or negative value makes it
// collapse or invert).
func (p *Parameter) SetTolerance(tol float64) error {
	if tol < 0 || tol > 1 {
		return fmt.Errorf("%w: tolerance %v must be between 0.0 and 1.0", ErrInvalidArgument, tol)
	}
	lower, upper := p.value*(1-tol), p.value*(1+tol)
	if lower >= upper {
		return fmt.Errorf("%w: tolerance %v around value %v gives degenerate limits", ErrInvalidBounds, tol, p.value)
	}
	p.limits = &Limits{Lower: lower, Upper: upper}
	return nil
}

// SetLimitsRel sets the limits as intervals relative to the current value:
// [value-down, value+up]. Both intervals must be non-negative.
func (p *Parameter) SetLimitsRel(down, up float64) error {
	if down < 0 || up < 0 {
		return fmt.Errorf("%w: limit intervals %v, %v must be non-negative", ErrInvalidArgument, down, up)
	}
	return p.SetLimits(p.value-down, p.value+up)
}

// SetLimits sets the limits to [lower, upper]. Requires lower < upper; a
// bound on the wrong side of the current value is clamped to the value
// before storing, mirroring SetValue.
func (p *Parameter) SetLimits(lower, upper float64) error {
	if lower >= upper {
		return fmt.Errorf("%w: lower limit %v must be < upper limit %v", ErrInvalidBounds, lower, upper)
	}
	if lower > p.value {
		lower = p.value
	} else if upper < p.value {
		upper = p.value
	}
	p.limits = &Limits{Lower: lower, Upper: upper}
	return nil
}

// updateValue is the optimizer write-back path: value only, with limits
// widened where the written value falls outside them.
func (p *Parameter) updateValue(v float64) {
	p.value = v
	p.widenLimits()
}

func (p *Parameter) widenLimits() {
	if p.limits == nil {
		return
	}
	if p.value < p.limits.Lower {
		p.limits.Lower = p.value
	} else if p.value > p.limits.Upper {
		p.limits.Upper = p.value
	}
}

// Equal reports whether name, value and limits match. The fixed flag is not
// part of equality.
func (p *Parameter) Equal(o *Parameter) bool {
	if o == nil {
		return false
	}
	if p.name != o.name || p.value != o.value {
		return false
	}
	if (p.limits == nil) != (o.limits == nil) {
		return false
	}
	return p.limits == nil || *p.limits == *o.limits
}

// Copy returns an independent copy of the parameter.
func (p *Parameter) Copy() *Parameter {
	c := *p
	if p.limits != nil {
		l := *p.limits
		c.limits = &l
	}
	return &c
}

// String renders the parameter as a configuration-file line.
func (p *Parameter) String() string {
	switch {
	case p.fixed:
		return fmt.Sprintf("%s\t\t%s\tfixed", p.name, formatValue(p.value))
	case p.limits != nil:
		return fmt.Sprintf("%s\t\t%s\t%s,%s", p.name, formatValue(p.value),
			formatValue(p.limits.Lower), formatValue(p.limits.Upper))
	default:
		return fmt.Sprintf("%s\t\t%s", p.name, formatValue(p.value))
	}
}

// formatValue renders a float in its shortest exact form so that emitted
// files parse back to the same value.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
