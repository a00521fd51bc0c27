// Package cut provides value ranges used for event and track selection.
package cut

import (
	"cmp"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Range selects values inside an interval with optional lower and upper
// limits. Both limits are exclusive. A negated range selects values outside
// the interval; values sitting exactly on a limit are rejected by both the
// range and its negation.
type Range[T cmp.Ordered] struct {
	limits [2]T
	has    [2]bool
	negate bool
}

func NewRange[T cmp.Ordered](min, max T) Range[T] {
	var r Range[T]
	r.SetLimits(min, max)
	return r
}

func NewLimit[T cmp.Ordered](limit T, isUpper bool) Range[T] {
	var r Range[T]
	r.SetLimit(limit, isUpper)
	return r
}

func (r *Range[T]) SetLimits(min, max T) {
	r.limits = [2]T{min, max}
	r.has = [2]bool{true, true}
}

func (r *Range[T]) SetLimit(value T, isUpper bool) {
	bin := side(isUpper)
	r.limits[bin] = value
	r.has[bin] = true
}

func (r *Range[T]) UnsetLimit(isUpper bool) {
	r.has[side(isUpper)] = false
}

func (r *Range[T]) UnsetLimits() {
	r.has = [2]bool{}
}

func (r *Range[T]) Negate()      { r.negate = true }
func (r *Range[T]) SetPositive() { r.negate = false }

func (r Range[T]) IsNegated() bool { return r.negate }

// Limits returns both limit values and whether each of them is set.
func (r Range[T]) Limits() (low, high T, hasLow, hasHigh bool) {
	return r.limits[0], r.limits[1], r.has[0], r.has[1]
}

func (r Range[T]) IsInRange(value T) bool {
	low, high := r.limits[0], r.limits[1]
	switch {
	case r.has[0] && r.has[1]:
		if r.negate {
			return value < low || value > high
		}
		return value > low && value < high
	case r.has[1]:
		if r.negate {
			return value > high
		}
		return value < high
	case r.has[0]:
		if r.negate {
			return value < low
		}
		return value > low
	}
	return true
}

func (r Range[T]) String() string {
	var s string
	switch {
	case r.has[0] && r.has[1]:
		s = fmt.Sprintf("(%v, %v)", r.limits[0], r.limits[1])
	case r.has[1]:
		s = fmt.Sprintf("(-inf, %v)", r.limits[1])
	case r.has[0]:
		s = fmt.Sprintf("(%v, +inf)", r.limits[0])
	default:
		s = "(-inf, +inf)"
	}
	if r.negate {
		s = "!" + s
	}
	return s
}

type rangeYAML[T cmp.Ordered] struct {
	Min    *T   `yaml:"min,omitempty"`
	Max    *T   `yaml:"max,omitempty"`
	Negate bool `yaml:"negate,omitempty"`
}

func (r *Range[T]) UnmarshalYAML(node *yaml.Node) error {
	var raw rangeYAML[T]
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*r = Range[T]{negate: raw.Negate}
	if raw.Min != nil {
		r.SetLimit(*raw.Min, false)
	}
	if raw.Max != nil {
		r.SetLimit(*raw.Max, true)
	}
	if raw.Min != nil && raw.Max != nil && !(*raw.Min < *raw.Max) {
		return fmt.Errorf("cut: lower limit %v not below upper limit %v (line %d)", *raw.Min, *raw.Max, node.Line)
	}
	return nil
}

func (r Range[T]) MarshalYAML() (interface{}, error) {
	var raw rangeYAML[T]
	if r.has[0] {
		low := r.limits[0]
		raw.Min = &low
	}
	if r.has[1] {
		high := r.limits[1]
		raw.Max = &high
	}
	raw.Negate = r.negate
	return raw, nil
}

func side(isUpper bool) int {
	if isUpper {
		return 1
	}
	return 0
}
