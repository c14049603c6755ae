package chain

import "errors"

// ErrUnsupported reports that a chain family does not offer a capability.
// It is distinct from a supported call that returned no data.
var ErrUnsupported = errors.New("feature not supported on this chain")

type supportState uint8

const (
	stateUnsupported supportState = iota
	stateEmpty
	statePresent
)

// Support is the three-state outcome of an optional chain capability:
// the capability may be unsupported by the family, supported but empty,
// or supported with a value. Callers must branch on all three states
// rather than coalescing unsupported into empty.
type Support[T any] struct {
	state supportState
	value T
}

// SupportedValue returns a Support carrying a value.
func SupportedValue[T any](v T) Support[T] {
	return Support[T]{state: statePresent, value: v}
}

// SupportedEmpty returns a Support for a capability that is offered but
// produced no data.
func SupportedEmpty[T any]() Support[T] {
	return Support[T]{state: stateEmpty}
}

// NotSupported returns a Support for a capability the family does not offer.
func NotSupported[T any]() Support[T] {
	return Support[T]{state: stateUnsupported}
}

// Supported reports whether the capability is offered at all.
func (s Support[T]) Supported() bool {
	return s.state != stateUnsupported
}

// Value returns the carried value and whether one is present.
func (s Support[T]) Value() (T, bool) {
	return s.value, s.state == statePresent
}

// Unwrap flattens the three states into (value, present, error), where the
// only possible error is ErrUnsupported.
func (s Support[T]) Unwrap() (T, bool, error) {
	switch s.state {
	case statePresent:
		return s.value, true, nil
	case stateEmpty:
		var zero T
		return zero, false, nil
	default:
		var zero T
		return zero, false, ErrUnsupported
	}
}
