package rules

import (
	"errors"
	"fmt"
)

// ErrUnresolved is returned when the selected value source has no value.
var ErrUnresolved = errors.New("field unresolved")

// Resolve picks the value of a response field: the literal for custom, the
// auto value for auto and the inherited value otherwise. An unknown mode
// inherits.
func Resolve[T any](f Field[T], inherited, auto T) (T, error) {
	switch f.Mode {
	case ModeCustom:
		if f.Value == nil {
			var zero T
			return zero, fmt.Errorf("%w: custom mode without a value", ErrUnresolved)
		}
		return *f.Value, nil
	case ModeAuto:
		return auto, nil
	default:
		return inherited, nil
	}
}

// Source is a candidate value that may be unavailable, such as the MAC
// address of a frame captured without an Ethernet header.
type Source[T any] struct {
	Value T
	OK    bool
}

// Some wraps an available value.
func Some[T any](v T) Source[T] {
	return Source[T]{Value: v, OK: true}
}

// None is an unavailable value.
func None[T any]() Source[T] {
	return Source[T]{}
}

// ResolveOptional is Resolve for sources that may be missing. Choosing a
// missing source is an error.
func ResolveOptional[T any](f Field[T], inherited, auto Source[T]) (T, error) {
	var zero T
	switch f.Mode {
	case ModeCustom:
		return Resolve(f, zero, zero)
	case ModeAuto:
		if !auto.OK {
			return zero, fmt.Errorf("%w: no local value available", ErrUnresolved)
		}
		return auto.Value, nil
	default:
		if !inherited.OK {
			return zero, fmt.Errorf("%w: query carries no value to inherit", ErrUnresolved)
		}
		return inherited.Value, nil
	}
}
