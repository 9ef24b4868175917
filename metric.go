package bluechip

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Metric is a derived figure that may be unknown.
//
// A Metric is in exactly one of three states: known (it carries a value),
// unavailable (ErrDataUnavailable, some market data is missing) or undefined
// (ErrUndefinedRatio, a ratio over a zero denominator). The zero Metric is
// unavailable.
type Metric[T any] struct {
	value T
	err   error
	set   bool
}

// Known returns a known Metric.
func Known[T any](v T) Metric[T] { return Metric[T]{value: v, set: true} }

// Unavailable returns a Metric missing market data.
func Unavailable[T any]() Metric[T] { return Metric[T]{err: ErrDataUnavailable} }

// Undefined returns a ratio Metric whose denominator was zero.
func Undefined[T any]() Metric[T] { return Metric[T]{err: ErrUndefinedRatio} }

// Get returns the value, or ErrDataUnavailable or ErrUndefinedRatio.
func (m Metric[T]) Get() (T, error) {
	if !m.set {
		var zero T
		return zero, m.Err()
	}
	return m.value, nil
}

// Value returns the value and whether it is known.
func (m Metric[T]) Value() (T, bool) { return m.value, m.set }

// Or returns the value if known, def otherwise.
func (m Metric[T]) Or(def T) T {
	if !m.set {
		return def
	}
	return m.value
}

// Err returns nil for a known metric.
func (m Metric[T]) Err() error {
	if m.set {
		return nil
	}
	if m.err == nil {
		return ErrDataUnavailable
	}
	return m.err
}

func (m Metric[T]) IsKnown() bool       { return m.set }
func (m Metric[T]) IsUnavailable() bool { return errors.Is(m.Err(), ErrDataUnavailable) }
func (m Metric[T]) IsUndefined() bool   { return errors.Is(m.Err(), ErrUndefinedRatio) }

// String prints the value, "unknown" for missing data and "n/a" for undefined ratios.
func (m Metric[T]) String() string {
	switch {
	case m.set:
		return fmt.Sprint(m.value)
	case m.IsUndefined():
		return "n/a"
	default:
		return "unknown"
	}
}

// SignedString is like String, but uses the value's SignedString if it has one.
func (m Metric[T]) SignedString() string {
	if s, ok := any(m.value).(interface{ SignedString() string }); ok && m.set {
		return s.SignedString()
	}
	return m.String()
}

func (m Metric[T]) MarshalJSON() ([]byte, error) {
	if m.set {
		return json.Marshal(m.value)
	}
	var w jsonObjectWriter
	if m.IsUndefined() {
		w.Append("status", "undefined")
	} else {
		w.Append("status", "unavailable")
	}
	return w.MarshalJSON()
}

// then applies f to a known metric and propagates the error otherwise.
func then[T, U any](m Metric[T], f func(T) Metric[U]) Metric[U] {
	v, err := m.Get()
	if err != nil {
		return Metric[U]{err: err}
	}
	return f(v)
}

// both applies f when both metrics are known. Missing data wins over an
// undefined ratio.
func both[T, U, V any](a Metric[T], b Metric[U], f func(T, U) Metric[V]) Metric[V] {
	av, aerr := a.Get()
	bv, berr := b.Get()
	switch {
	case errors.Is(aerr, ErrDataUnavailable), errors.Is(berr, ErrDataUnavailable):
		return Unavailable[V]()
	case aerr != nil:
		return Metric[V]{err: aerr}
	case berr != nil:
		return Metric[V]{err: berr}
	}
	return f(av, bv)
}
