package catalog

// Fallback carries the result of a secondary query that must not fail the
// page. When the query failed, Value holds the default and Err the cause.
type Fallback[T any] struct {
	Value T
	Err   error
}

// NewFallback keeps value on success and substitutes def when err is set.
func NewFallback[T any](value T, err error, def T) Fallback[T] {
	if err != nil {
		return Fallback[T]{Value: def, Err: err}
	}
	return Fallback[T]{Value: value}
}

// Degraded reports whether the default was substituted.
func (f Fallback[T]) Degraded() bool {
	return f.Err != nil
}
