// Package options provides generic functional options, used by the store
// to configure compression codecs, save strategies and thresholds.
package options

// Option configures one value of type T. Store constructors accept a
// variadic list of these and apply them in order.
type Option[T any] interface {
	apply(T) error
}

// Func wraps a plain function as an Option for any type T.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates an option from a function that can fail, for settings that
// need validation (compression types, size thresholds).
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// Apply runs opts against target in order, stopping at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// NoError creates an option from a function that cannot fail, such as
// setting a logger.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}
