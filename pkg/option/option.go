package option

// Option represents an optional value.
// It either contains a value or it does not.
//
// This interface is modeled after github.com/sagikazarmark/go-option.Option
type Option[T any] interface {
	// HasValue returns true if the Option contains a value.
	HasValue() bool

	// Value returns the value (or its default) stored in the Option.
	Value() T
}

type some[T any] struct {
	value T
}

func (o some[T]) HasValue() bool {
	return true
}

func (o some[T]) Value() T {
	return o.value
}

type none[T any] struct{}

func (none[T]) HasValue() bool {
	return false
}

func (none[T]) Value() T {
	var v T

	return v
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return some[T]{value: v}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return none[T]{}
}

// Get returns the value and whether the Option holds one.
// A nil Option is treated as empty.
func Get[T any](o Option[T]) (T, bool) {
	if o == nil || !o.HasValue() {
		var v T

		return v, false
	}

	return o.Value(), true
}
