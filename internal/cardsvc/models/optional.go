package models

// Optional marks a value as present or absent. The zero value is absent,
// which keeps "not supplied" apart from "supplied as the zero value".
type Optional[T any] struct {
	value   T
	present bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) IsPresent() bool {
	return o.present
}

func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

// MapOptional runs f on a present value and keeps absence untouched.
func MapOptional[T, U any](o Optional[T], f func(T) (U, error)) (Optional[U], error) {
	if !o.present {
		return None[U](), nil
	}
	u, err := f(o.value)
	if err != nil {
		return None[U](), err
	}
	return Some(u), nil
}
