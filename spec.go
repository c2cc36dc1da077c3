package lens

// Getter extracts the raw values stored under name in a carrier. An error
// means the carrier could not be read at all and is reported as Invalid.
type Getter[C, R any] func(name string, carrier C) ([]R, error)

// Setter returns a copy of carrier with values appended under name.
type Setter[C, R any] func(name string, values []R, carrier C) C

// Remover returns a copy of carrier with every value under name removed.
type Remover[C any] func(name string, carrier C) C

// Spec is a reusable, read-only template for locating values of type T in a
// carrier C whose raw representation is R. Specs are immutable: Map and the
// cardinality methods build new values and leave the receiver untouched.
type Spec[C, R, T any] struct {
	location string
	get      Getter[C, R]
	in       func(R) (T, error)
}

// NewSpec returns a read-only spec for a location.
func NewSpec[C, R any](location string, get Getter[C, R]) Spec[C, R, R] {
	return Spec[C, R, R]{location: location, get: get, in: identity[R]}
}

// Location returns the name of the carrier location the spec addresses.
func (s Spec[C, R, T]) Location() string { return s.location }

// Map chains fn onto the conversion of s.
func Map[C, R, T, U any](s Spec[C, R, T], fn func(T) (U, error)) Spec[C, R, U] {
	return Spec[C, R, U]{location: s.location, get: s.get, in: chain(s.in, fn)}
}

// Parse converts the string values of s with conv.
func Parse[C, R, T any](s Spec[C, R, string], conv Converter[T]) Spec[C, R, T] {
	return Map(s, conv.Parse)
}

// raw returns the raw values for name, or the getter's error.
func (s Spec[C, R, T]) raw(name string, carrier C) ([]R, error) {
	return s.get(name, carrier)
}

// BiDiSpec is a Spec that can also write values back into a carrier.
type BiDiSpec[C, R, T any] struct {
	Spec[C, R, T]
	set    Setter[C, R]
	remove Remover[C]
	out    func(T) R
}

// NewBiDiSpec returns a readable and writable spec for a location. A nil
// remove makes Replace behave like Set.
func NewBiDiSpec[C, R any](location string, get Getter[C, R], set Setter[C, R], remove Remover[C]) BiDiSpec[C, R, R] {
	return BiDiSpec[C, R, R]{
		Spec:   NewSpec(location, get),
		set:    set,
		remove: remove,
		out:    func(r R) R { return r },
	}
}

// BiMap chains in onto the read conversion of s and out onto its write
// conversion.
func BiMap[C, R, T, U any](s BiDiSpec[C, R, T], in func(T) (U, error), out func(U) T) BiDiSpec[C, R, U] {
	prev := s.out
	return BiDiSpec[C, R, U]{
		Spec:   Map(s.Spec, in),
		set:    s.set,
		remove: s.remove,
		out:    func(u U) R { return prev(out(u)) },
	}
}

// Convert converts the string values of s with conv in both directions.
func Convert[C, R, T any](s BiDiSpec[C, R, string], conv Converter[T]) BiDiSpec[C, R, T] {
	return BiMap(s, conv.Parse, conv.Format)
}

// write folds values into a copy of carrier.
func (s BiDiSpec[C, R, T]) write(name string, values []T, carrier C) C {
	if len(values) == 0 {
		return carrier
	}
	raw := make([]R, len(values))
	for i, v := range values {
		raw[i] = s.out(v)
	}
	return s.set(name, raw, carrier)
}

// clear drops every occurrence of name.
func (s BiDiSpec[C, R, T]) clear(name string, carrier C) C {
	if s.remove == nil {
		return carrier
	}
	return s.remove(name, carrier)
}

func identity[T any](v T) (T, error) { return v, nil }

func chain[A, B, D any](first func(A) (B, error), next func(B) (D, error)) func(A) (D, error) {
	return func(a A) (D, error) {
		b, err := first(a)
		if err != nil {
			var zero D
			return zero, err
		}
		return next(b)
	}
}
