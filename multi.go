package lens

// MultiSpec binds a spec to every value under a name.
type MultiSpec[C, R, T any] struct {
	spec Spec[C, R, T]
}

// Multi returns the multi-valued form of s.
func (s Spec[C, R, T]) Multi() MultiSpec[C, R, T] { return MultiSpec[C, R, T]{spec: s} }

// Required returns a lens over all values. No values is Missing.
func (m MultiSpec[C, R, T]) Required(name string, opts ...Option) Lens[C, []T] {
	meta := newMeta(m.spec.location, name, true, opts)
	return Lens[C, []T]{meta: meta, get: func(carrier C) ([]T, error) {
		vs, err := m.spec.all(meta, carrier)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			return nil, missing(meta)
		}
		return vs, nil
	}}
}

// Optional returns a lens over all values. No values resolves to nil.
func (m MultiSpec[C, R, T]) Optional(name string, opts ...Option) Lens[C, []T] {
	meta := newMeta(m.spec.location, name, false, opts)
	return Lens[C, []T]{meta: meta, get: func(carrier C) ([]T, error) {
		return m.spec.all(meta, carrier)
	}}
}

// all converts every raw value. A single conversion failure fails the whole
// result.
func (s Spec[C, R, T]) all(meta Meta, carrier C) ([]T, error) {
	raw, err := s.raw(meta.Name, carrier)
	if err != nil {
		return nil, invalid(meta, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	vs := make([]T, len(raw))
	for i, r := range raw {
		v, err := s.in(r)
		if err != nil {
			return nil, invalid(meta, err)
		}
		vs[i] = v
	}
	return vs, nil
}

// BiDiMultiSpec binds a writable spec to every value under a name.
type BiDiMultiSpec[C, R, T any] struct {
	spec BiDiSpec[C, R, T]
}

// Multi returns the multi-valued form of s.
func (s BiDiSpec[C, R, T]) Multi() BiDiMultiSpec[C, R, T] { return BiDiMultiSpec[C, R, T]{spec: s} }

// Required returns a writable lens over all values.
func (m BiDiMultiSpec[C, R, T]) Required(name string, opts ...Option) BiDiLens[C, []T] {
	return m.bind(name, m.spec.Spec.Multi().Required(name, opts...))
}

// Optional returns a writable lens over all values.
func (m BiDiMultiSpec[C, R, T]) Optional(name string, opts ...Option) BiDiLens[C, []T] {
	return m.bind(name, m.spec.Spec.Multi().Optional(name, opts...))
}

func (m BiDiMultiSpec[C, R, T]) bind(name string, l Lens[C, []T]) BiDiLens[C, []T] {
	s := m.spec
	return BiDiLens[C, []T]{
		Lens: l,
		set: func(vs []T, carrier C) C {
			return s.write(name, vs, carrier)
		},
		clear: func(carrier C) C { return s.clear(name, carrier) },
	}
}
