package lens

// Meta describes a bound lens.
type Meta struct {
	Location    string
	Name        string
	Description string
	Required    bool
}

// Option configures a bound lens.
type Option func(*Meta)

// WithDescription attaches a human readable description to a lens.
func WithDescription(desc string) Option {
	return func(m *Meta) {
		m.Description = desc
	}
}

func newMeta(location, name string, required bool, opts []Option) Meta {
	m := Meta{Location: location, Name: name, Required: required}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Lens reads a typed value from a carrier.
type Lens[C, T any] struct {
	meta Meta
	get  func(C) (T, error)
}

// Get extracts the value from carrier. A non-nil error is a *LensFailure.
func (l Lens[C, T]) Get(carrier C) (T, error) { return l.get(carrier) }

// Meta returns the lens description.
func (l Lens[C, T]) Meta() Meta { return l.meta }

// Check reports only whether the value resolves. It lets a Lens take part in
// aggregate validation.
func (l Lens[C, T]) Check(carrier C) error {
	_, err := l.get(carrier)
	return err
}

// BiDiLens reads and writes a typed value.
type BiDiLens[C, T any] struct {
	Lens[C, T]
	set   func(T, C) C
	clear func(C) C
}

// Set returns a copy of carrier with v appended under the lens name. Existing
// occurrences are kept.
func (l BiDiLens[C, T]) Set(v T, carrier C) C { return l.set(v, carrier) }

// Replace returns a copy of carrier where v is the only value under the lens
// name.
func (l BiDiLens[C, T]) Replace(v T, carrier C) C { return l.set(v, l.clear(carrier)) }

// Required binds s to name. Get fails with Missing when no raw value exists
// and with Invalid when the first value does not convert.
func (s Spec[C, R, T]) Required(name string, opts ...Option) Lens[C, T] {
	meta := newMeta(s.location, name, true, opts)
	return Lens[C, T]{meta: meta, get: func(carrier C) (T, error) {
		var zero T
		v, ok, err := s.first(meta, carrier)
		if err != nil {
			return zero, err
		}
		if !ok {
			return zero, missing(meta)
		}
		return v, nil
	}}
}

// Optional binds s to name. An absent value resolves to nil; a present value
// that does not convert is still Invalid.
func (s Spec[C, R, T]) Optional(name string, opts ...Option) Lens[C, *T] {
	meta := newMeta(s.location, name, false, opts)
	return Lens[C, *T]{meta: meta, get: func(carrier C) (*T, error) {
		v, ok, err := s.first(meta, carrier)
		if err != nil || !ok {
			return nil, err
		}
		return &v, nil
	}}
}

// first converts the first raw value for meta.Name. ok is false when there is
// none.
func (s Spec[C, R, T]) first(meta Meta, carrier C) (v T, ok bool, err error) {
	raw, err := s.raw(meta.Name, carrier)
	if err != nil {
		return v, false, invalid(meta, err)
	}
	if len(raw) == 0 {
		return v, false, nil
	}
	v, err = s.in(raw[0])
	if err != nil {
		return v, false, invalid(meta, err)
	}
	return v, true, nil
}

// Required binds s to name with write support.
func (s BiDiSpec[C, R, T]) Required(name string, opts ...Option) BiDiLens[C, T] {
	return BiDiLens[C, T]{
		Lens: s.Spec.Required(name, opts...),
		set: func(v T, carrier C) C {
			return s.write(name, []T{v}, carrier)
		},
		clear: func(carrier C) C { return s.clear(name, carrier) },
	}
}

// Optional binds s to name with write support. Setting nil writes nothing.
func (s BiDiSpec[C, R, T]) Optional(name string, opts ...Option) BiDiLens[C, *T] {
	return BiDiLens[C, *T]{
		Lens: s.Spec.Optional(name, opts...),
		set: func(v *T, carrier C) C {
			if v == nil {
				return carrier
			}
			return s.write(name, []T{*v}, carrier)
		},
		clear: func(carrier C) C { return s.clear(name, carrier) },
	}
}
