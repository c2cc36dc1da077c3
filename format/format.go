// Package format bridges message bodies to document trees and Go values.
//
// A Format is a pluggable tree backend (JSON via encoding/json, YAML via
// gopkg.in/yaml.v3). Bridge maps any string spec, usually lens.Body, through
// the backend so a parsed document is just another lens target:
//
//	doc := format.Bridge(lens.Body, format.JSON).Required("payload")
//	node, err := doc.Get(r)
package format

import (
	"errors"
	"fmt"

	"github.com/bjaus/lens"
)

// ErrMalformed is wrapped by every parse failure of a Format.
var ErrMalformed = errors.New("malformed document")

// Field is one member of an object node.
type Field[N any] struct {
	Key   string
	Value N
}

// F is shorthand for building an object field.
func F[N any](key string, value N) Field[N] { return Field[N]{Key: key, Value: value} }

// Format is a document tree backend with node type N.
type Format[N any] interface {
	// Parse fails with an error wrapping ErrMalformed on malformed input.
	Parse(s string) (N, error)
	Compact(n N) (string, error)
	Pretty(n N) (string, error)

	String(s string) N
	Int(n int64) N
	Float(f float64) N
	Bool(b bool) N
	Null() N
	Array(items ...N) N
	Object(fields ...Field[N]) N
}

// Bridge maps the string values of s to document nodes. Reads parse; writes
// serialize compactly. Set panics if a node cannot be serialized, which only
// happens for nodes that were not built by f.
func Bridge[C, R, N any](s lens.BiDiSpec[C, R, string], f Format[N]) lens.BiDiSpec[C, R, N] {
	return lens.BiMap(s, f.Parse, func(n N) string {
		out, err := f.Compact(n)
		if err != nil {
			panic(fmt.Sprintf("format: serialize node: %v", err))
		}
		return out
	})
}

// ParseOnly maps the string values of a read-only spec to document nodes.
func ParseOnly[C, R, N any](s lens.Spec[C, R, string], f Format[N]) lens.Spec[C, R, N] {
	return lens.Map(s, f.Parse)
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}
