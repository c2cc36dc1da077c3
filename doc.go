// Package lens provides typed, bidirectional access to the parts of an HTTP
// message. A spec describes where values live (query, header, cookie, path,
// body, form) and how they convert; binding a spec to a name with a
// cardinality yields a lens:
//
//	page := lens.Convert(lens.Query, lens.Int).Required("page")
//	tags := lens.Query.Multi().Optional("tag")
//	id   := lens.Parse(lens.RequestPath, lens.UUID).Required("id")
//
//	n, err := page.Get(r)           // typed read
//	r2 := page.Set(2, r)            // copy of r with page=2 appended
//
// Specs and lenses are immutable values and safe for concurrent use. Set never
// modifies its carrier; it returns a clone.
//
// Reads fail with a *LensFailure whose Failures name the location, the field
// and the kind (Missing or Invalid). Conversions are strict: a boolean is only
// "true" or "false", and an unparseable number is never defaulted. Validate
// runs several lenses and collects every failure in one pass:
//
//	err := lens.Validate(r, name, age)
//
// Require wraps the same check as middleware that answers failures with an
// RFC 9457 problem response.
//
// Body and Form read through Request.GetBody. Incoming server requests have
// none, so make them Rewindable first; Require does this when one of its
// checks reads the body or form.
package lens
