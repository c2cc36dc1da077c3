package part

import "github.com/bjaus/lens"

// Field addresses decoded parts by form field name, in body order.
var Field = lens.NewSpec("multipart", func(name string, parts []*Part) ([]*Part, error) {
	var out []*Part
	for _, p := range parts {
		if p.FieldName == name {
			out = append(out, p)
		}
	}
	return out, nil
})

// FormValue addresses the text content of parts, so form fields compose with
// the lens converters:
//
//	age := lens.Parse(part.FormValue, lens.Int).Required("age")
var FormValue = lens.Map(Field, (*Part).Text)
