package lens

import (
	"mime"
	"net/http"
	"net/textproto"
	"slices"
	"strings"
)

// Header addresses request headers. Lookup ignores case; values are returned
// in declaration order. Set appends one header line per value.
var Header = headerSpec(
	func(r *http.Request) http.Header { return r.Header },
	func(r *http.Request, fn func(http.Header)) *http.Request {
		out := cloneRequest(r)
		fn(out.Header)
		return out
	},
)

// ResponseHeader addresses response headers with the same rules as Header.
var ResponseHeader = headerSpec(
	func(r *http.Response) http.Header { return r.Header },
	func(r *http.Response, fn func(http.Header)) *http.Response {
		out := cloneResponse(r)
		fn(out.Header)
		return out
	},
)

func headerSpec[C any](header func(C) http.Header, edit func(C, func(http.Header)) C) BiDiSpec[C, string, string] {
	return NewBiDiSpec("header",
		func(name string, c C) ([]string, error) {
			return headerValues(header(c), name), nil
		},
		func(name string, values []string, c C) C {
			return edit(c, func(h http.Header) {
				for _, v := range values {
					h.Add(name, v)
				}
			})
		},
		func(name string, c C) C {
			if len(headerValues(header(c), name)) == 0 {
				return c
			}
			return edit(c, func(h http.Header) {
				for k := range h {
					if strings.EqualFold(k, name) {
						delete(h, k)
					}
				}
			})
		},
	)
}

// headerValues collects the values of every key equal to name under case
// folding. The canonical key comes first, so headers written through
// http.Header keep their order.
func headerValues(h http.Header, name string) []string {
	canonical := textproto.CanonicalMIMEHeaderKey(name)
	values := append([]string(nil), h[canonical]...)
	var others []string
	for k := range h {
		if k != canonical && strings.EqualFold(k, name) {
			others = append(others, k)
		}
	}
	slices.Sort(others)
	for _, k := range others {
		values = append(values, h[k]...)
	}
	return values
}

// cloneResponse copies r with its own header map. The body is shared.
func cloneResponse(r *http.Response) *http.Response {
	out := *r
	out.Header = r.Header.Clone()
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	return &out
}

// MediaType is a parsed Content-Type value.
type MediaType struct {
	Value  string
	Params map[string]string
}

func (m MediaType) String() string { return mime.FormatMediaType(m.Value, m.Params) }

// ParseMediaType parses a Content-Type header value.
func ParseMediaType(s string) (MediaType, error) {
	v, params, err := mime.ParseMediaType(s)
	if err != nil {
		return MediaType{}, err
	}
	return MediaType{Value: v, Params: params}, nil
}

// ContentType reads and writes the request Content-Type header.
var ContentType = BiMap(Header, ParseMediaType, MediaType.String).Optional("Content-Type")
