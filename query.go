package lens

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Query addresses URL query parameters. Values are returned in the order they
// appear in the raw query; "?q" yields a single empty string while an absent
// name yields nothing. A value with a broken escape is an extraction error.
// Set appends name=value pairs; removal keeps every other pair in place.
var Query = NewBiDiSpec("query", getQuery, setQuery, removeQuery)

func getQuery(name string, r *http.Request) ([]string, error) {
	if r.URL == nil {
		return nil, nil
	}
	var values []string
	for pair := range strings.SplitSeq(r.URL.RawQuery, "&") {
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		if pair == "" || !queryKeyIs(rawKey, name) {
			continue
		}
		v, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", rawValue, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// queryKeyIs reports whether rawKey decodes to name. Keys with broken escapes
// match nothing.
func queryKeyIs(rawKey, name string) bool {
	key, err := url.QueryUnescape(rawKey)
	return err == nil && key == name
}

func setQuery(name string, values []string, r *http.Request) *http.Request {
	out := cloneRequest(r)
	var b strings.Builder
	b.WriteString(out.URL.RawQuery)
	for _, v := range values {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	out.URL.RawQuery = b.String()
	return out
}

func removeQuery(name string, r *http.Request) *http.Request {
	if r.URL == nil {
		return r
	}
	var kept []string
	removed := false
	for pair := range strings.SplitSeq(r.URL.RawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, _, _ := strings.Cut(pair, "=")
		if queryKeyIs(rawKey, name) {
			removed = true
			continue
		}
		kept = append(kept, pair)
	}
	if !removed {
		return r
	}
	out := cloneRequest(r)
	out.URL.RawQuery = strings.Join(kept, "&")
	return out
}

// cloneRequest returns a deep copy of r (headers, URL) sharing its context.
// A nil URL is replaced by an empty one so setters can write to it.
func cloneRequest(r *http.Request) *http.Request {
	out := r.Clone(r.Context())
	if out.URL == nil {
		out.URL = &url.URL{}
	}
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	return out
}
