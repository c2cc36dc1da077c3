package lens

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Cookies addresses request cookies as structured values. Get returns the
// cookies whose name equals the lens name exactly; Set adds each cookie under
// its own name.
var Cookies = NewBiDiSpec("cookie",
	func(name string, r *http.Request) ([]*http.Cookie, error) {
		return requestCookies(r, name), nil
	},
	func(_ string, values []*http.Cookie, r *http.Request) *http.Request {
		out := cloneRequest(r)
		for _, c := range values {
			out.AddCookie(c)
		}
		return out
	},
	removeCookie,
)

// CookieValue addresses request cookie values as plain strings, so cookies
// compose with the converters like any other location. Set percent-encodes
// bytes the cookie syntax forbids and Get decodes them, so any string
// survives a round trip. A value with a broken escape is an extraction error.
var CookieValue = NewBiDiSpec("cookie",
	func(name string, r *http.Request) ([]string, error) {
		cs := requestCookies(r, name)
		if len(cs) == 0 {
			return nil, nil
		}
		values := make([]string, len(cs))
		for i, c := range cs {
			v, err := url.PathUnescape(c.Value)
			if err != nil {
				return nil, fmt.Errorf("value %q: %w", c.Value, err)
			}
			values[i] = v
		}
		return values, nil
	},
	func(name string, values []string, r *http.Request) *http.Request {
		out := cloneRequest(r)
		for _, v := range values {
			out.AddCookie(&http.Cookie{Name: name, Value: url.PathEscape(v)})
		}
		return out
	},
	removeCookie,
)

// SetCookies addresses the Set-Cookie headers of a response.
var SetCookies = NewBiDiSpec("set-cookie",
	func(name string, r *http.Response) ([]*http.Cookie, error) {
		var out []*http.Cookie
		for _, c := range r.Cookies() {
			if c.Name == name {
				out = append(out, c)
			}
		}
		return out, nil
	},
	func(_ string, values []*http.Cookie, r *http.Response) *http.Response {
		out := cloneResponse(r)
		for _, c := range values {
			if v := c.String(); v != "" {
				out.Header.Add("Set-Cookie", v)
			}
		}
		return out
	},
	func(name string, r *http.Response) *http.Response {
		out := cloneResponse(r)
		out.Header.Del("Set-Cookie")
		for _, line := range r.Header.Values("Set-Cookie") {
			if c, err := http.ParseSetCookie(line); err == nil && c.Name == name {
				continue
			}
			out.Header.Add("Set-Cookie", line)
		}
		return out
	},
)

func requestCookies(r *http.Request, name string) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range r.Cookies() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func removeCookie(name string, r *http.Request) *http.Request {
	if len(requestCookies(r, name)) == 0 {
		return r
	}
	out := cloneRequest(r)
	out.Header.Del("Cookie")
	var kept []string
	for _, c := range r.Cookies() {
		if c.Name != name {
			kept = append(kept, c.Name+"="+c.Value)
		}
	}
	if len(kept) > 0 {
		out.Header.Set("Cookie", strings.Join(kept, "; "))
	}
	return out
}
