package lens

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrBodyNotRewindable is the extraction error for a request body that has no
// GetBody func. Reading such a body would consume the caller's request; pass
// it through Rewindable first.
var ErrBodyNotRewindable = errors.New("lens: request body is not rewindable")

// Body addresses the whole request body as one string. Reads go through
// GetBody and never touch r.Body; a non-empty body without GetBody reads as
// Invalid with ErrBodyNotRewindable. Incoming server requests need Rewindable
// (Require applies it for body and form checks). An empty body has no value,
// so a required body lens reports Missing. The lens name only labels
// failures. Set replaces the body; when several values are written the last
// one wins.
var Body = NewBiDiSpec("body",
	func(_ string, r *http.Request) ([]string, error) {
		b, err := readBody(r)
		if err != nil || len(b) == 0 {
			return nil, err
		}
		return []string{string(b)}, nil
	},
	func(_ string, values []string, r *http.Request) *http.Request {
		return withBody(r, values[len(values)-1])
	},
	func(_ string, r *http.Request) *http.Request {
		return withBody(r, "")
	},
)

// Form addresses fields of an application/x-www-form-urlencoded body. It
// reads the body the way Body does. Set appends encoded pairs to the body;
// a body that cannot be read is replaced by the new pairs.
var Form = NewBiDiSpec("form",
	func(name string, r *http.Request) ([]string, error) {
		values, err := formValues(r)
		if err != nil {
			return nil, err
		}
		return values[name], nil
	},
	func(name string, values []string, r *http.Request) *http.Request {
		b, _ := readBody(r) // an unreadable body is replaced
		var sb strings.Builder
		sb.Write(b)
		for _, v := range values {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(name))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(v))
		}
		out := withBody(r, sb.String())
		if out.Header.Get("Content-Type") == "" {
			out.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		return out
	},
	func(name string, r *http.Request) *http.Request {
		values, err := formValues(r)
		if err != nil {
			return r
		}
		if _, ok := values[name]; !ok {
			return r
		}
		values.Del(name)
		return withBody(r, values.Encode())
	},
)

func formValues(r *http.Request) (url.Values, error) {
	b, err := readBody(r)
	if err != nil {
		return nil, err
	}
	return url.ParseQuery(string(b))
}

// Rewindable returns r when its body can be read repeatedly, and otherwise a
// copy carrying the buffered body with GetBody set. Buffering consumes and
// closes r.Body, so r itself must not be read afterwards.
func Rewindable(r *http.Request) (*http.Request, error) {
	if r.GetBody != nil || r.Body == nil || r.Body == http.NoBody {
		return r, nil
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("buffer body: %w", err)
	}
	if err := r.Body.Close(); err != nil {
		return nil, fmt.Errorf("buffer body: %w", err)
	}
	return withBody(r, string(b)), nil
}

// readBody returns a fresh copy of the request body from GetBody.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	if r.GetBody == nil {
		return nil, ErrBodyNotRewindable
	}
	rc, err := r.GetBody()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// withBody returns a copy of r carrying body.
func withBody(r *http.Request, body string) *http.Request {
	out := cloneRequest(r)
	if body == "" {
		out.Body = http.NoBody
		out.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
		out.ContentLength = 0
		return out
	}
	out.Body = io.NopCloser(strings.NewReader(body))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}
	out.ContentLength = int64(len(body))
	return out
}
