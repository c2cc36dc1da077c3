package lens

import "net/http"

// Path addresses a single path segment that a router has already matched.
// The carrier is the raw segment itself and the lens only converts it. Path
// specs are read-only: routers own path values, so no Set exists.
var Path = NewSpec("path", func(_ string, segment string) ([]string, error) {
	return []string{segment}, nil
})

// PathBinder returns the raw value of a named path segment for a request.
// chi.URLParam has this signature.
type PathBinder func(r *http.Request, name string) string

// PathFrom returns a read-only path spec over requests that looks segments up
// with bind. An empty segment counts as absent.
func PathFrom(bind PathBinder) Spec[*http.Request, string, string] {
	return NewSpec("path", func(name string, r *http.Request) ([]string, error) {
		if v := bind(r, name); v != "" {
			return []string{v}, nil
		}
		return nil, nil
	})
}

// RequestPath reads path values populated by http.ServeMux patterns.
var RequestPath = PathFrom((*http.Request).PathValue)
