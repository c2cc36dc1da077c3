package lens

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
)

// Middleware is the standard middleware signature compatible with the entire
// Go middleware ecosystem.
type Middleware func(next http.Handler) http.Handler

// Require returns middleware that validates every check against the incoming
// request. When any check fails the request is rejected with a 400
// application/problem+json response listing every failing field, and next is
// not called. When a check reads the body or form, the body is made
// Rewindable first and next receives that request. A nil logger disables
// failure logging.
func Require(logger *slog.Logger, checks ...Checker[*http.Request]) Middleware {
	v := NewValidator(logger, checks...)
	rewind := slices.ContainsFunc(checks, readsBody)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rewind {
				var err error
				if r, err = Rewindable(r); err != nil {
					WriteError(w, &ProblemDetail{
						Type:   "about:blank",
						Title:  http.StatusText(http.StatusBadRequest),
						Status: http.StatusBadRequest,
						Detail: err.Error(),
					})
					return
				}
			}
			if err := v.Validate(r.Context(), r); err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func readsBody(c Checker[*http.Request]) bool {
	loc := c.Meta().Location
	return loc == "body" || loc == "form"
}

// WriteError writes err as an RFC 9457 problem details response. Lens
// failures list their fields; other errors use their StatusCoder status or 500.
func WriteError(w http.ResponseWriter, err error) {
	var (
		problem *ProblemDetail
		lf      *LensFailure
	)
	switch {
	case errors.As(err, &lf):
		problem = lf.Problem()
	case errors.As(err, &problem):
	default:
		status := ErrorStatus(err)
		problem = &ProblemDetail{
			Type:   "about:blank",
			Title:  http.StatusText(status),
			Status: status,
			Detail: err.Error(),
		}
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(problem)
}
