package lens

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors matched by every failure of the corresponding kind.
var (
	ErrMissing = errors.New("missing")
	ErrInvalid = errors.New("invalid")
)

// Kind classifies a lens failure.
type Kind int

const (
	Missing Kind = iota + 1 // a required field had no raw values
	Invalid                 // a raw value was present but could not be converted
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	if k == Missing {
		return ErrMissing
	}
	return ErrInvalid
}

// Failure describes one unresolved field.
type Failure struct {
	Location string
	Name     string
	Kind     Kind
	Cause    error
}

// Error returns a message of the form `query "page" is invalid: <cause>`.
func (f Failure) Error() string {
	msg := fmt.Sprintf("%s %q is %s", f.Location, f.Name, f.Kind)
	if f.Cause != nil {
		msg += ": " + f.Cause.Error()
	}
	return msg
}

// Unwrap exposes the kind sentinel and the underlying cause.
func (f Failure) Unwrap() []error {
	if f.Cause == nil {
		return []error{f.Kind.sentinel()}
	}
	return []error{f.Kind.sentinel(), f.Cause}
}

// LensFailure is the error returned by lens reads and aggregate validation.
// It is data: callers inspect Failures rather than stopping at the first one.
//
//nolint:errname // mirrors the domain term
type LensFailure struct {
	Failures []Failure
}

func missing(m Meta) *LensFailure {
	return &LensFailure{Failures: []Failure{{Location: m.Location, Name: m.Name, Kind: Missing}}}
}

func invalid(m Meta, cause error) *LensFailure {
	return &LensFailure{Failures: []Failure{{Location: m.Location, Name: m.Name, Kind: Invalid, Cause: cause}}}
}

// Error joins the individual failure messages.
func (e *LensFailure) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap returns each failure so errors.Is and errors.As see all of them.
func (e *LensFailure) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// StatusCode reports 400: a lens failure is always a client input problem.
func (e *LensFailure) StatusCode() int { return http.StatusBadRequest }

// Has reports whether a failure exists for the given location and name.
func (e *LensFailure) Has(location, name string) bool {
	for _, f := range e.Failures {
		if f.Location == location && f.Name == name {
			return true
		}
	}
	return false
}

// Problem renders the failure as an RFC 9457 problem detail.
func (e *LensFailure) Problem() *ProblemDetail {
	errs := make([]ValidationError, len(e.Failures))
	for i, f := range e.Failures {
		msg := f.Kind.String()
		if f.Cause != nil {
			msg += ": " + f.Cause.Error()
		}
		errs[i] = ValidationError{
			Field:    f.Name,
			Location: f.Location,
			Message:  msg,
		}
	}
	return &ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(http.StatusBadRequest),
		Status: http.StatusBadRequest,
		Detail: e.Error(),
		Errors: errs,
	}
}

// merge appends the failures carried by err. Errors that are not lens
// failures are attributed to m as Invalid.
func (e *LensFailure) merge(m Meta, err error) {
	var lf *LensFailure
	if errors.As(err, &lf) {
		e.Failures = append(e.Failures, lf.Failures...)
		return
	}
	e.Failures = append(e.Failures, Failure{Location: m.Location, Name: m.Name, Kind: Invalid, Cause: err})
}

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is an RFC 9457 problem details response.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string            `json:"type,omitempty"`
	Title    string            `json:"title,omitempty"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// ValidationError describes a single field failure.
type ValidationError struct {
	Field    string `json:"field"`
	Location string `json:"in,omitempty"`
	Message  string `json:"message"`
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
