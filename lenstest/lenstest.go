// Package lenstest provides test helpers for code built on lens.
package lenstest

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjaus/lens"
)

// NewRequest returns a GET request for target. Bodies, when given, are
// rewindable so lenses can read them repeatedly.
func NewRequest(t testing.TB, target string, body ...string) *http.Request {
	t.Helper()
	if len(body) == 0 {
		return httptest.NewRequest(http.MethodGet, target, nil)
	}
	content := strings.Join(body, "")
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(content))
	r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}
	return r
}

// RequireFailure asserts that err is a *LensFailure with exactly one failure
// of the given kind for location and name, and returns that failure.
func RequireFailure(t testing.TB, err error, kind lens.Kind, location, name string) lens.Failure {
	t.Helper()
	var lf *lens.LensFailure
	require.ErrorAs(t, err, &lf)
	require.Len(t, lf.Failures, 1, "failures: %v", lf)
	f := lf.Failures[0]
	require.Equal(t, kind, f.Kind, "kind of %v", f)
	require.Equal(t, location, f.Location)
	require.Equal(t, name, f.Name)
	return f
}

// RequireMissing asserts a single Missing failure.
func RequireMissing(t testing.TB, err error, location, name string) {
	t.Helper()
	RequireFailure(t, err, lens.Missing, location, name)
	require.True(t, errors.Is(err, lens.ErrMissing))
}

// RequireInvalid asserts a single Invalid failure and returns its cause.
func RequireInvalid(t testing.TB, err error, location, name string) error {
	t.Helper()
	f := RequireFailure(t, err, lens.Invalid, location, name)
	require.True(t, errors.Is(err, lens.ErrInvalid))
	return f.Cause
}

// Get reads l from carrier and fails the test on error.
func Get[C, T any](t testing.TB, l lens.Lens[C, T], carrier C) T {
	t.Helper()
	v, err := l.Get(carrier)
	require.NoError(t, err, "%s %q", l.Meta().Location, l.Meta().Name)
	return v
}
