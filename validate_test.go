package lens_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/lens"
	"github.com/bjaus/lens/lenstest"
)

func TestValidate_collects_every_failure(t *testing.T) {
	t.Parallel()

	name := lens.Query.Required("name")
	age := lens.Convert(lens.Query, lens.Int).Required("age")

	r := lenstest.NewRequest(t, "/?age=30")
	err := lens.Validate(r, name, age)
	lenstest.RequireMissing(t, err, "query", "name")
	assert.Equal(t, 30, lenstest.Get(t, age.Lens, r))

	var lf *lens.LensFailure
	require.ErrorAs(t, err, &lf)
	assert.True(t, lf.Has("query", "name"))
	assert.False(t, lf.Has("query", "age"))
}

func TestValidate_mixed_kinds_and_locations(t *testing.T) {
	t.Parallel()

	checks := []lens.Checker[*http.Request]{
		lens.Query.Required("q"),
		lens.Convert(lens.Query, lens.Int).Optional("page"),
		lens.Convert(lens.Header, lens.Bool).Required("X-Debug"),
		lens.CookieValue.Required("session"),
	}

	r := lenstest.NewRequest(t, "/?q=go&page=two")
	r.Header.Set("X-Debug", "yes")

	err := lens.Validate(r, checks...)
	var lf *lens.LensFailure
	require.ErrorAs(t, err, &lf)
	require.Len(t, lf.Failures, 3)

	assert.Equal(t, lens.Failure{Location: "query", Name: "page", Kind: lens.Invalid, Cause: lf.Failures[0].Cause}, lf.Failures[0])
	assert.Equal(t, "header", lf.Failures[1].Location)
	assert.Equal(t, lens.Invalid, lf.Failures[1].Kind)
	assert.Equal(t, lens.Failure{Location: "cookie", Name: "session", Kind: lens.Missing}, lf.Failures[2])

	assert.ErrorIs(t, err, lens.ErrMissing)
	assert.ErrorIs(t, err, lens.ErrInvalid)
}

func TestValidate_all_pass(t *testing.T) {
	t.Parallel()

	err := lens.Validate(lenstest.NewRequest(t, "/?q=1"), lens.Query.Required("q"))
	assert.NoError(t, err)
	assert.Nil(t, err)
}

type plainChecker struct{}

func (plainChecker) Meta() lens.Meta { return lens.Meta{Location: "custom", Name: "thing"} }

func (plainChecker) Check(*http.Request) error { return errors.New("boom") }

func TestValidate_foreign_errors_are_invalid(t *testing.T) {
	t.Parallel()

	err := lens.Validate(lenstest.NewRequest(t, "/"), lens.Checker[*http.Request](plainChecker{}))
	cause := lenstest.RequireInvalid(t, err, "custom", "thing")
	assert.EqualError(t, cause, "boom")
}

func TestValidator_logs_failures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	v := lens.NewValidator(logger,
		lens.Checker[*http.Request](lens.Query.Required("name")),
		lens.Convert(lens.Query, lens.Int).Required("age"),
	)

	err := v.Validate(context.Background(), lenstest.NewRequest(t, "/?age=x"))
	var lf *lens.LensFailure
	require.ErrorAs(t, err, &lf)
	assert.Len(t, lf.Failures, 2)

	out := buf.String()
	assert.Contains(t, out, "lens failure")
	assert.Contains(t, out, "name=name")
	assert.Contains(t, out, "kind=missing")
	assert.Contains(t, out, "name=age")
	assert.Contains(t, out, "kind=invalid")

	assert.NoError(t, v.Validate(context.Background(), lenstest.NewRequest(t, "/?age=1&name=a")))
}

func TestLens_concurrent_use(t *testing.T) {
	t.Parallel()

	page := lens.Convert(lens.Query, lens.Int).Required("page")
	base := lenstest.NewRequest(t, "/?page=1")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			out := page.Replace(i, base)
			got, err := page.Get(out)
			assert.NoError(t, err)
			assert.Equal(t, i, got)
		})
	}
	wg.Wait()
	assert.Equal(t, 1, lenstest.Get(t, page.Lens, base))
}
