package lens_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/lens"
	"github.com/bjaus/lens/lenstest"
)

func TestHeader_case_insensitive(t *testing.T) {
	t.Parallel()

	set := lens.Header.Required("Content-Type")
	out := set.Set("text/plain", lenstest.NewRequest(t, "/"))

	for _, name := range []string{"content-type", "CONTENT-TYPE", "Content-Type"} {
		got := lenstest.Get(t, lens.Header.Multi().Required(name).Lens, out)
		assert.Equal(t, []string{"text/plain"}, got, name)
	}
}

func TestHeader_non_canonical_keys(t *testing.T) {
	t.Parallel()

	r := lenstest.NewRequest(t, "/")
	r.Header["x-trace"] = []string{"raw"}

	got := lenstest.Get(t, lens.Header.Required("X-Trace").Lens, r)
	assert.Equal(t, "raw", got)

	out := lens.Header.Required("X-Trace").Replace("new", r)
	assert.Equal(t, []string{"new"}, lenstest.Get(t, lens.Header.Multi().Required("x-trace").Lens, out))
	assert.Equal(t, []string{"raw"}, r.Header["x-trace"])
}

func TestHeader_mixed_case_keys_read_in_stable_order(t *testing.T) {
	t.Parallel()

	r := lenstest.NewRequest(t, "/")
	r.Header["X-Trace"] = []string{"canonical"}
	r.Header["x-trace"] = []string{"lower"}
	r.Header["x-TRACE"] = []string{"upper"}
	r.Header["X-TRACE"] = []string{"shout"}

	all := lens.Header.Multi().Required("x-trace")
	for range 20 {
		assert.Equal(t, []string{"canonical", "shout", "upper", "lower"}, lenstest.Get(t, all.Lens, r))
	}
}

func TestHeader_set_appends_in_order(t *testing.T) {
	t.Parallel()

	h := lens.Header.Multi().Optional("Accept")
	r := lenstest.NewRequest(t, "/")
	r.Header.Add("Accept", "text/html")

	out := h.Set([]string{"application/json", "text/plain"}, r)
	assert.Equal(t, []string{"text/html", "application/json", "text/plain"}, lenstest.Get(t, h.Lens, out))
	assert.Equal(t, []string{"text/html"}, r.Header.Values("Accept"))
}

func TestResponseHeader(t *testing.T) {
	t.Parallel()

	resp := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}}
	retry := lens.Convert(lens.ResponseHeader, lens.Int).Required("Retry-After")

	out := retry.Set(30, resp)
	assert.Equal(t, 30, lenstest.Get(t, retry.Lens, out))
	assert.Empty(t, resp.Header)

	_, err := retry.Get(resp)
	lenstest.RequireMissing(t, err, "header", "Retry-After")
}

func TestContentType(t *testing.T) {
	t.Parallel()

	r := lenstest.NewRequest(t, "/")
	got, err := lens.ContentType.Get(r)
	require.NoError(t, err)
	assert.Nil(t, got)

	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	got, err = lens.ContentType.Get(r)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "application/json", got.Value)
	assert.Equal(t, map[string]string{"charset": "utf-8"}, got.Params)

	r.Header.Set("Content-Type", "/;;")
	_, err = lens.ContentType.Get(r)
	lenstest.RequireInvalid(t, err, "header", "Content-Type")

	out := lens.ContentType.Replace(&lens.MediaType{Value: "text/csv"}, r)
	assert.Equal(t, "text/csv", out.Header.Get("Content-Type"))
}
