package format_test

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/lens"
	"github.com/bjaus/lens/format"
	"github.com/bjaus/lens/lenstest"
)

func TestJSON_bridge(t *testing.T) {
	t.Parallel()

	doc := format.Bridge(lens.Body, format.JSON).Required("payload")

	t.Run("parse", func(t *testing.T) {
		t.Parallel()
		r := lenstest.NewRequest(t, "/", `{"name":"ada","age":36,"tags":["a","b"]}`)
		got := lenstest.Get(t, doc.Lens, r)
		assert.Equal(t, map[string]any{
			"name": "ada",
			"age":  json.Number("36"),
			"tags": []any{"a", "b"},
		}, got)
	})

	t.Run("malformed is invalid", func(t *testing.T) {
		t.Parallel()
		for _, body := range []string{`{"name":`, `{} {}`, `nope`} {
			_, err := doc.Get(lenstest.NewRequest(t, "/", body))
			cause := lenstest.RequireInvalid(t, err, "body", "payload")
			assert.ErrorIs(t, cause, format.ErrMalformed, body)
		}
	})

	t.Run("set serializes compactly", func(t *testing.T) {
		t.Parallel()
		j := format.JSON
		node := j.Object(
			format.F("name", j.String("ada")),
			format.F("age", j.Int(36)),
			format.F("score", j.Float(1.5)),
			format.F("admin", j.Bool(false)),
			format.F("boss", j.Null()),
			format.F("tags", j.Array(j.String("x"))),
			format.F("none", j.Array()),
		)
		out := doc.Set(node, lenstest.NewRequest(t, "/"))
		raw := lenstest.Get(t, lens.Body.Required("b").Lens, out)
		assert.JSONEq(t, `{"name":"ada","age":36,"score":1.5,"admin":false,"boss":null,"tags":["x"],"none":[]}`, raw)
		assert.NotContains(t, raw, "\n")
		assert.Equal(t, node, lenstest.Get(t, doc.Lens, out))
	})
}

func TestJSON_pretty_and_float(t *testing.T) {
	t.Parallel()

	j := format.JSON
	pretty, err := j.Pretty(j.Object(format.F("a", j.Int(1))))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", pretty)

	assert.Nil(t, j.Float(math.NaN()))
	assert.Nil(t, j.Float(math.Inf(1)))
}

func TestYAML_bridge(t *testing.T) {
	t.Parallel()

	doc := format.Bridge(lens.Body, format.YAML).Required("payload")
	r := lenstest.NewRequest(t, "/", "name: ada\ntags:\n  - a\n  - b\n")

	node := lenstest.Get(t, doc.Lens, r)
	require.Equal(t, yaml.MappingNode, node.Kind)
	require.Len(t, node.Content, 4)
	assert.Equal(t, "name", node.Content[0].Value)
	assert.Equal(t, "ada", node.Content[1].Value)
	assert.Equal(t, yaml.SequenceNode, node.Content[3].Kind)

	y := format.YAML
	built := y.Object(
		format.F("name", y.String("ada")),
		format.F("n", y.Int(2)),
		format.F("ok", y.Bool(true)),
		format.F("list", y.Array(y.Float(0.5), y.Null())),
	)
	compact, err := y.Compact(built)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ada","n":2,"ok":true,"list":[0.5,null]}`, compact)

	pretty, err := y.Pretty(built)
	require.NoError(t, err)
	assert.Contains(t, pretty, "name: ada\n")

	_, err = doc.Get(lenstest.NewRequest(t, "/", "a: [1, 2"))
	cause := lenstest.RequireInvalid(t, err, "body", "payload")
	assert.ErrorIs(t, cause, format.ErrMalformed)
}

type item struct {
	Name  string `json:"name" xml:"name" yaml:"name"`
	Count int    `json:"count" xml:"count" yaml:"count"`
}

func TestTyped(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		codec format.Codec
		body  string
	}{
		"json": {codec: format.JSONCodec, body: `{"name":"pen","count":3}`},
		"xml":  {codec: format.XMLCodec, body: `<item><name>pen</name><count>3</count></item>`},
		"yaml": {codec: format.YAMLCodec, body: "name: pen\ncount: 3\n"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			l := format.Typed[item](lens.Body, tc.codec).Required("item")
			got := lenstest.Get(t, l.Lens, lenstest.NewRequest(t, "/", tc.body))
			assert.Equal(t, item{Name: "pen", Count: 3}, got)

			out := l.Set(item{Name: "cup", Count: 1}, lenstest.NewRequest(t, "/"))
			assert.Equal(t, item{Name: "cup", Count: 1}, lenstest.Get(t, l.Lens, out))
		})
	}

	_, err := format.Typed[item](lens.Body, format.JSONCodec).Required("item").
		Get(lenstest.NewRequest(t, "/", `{"count":"three"}`))
	cause := lenstest.RequireInvalid(t, err, "body", "item")
	assert.ErrorIs(t, cause, format.ErrMalformed)
}

func TestTyped_set_panics_on_unencodable_values(t *testing.T) {
	t.Parallel()

	num := format.Typed[float64](lens.Body, format.JSONCodec).Required("n")
	assert.Panics(t, func() { num.Set(math.NaN(), lenstest.NewRequest(t, "/")) })
	assert.Panics(t, func() { num.Set(math.Inf(-1), lenstest.NewRequest(t, "/")) })

	out := num.Set(1.5, lenstest.NewRequest(t, "/"))
	assert.InDelta(t, 1.5, lenstest.Get(t, num.Lens, out), 0)

	neg := format.Negotiated[float64]().Required("n")
	assert.Panics(t, func() { neg.Set(math.Inf(1), lenstest.NewRequest(t, "/")) })
}

func TestCodecFor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		contentType string
		want        format.Codec
		ok          bool
	}{
		"empty":        {contentType: "", want: format.JSONCodec, ok: true},
		"json charset": {contentType: "application/json; charset=utf-8", want: format.JSONCodec, ok: true},
		"text xml":     {contentType: "text/xml", want: format.XMLCodec, ok: true},
		"x-yaml":       {contentType: "application/x-yaml", want: format.YAMLCodec, ok: true},
		"unknown":      {contentType: "text/csv"},
		"garbage":      {contentType: "/;;"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := format.CodecFor(tc.contentType)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNegotiated(t *testing.T) {
	t.Parallel()

	l := format.Negotiated[item]().Required("item")

	yamlReq := lenstest.NewRequest(t, "/", "name: pen\ncount: 2\n")
	yamlReq.Header.Set("Content-Type", "application/yaml")
	assert.Equal(t, item{Name: "pen", Count: 2}, lenstest.Get(t, l.Lens, yamlReq))

	plain := lenstest.NewRequest(t, "/", `{"name":"pen","count":1}`)
	assert.Equal(t, item{Name: "pen", Count: 1}, lenstest.Get(t, l.Lens, plain))

	csv := lenstest.NewRequest(t, "/", "pen,1")
	csv.Header.Set("Content-Type", "text/csv")
	_, err := l.Get(csv)
	cause := lenstest.RequireInvalid(t, err, "body", "item")
	assert.ErrorIs(t, cause, format.ErrUnsupportedMediaType)

	_, err = l.Get(httptest.NewRequest(http.MethodGet, "/", nil))
	lenstest.RequireMissing(t, err, "body", "item")

	out := l.Set(item{Name: "cup", Count: 5}, yamlReq)
	assert.Equal(t, "application/json", out.Header.Get("Content-Type"))
	assert.Equal(t, item{Name: "cup", Count: 5}, lenstest.Get(t, l.Lens, out))
	body := lenstest.Get(t, lens.Body.Required("b").Lens, out)
	assert.True(t, strings.HasPrefix(body, "{"))
}
