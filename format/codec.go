package format

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/bjaus/lens"
)

// ErrUnsupportedMediaType is reported when no codec matches a Content-Type.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// Codec marshals Go values to and from a wire format.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }
func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type xmlCodec struct{}

func (xmlCodec) ContentType() string { return "application/xml" }
func (xmlCodec) Marshal(v any) ([]byte, error) { return xml.Marshal(v) }
func (xmlCodec) Unmarshal(data []byte, v any) error { return xml.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) ContentType() string { return "application/yaml" }
func (yamlCodec) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// Built-in codecs.
var (
	JSONCodec Codec = jsonCodec{}
	XMLCodec  Codec = xmlCodec{}
	YAMLCodec Codec = yamlCodec{}
)

// codecs maps media types to codecs. It is never written after init.
var codecs = map[string]Codec{
	"application/json":   JSONCodec,
	"application/xml":    XMLCodec,
	"text/xml":           XMLCodec,
	"application/yaml":   YAMLCodec,
	"application/x-yaml": YAMLCodec,
	"text/yaml":          YAMLCodec,
}

// CodecFor returns the codec for a Content-Type value. An empty value selects
// JSON. Parameters such as charset are ignored.
func CodecFor(contentType string) (Codec, bool) {
	if contentType == "" {
		return JSONCodec, true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}
	c, ok := codecs[mediaType]
	return c, ok
}

// Typed maps the string values of s to T with codec. Set panics if codec
// cannot marshal the value, for example a NaN or infinite float under
// JSONCodec; callers writing such values should map them first.
func Typed[T, C, R any](s lens.BiDiSpec[C, R, string], codec Codec) lens.BiDiSpec[C, R, T] {
	return lens.BiMap(s,
		func(raw string) (T, error) {
			var v T
			if err := codec.Unmarshal([]byte(raw), &v); err != nil {
				return v, malformed(err)
			}
			return v, nil
		},
		func(v T) string {
			b, err := codec.Marshal(v)
			if err != nil {
				panic(fmt.Sprintf("format: marshal %T: %v", v, err))
			}
			return string(b)
		},
	)
}

// Negotiated returns a request body spec that decodes T with the codec
// matching the request Content-Type. Set encodes JSON and sets the
// Content-Type header; like Typed it panics on values JSON cannot encode,
// such as NaN or infinite floats.
func Negotiated[T any]() lens.BiDiSpec[*http.Request, T, T] {
	contentType := lens.Header.Required("Content-Type")
	body := lens.Body.Optional("body")

	return lens.NewBiDiSpec("body",
		func(_ string, r *http.Request) ([]T, error) {
			raw, err := body.Get(r)
			if err != nil {
				return nil, err
			}
			if raw == nil {
				return nil, nil
			}
			ct, _ := contentType.Get(r) // absent means JSON
			codec, ok := CodecFor(ct)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, ct)
			}
			var v T
			if err := codec.Unmarshal([]byte(*raw), &v); err != nil {
				return nil, malformed(err)
			}
			return []T{v}, nil
		},
		func(_ string, values []T, r *http.Request) *http.Request {
			b, err := JSONCodec.Marshal(values[len(values)-1])
			if err != nil {
				panic(fmt.Sprintf("format: marshal %T: %v", values[len(values)-1], err))
			}
			encoded := string(b)
			out := body.Replace(&encoded, r)
			return contentType.Replace(JSONCodec.ContentType(), out)
		},
		func(_ string, r *http.Request) *http.Request {
			return body.Replace(nil, r)
		},
	)
}
