package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
)

// JSONNode is a decoded JSON value: nil, bool, json.Number, string, []any or
// map[string]any.
type JSONNode = any

// JSON is the encoding/json backend. Numbers are kept as json.Number so large
// integers survive a round trip.
var JSON Format[JSONNode] = jsonFormat{}

type jsonFormat struct{}

func (jsonFormat) Parse(s string) (JSONNode, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var n any
	if err := dec.Decode(&n); err != nil {
		return nil, malformed(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, malformed(errors.New("trailing data after document"))
	}
	return n, nil
}

func (jsonFormat) Compact(n JSONNode) (string, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (jsonFormat) Pretty(n JSONNode) (string, error) {
	b, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (jsonFormat) String(s string) JSONNode { return s }

func (jsonFormat) Int(n int64) JSONNode { return json.Number(strconv.FormatInt(n, 10)) }

// Float maps NaN and infinities to null; JSON cannot represent them.
func (jsonFormat) Float(f float64) JSONNode {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
}

func (jsonFormat) Bool(b bool) JSONNode { return b }

func (jsonFormat) Null() JSONNode { return nil }

func (jsonFormat) Array(items ...JSONNode) JSONNode {
	if items == nil {
		items = []any{}
	}
	return items
}

func (jsonFormat) Object(fields ...Field[JSONNode]) JSONNode {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	return m
}
