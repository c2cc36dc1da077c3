package format

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML is the gopkg.in/yaml.v3 backend. Nodes keep key order and comments.
// Compact output uses flow style, so it is also valid JSON for documents
// built from strings, numbers, booleans and nulls.
var YAML Format[*yaml.Node] = yamlFormat{}

type yamlFormat struct{}

func (yamlFormat) Parse(s string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return nil, malformed(err)
	}
	if doc.Kind == 0 {
		return nil, malformed(errors.New("empty document"))
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		return doc.Content[0], nil
	}
	return &doc, nil
}

func (f yamlFormat) Compact(n *yaml.Node) (string, error) {
	flow := flowCopy(n)
	out, err := f.encode(flow, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(out, "\n"), nil
}

func (f yamlFormat) Pretty(n *yaml.Node) (string, error) {
	return f.encode(n, 2)
}

func (yamlFormat) encode(n *yaml.Node, indent int) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(n); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// flowCopy returns a deep copy of n with every collection in flow style and
// every string double quoted.
func flowCopy(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		c.Style = yaml.FlowStyle
	case yaml.ScalarNode:
		if n.Tag == "!!str" {
			c.Style = yaml.DoubleQuotedStyle
		}
	}
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = flowCopy(child)
		}
	}
	return &c
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func (yamlFormat) String(s string) *yaml.Node { return scalar("!!str", s) }

func (yamlFormat) Int(n int64) *yaml.Node { return scalar("!!int", strconv.FormatInt(n, 10)) }

func (yamlFormat) Float(f float64) *yaml.Node {
	switch {
	case math.IsNaN(f):
		return scalar("!!float", ".nan")
	case math.IsInf(f, 1):
		return scalar("!!float", ".inf")
	case math.IsInf(f, -1):
		return scalar("!!float", "-.inf")
	}
	return scalar("!!float", strconv.FormatFloat(f, 'g', -1, 64))
}

func (yamlFormat) Bool(b bool) *yaml.Node { return scalar("!!bool", strconv.FormatBool(b)) }

func (yamlFormat) Null() *yaml.Node { return scalar("!!null", "null") }

func (yamlFormat) Array(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

func (yamlFormat) Object(fields ...Field[*yaml.Node]) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fields {
		n.Content = append(n.Content, scalar("!!str", f.Key), f.Value)
	}
	return n
}
