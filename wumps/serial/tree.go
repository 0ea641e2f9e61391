/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package serial

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/botobag/hildegard/wumps"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Header is the advisory comment that precedes a saved document, e.g.
//
//	# {format: "yaml", version: 0}
//
// It is reported to callers but never validated.
type Header struct {
	Format  string `yaml:"format" json:"format"`
	Version int    `yaml:"version" json:"version"`
}

// CurrentHeader is the header written by the Encoder.
var CurrentHeader = Header{
	Format:  "yaml",
	Version: 0,
}

// String returns the header as written in a document (without the leading "# ").
func (header Header) String() string {
	return fmt.Sprintf(`{format: %q, version: %d}`, header.Format, header.Version)
}

// Tagged is a mapping with exactly one key appearing as an element of a list. It is how entities
// (tag is the type name) and entries of named collections holding non-entity values (tag is the
// key) are written.
type Tagged struct {
	Tag      string
	Value    interface{}
	Location wumps.ErrorLocation
}

// Field is an entry of a Fields.
type Field struct {
	Key      string
	Value    interface{}
	Location wumps.ErrorLocation
}

// Fields is a mapping that keeps the order of its keys as written.
type Fields []Field

// Get returns the value of the field named key.
func (fields Fields) Get(key string) (interface{}, bool) {
	for i := range fields {
		if fields[i].Key == key {
			return fields[i].Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in document order.
func (fields Fields) Keys() []string {
	keys := make([]string, len(fields))
	for i := range fields {
		keys[i] = fields[i].Key
	}
	return keys
}

// Tree is the generic form of a document: a list of root items, each of which is a Tagged, with
// values built from
//
//	+--------------------------+-------------------------------+
//	| Text                     | Go value                      |
//	+--------------------------+-------------------------------+
//	| sequence                 | []interface{}                 |
//	| single-key map in a list | Tagged                        |
//	| any other map            | Fields                        |
//	| scalar                   | string, int, float64, bool... |
//	| null                     | nil                           |
//	+--------------------------+-------------------------------+
type Tree struct {
	// Header parsed from the leading comment; nil if there was none.
	Header *Header `json:"header,omitempty"`

	Roots []Tagged `json:"roots"`
}

// ParseTree reads a document from r into its generic form. The document must be a list of
// single-key maps (or empty); anything else fails with wumps.ErrKindMalformedInput.
func ParseTree(r io.Reader) (*Tree, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read document")
	}
	return ParseTreeBytes(data)
}

// ParseTreeBytes is like ParseTree but reads from data.
func ParseTreeBytes(data []byte) (*Tree, error) {
	const op wumps.Op = "serial.ParseTree"

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, wumps.NewError("invalid document syntax", op, wumps.ErrKindMalformedInput, err)
	}

	tree := &Tree{}

	// An empty document has no nodes at all.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		tree.Header = parseHeader(doc.HeadComment)
		return tree, nil
	}

	root := doc.Content[0]
	tree.Header = parseHeader(doc.HeadComment, root.HeadComment)

	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return tree, nil
	}

	if root.Kind != yaml.SequenceNode {
		return nil, wumps.NewError("document must be a list of entities", op,
			wumps.ErrKindMalformedInput, locationOf(root))
	}

	if len(root.Content) > 0 && tree.Header == nil {
		first := root.Content[0]
		tree.Header = parseHeader(first.HeadComment)
		if tree.Header == nil && len(first.Content) > 0 {
			tree.Header = parseHeader(first.Content[0].HeadComment)
		}
	}

	tree.Roots = make([]Tagged, 0, len(root.Content))
	for i, item := range root.Content {
		value, err := convertNode(item, true)
		if err != nil {
			return nil, prependIndex(err, i)
		}
		tagged, ok := value.(Tagged)
		if !ok {
			path := wumps.Path{}
			path.AppendIndex(i)
			return nil, wumps.NewError("root item must be a map with exactly one key", op,
				wumps.ErrKindMalformedInput, path, locationOf(item))
		}
		tree.Roots = append(tree.Roots, tagged)
	}

	return tree, nil
}

// parseHeader extracts the header from the first comment that has one.
func parseHeader(comments ...string) *Header {
	for _, comment := range comments {
		for _, line := range strings.Split(comment, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#"))
			if !strings.HasPrefix(line, "{") {
				continue
			}
			var header Header
			if err := yaml.Unmarshal([]byte(line), &header); err == nil && len(header.Format) > 0 {
				return &header
			}
		}
	}
	return nil
}

// convertNode turns node into its generic form. inList is true when node is an element of a
// sequence.
func convertNode(node *yaml.Node, inList bool) (interface{}, error) {
	switch node.Kind {
	case yaml.AliasNode:
		// Aliases are not part of the format; shared entities are written with identity tokens.
		return nil, malformed(node, fmt.Sprintf("alias *%s is not allowed", node.Value))

	case yaml.ScalarNode:
		var value interface{}
		if err := node.Decode(&value); err != nil {
			return nil, wumps.NewError(fmt.Sprintf("invalid scalar %q", node.Value),
				wumps.ErrKindMalformedInput, locationOf(node), err)
		}
		return value, nil

	case yaml.SequenceNode:
		items := make([]interface{}, len(node.Content))
		for i, child := range node.Content {
			item, err := convertNode(child, true)
			if err != nil {
				return nil, prependIndex(err, i)
			}
			items[i] = item
		}
		return items, nil

	case yaml.MappingNode:
		if len(node.Content)%2 != 0 {
			return nil, malformed(node, "map with an odd number of nodes")
		}

		if inList && len(node.Content) == 2 {
			key, value := node.Content[0], node.Content[1]
			tag, err := convertKey(key)
			if err != nil {
				return nil, err
			}
			v, err := convertNode(value, false)
			if err != nil {
				return nil, prependName(err, tag)
			}
			return Tagged{
				Tag:      tag,
				Value:    v,
				Location: locationOf(key),
			}, nil
		}

		fields := make(Fields, 0, len(node.Content)/2)
		seen := make(map[string]bool, len(node.Content)/2)
		for i := 0; i < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			name, err := convertKey(key)
			if err != nil {
				return nil, err
			}
			if seen[name] {
				return nil, malformed(key, fmt.Sprintf("duplicate key %q", name))
			}
			seen[name] = true

			v, err := convertNode(value, false)
			if err != nil {
				return nil, prependName(err, name)
			}
			fields = append(fields, Field{
				Key:      name,
				Value:    v,
				Location: locationOf(key),
			})
		}
		return fields, nil
	}

	return nil, malformed(node, "unsupported node")
}

func convertKey(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", malformed(node, "map key must be a scalar")
	}
	return node.Value, nil
}

func malformed(node *yaml.Node, message string) error {
	return wumps.NewError(message, wumps.ErrKindMalformedInput, locationOf(node))
}

func locationOf(node *yaml.Node) wumps.ErrorLocation {
	return wumps.ErrorLocation{
		Line:   uint(node.Line),
		Column: uint(node.Column),
	}
}

// prependIndex and prependName add the position of a child to the path of an error raised while
// converting the child.
func prependIndex(err error, index int) error {
	path := wumps.Path{}
	path.AppendIndex(index)
	return prependPath(err, path)
}

func prependName(err error, name string) error {
	path := wumps.Path{}
	path.AppendName(name)
	return prependPath(err, path)
}

func prependPath(err error, prefix wumps.Path) error {
	if e, ok := err.(*wumps.Error); ok {
		e.Path = prefix.Concat(e.Path)
		return e
	}
	return wumps.NewError("", prefix, err)
}
