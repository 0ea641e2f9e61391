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

package wumps

import (
	"fmt"
)

// Schema is the fully composed, override-resolved, ordered set of attributes of a type. It is
// immutable once built.
type Schema struct {
	// Attributes in declaration order; an override keeps the position of the attribute it
	// overrides.
	attrs []*Attribute

	// Maps canonical names to the position in attrs.
	names map[string]int

	// Maps canonical names and aliases to the position in attrs.
	index map[string]int
}

var emptySchema = &Schema{
	names: map[string]int{},
	index: map[string]int{},
}

// ComposeSchema folds the attribute declarations of a linear ancestor chain, most general first,
// into one Schema. See Extend for the rules applied to each layer.
func ComposeSchema(layers ...[]AttributeConfig) (*Schema, error) {
	schema := emptySchema
	for _, layer := range layers {
		var err error
		schema, err = schema.Extend(layer)
		if err != nil {
			return nil, err
		}
	}
	return schema, nil
}

// Extend returns a new Schema with the attributes declared by one more (more derived) layer folded
// on top of the receiver:
//
//	- A new name is appended and its aliases are indexed.
//	- A name that already exists is an override. The declarations are merged into a new attribute
//	  that replaces the old one at its original position. Fields left unset inherit; type, persist
//	  and reference flags set on both sides must agree.
//	- Aliases declared by the layer take precedence over the ones inherited from the ancestors.
//
// Declaring a name twice within the layer, or a name/alias clash between two attributes of the same
// layer, fails with ErrKindSchemaConflict.
func (schema *Schema) Extend(layer []AttributeConfig) (*Schema, error) {
	const op Op = "wumps.ComposeSchema"

	result := &Schema{
		attrs: make([]*Attribute, len(schema.attrs), len(schema.attrs)+len(layer)),
		names: make(map[string]int, len(schema.names)+len(layer)),
		index: make(map[string]int, len(schema.index)+len(layer)),
	}
	copy(result.attrs, schema.attrs)
	for k, v := range schema.names {
		result.names[k] = v
	}
	for k, v := range schema.index {
		result.index[k] = v
	}

	var (
		declared = make(map[string]bool, len(layer))
		// Lookup keys bound by this layer.
		bound = map[string]bool{}
	)

	for i := range layer {
		config := &layer[i]

		attr, err := NewAttribute(config)
		if err != nil {
			return nil, err
		}
		name := attr.Name()

		if declared[name] {
			return nil, NewError(fmt.Sprintf(`attribute "%s" is declared more than once`, name),
				op, ErrKindSchemaConflict)
		}
		declared[name] = true

		pos, exists := result.names[name]
		if exists {
			attr, err = attr.override(result.attrs[pos])
			if err != nil {
				return nil, err
			}
			result.attrs[pos] = attr
		} else {
			pos = len(result.attrs)
			result.attrs = append(result.attrs, attr)
			result.names[name] = pos
		}

		if p, ok := result.index[name]; ok && p != pos {
			return nil, NewError(
				fmt.Sprintf(`attribute "%s" clashes with an alias of "%s"`, name, result.attrs[p].Name()),
				op, ErrKindSchemaConflict)
		}
		result.index[name] = pos
		bound[name] = true

		for _, alias := range attr.Aliases() {
			if p, ok := result.names[alias]; ok && p != pos {
				return nil, NewError(
					fmt.Sprintf(`alias "%s" of attribute "%s" clashes with attribute "%s"`, alias, name, alias),
					op, ErrKindSchemaConflict)
			}
			if p, ok := result.index[alias]; ok && p != pos && bound[alias] {
				return nil, NewError(
					fmt.Sprintf(`alias "%s" is declared by both "%s" and "%s"`, alias, result.attrs[p].Name(), name),
					op, ErrKindSchemaConflict)
			}
			result.index[alias] = pos
			bound[alias] = true
		}
	}

	return result, nil
}

// Len returns the number of slots.
func (schema *Schema) Len() int {
	return len(schema.attrs)
}

// Attributes returns the attributes in declaration order. The returned slice must not be modified.
func (schema *Schema) Attributes() []*Attribute {
	return schema.attrs
}

// Attribute returns the i-th attribute.
func (schema *Schema) Attribute(i int) *Attribute {
	return schema.attrs[i]
}

// Index returns the slot position of the attribute named or aliased by key, or -1.
func (schema *Schema) Index(key string) int {
	if i, ok := schema.index[key]; ok {
		return i
	}
	return -1
}

// Lookup finds the attribute named or aliased by key.
func (schema *Schema) Lookup(key string) (*Attribute, bool) {
	if i, ok := schema.index[key]; ok {
		return schema.attrs[i], true
	}
	return nil, false
}

// Names returns the canonical names in declaration order.
func (schema *Schema) Names() []string {
	names := make([]string, len(schema.attrs))
	for i, attr := range schema.attrs {
		names[i] = attr.Name()
	}
	return names
}

// Keys returns every name and alias that can be used to look up an attribute.
func (schema *Schema) Keys() []string {
	keys := make([]string, 0, len(schema.index))
	for _, attr := range schema.attrs {
		keys = append(keys, attr.Name())
		for _, alias := range attr.Aliases() {
			if schema.index[alias] == schema.index[attr.Name()] {
				keys = append(keys, alias)
			}
		}
	}
	return keys
}
