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

// TypeConfig provides definition of an entity type.
type TypeConfig struct {
	// Name of the defining type; It is also the tag of the entity in saved documents.
	Name string

	// Base is the type being extended. Nil extends EntityType().
	Base *Type

	// Attributes declared by the defining type. Redeclaring an attribute of Base overrides it.
	Attributes []AttributeConfig
}

// Type is an entity type: a name, a base type, and the schema composed from the attribute
// declarations of the type and all its ancestors. A Type is immutable and safe for concurrent use.
//
// A Type is also the ValueType of slots holding entities of the type (or its subtypes).
type Type struct {
	name   string
	base   *Type
	schema *Schema
}

var _ ValueType = (*Type)(nil)

// entityTypeInstance is the root of every type hierarchy.
var entityTypeInstance = func() *Type {
	schema, err := ComposeSchema([]AttributeConfig{
		{
			Name:    "name",
			Type:    String(),
			Default: "",
		},
	})
	if err != nil {
		panic(err)
	}
	return &Type{
		name:   "Entity",
		schema: schema,
	}
}()

// EntityType returns the root type. Its schema contains the implicit "name" attribute every
// entity has.
func EntityType() *Type {
	return entityTypeInstance
}

// NewType composes the schema for the defining type and creates the Type. Composition happens
// once, here; conflicting attribute declarations fail with ErrKindSchemaConflict.
func NewType(config *TypeConfig) (*Type, error) {
	const op Op = "wumps.NewType"

	if len(config.Name) == 0 {
		return nil, NewError("Must provide name for Type.", op)
	}

	base := config.Base
	if base == nil {
		base = entityTypeInstance
	}

	schema, err := base.schema.Extend(config.Attributes)
	if err != nil {
		return nil, WrapErrorf(err, `cannot define type "%s"`, config.Name)
	}

	return &Type{
		name:   config.Name,
		base:   base,
		schema: schema,
	}, nil
}

// MustNewType is a convenience function equivalent to NewType but panics on failure instead of
// returning an error.
func MustNewType(config *TypeConfig) *Type {
	t, err := NewType(config)
	if err != nil {
		panic(err)
	}
	return t
}

// Name implements ValueType.
func (t *Type) Name() string {
	return t.name
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	return t.name
}

// Base returns the type being extended; nil for EntityType().
func (t *Type) Base() *Type {
	return t.base
}

// Schema returns the composed schema.
func (t *Type) Schema() *Schema {
	return t.schema
}

// IsA returns true if t is other or one of its subtypes.
func (t *Type) IsA(other *Type) bool {
	for ; t != nil; t = t.base {
		if t == other {
			return true
		}
	}
	return false
}

// Zero implements ValueType. Entity slots start empty.
func (t *Type) Zero() interface{} {
	return nil
}

// Coerce implements ValueType. It accepts an entity of t (or a subtype), nil, or construction
// values (a list of Init or a Values map) for building a new entity of t.
func (t *Type) Coerce(value interface{}) (interface{}, error) {
	switch value := value.(type) {
	case nil:
		return nil, nil

	case *Entity:
		if value == nil {
			return nil, nil
		}
		if value.Type().IsA(t) {
			return value, nil
		}
		return nil, newCoercionError("%s cannot represent an entity of type %s", t.name, value.Type().Name())

	case Init:
		return t.New(value)

	case []Init:
		return t.New(value...)

	case Values:
		return t.New(WithValues(t, value)...)
	}

	return nil, newCoercionError("%s cannot represent %s", t.name, fmt.Sprintf("%T", value))
}

// New creates an entity of t. Every slot is seeded with its fixed value, default, or the zero value
// of its type; then inits are applied in order as if by Set.
func (t *Type) New(inits ...Init) (*Entity, error) {
	return newEntity(t, inits)
}

// MustNew is a convenience function equivalent to New but panics on failure instead of returning an
// error.
func (t *Type) MustNew(inits ...Init) *Entity {
	e, err := t.New(inits...)
	if err != nil {
		panic(err)
	}
	return e
}
