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
	"sort"
	"strings"

	"github.com/botobag/hildegard/internal/util"
)

// Init is one caller-supplied attribute value applied when constructing an entity. Key can be the
// canonical name of the attribute or any of its aliases.
type Init struct {
	Key   string
	Value interface{}
}

// With builds an Init.
func With(key string, value interface{}) Init {
	return Init{Key: key, Value: value}
}

// Values maps attribute keys to values for constructing an entity.
type Values map[string]interface{}

// WithValues turns values into a list of Init for constructing an entity of t. Keys known to the
// schema come first in declaration order; the rest (which will be rejected by the constructor)
// follow in lexical order, so the result is deterministic.
func WithValues(t *Type, values Values) []Init {
	inits := make([]Init, 0, len(values))
	used := make(map[string]bool, len(values))

	for _, attr := range t.Schema().Attributes() {
		keys := append([]string{attr.Name()}, attr.Aliases()...)
		for _, key := range keys {
			if value, ok := values[key]; ok && !used[key] {
				inits = append(inits, With(key, value))
				used[key] = true
			}
		}
	}

	var rest []string
	for key := range values {
		if !used[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		inits = append(inits, With(key, values[key]))
	}

	return inits
}

// Entity is an instance of a Type holding one value per schema slot. Values are read and written
// through Get and Set which resolve aliases to the canonical attribute.
//
// An Entity is not safe for concurrent mutation.
type Entity struct {
	t *Type

	// One value per attribute, indexed by the slot position in the schema
	values []interface{}
}

func newEntity(t *Type, inits []Init) (*Entity, error) {
	const op Op = "wumps.Type.New"

	schema := t.Schema()
	e := &Entity{
		t:      t,
		values: make([]interface{}, schema.Len()),
	}

	for i, attr := range schema.Attributes() {
		value, err := attr.initialValue()
		if err != nil {
			return nil, NewError(
				fmt.Sprintf(`invalid initial value for attribute "%s" of %s`, attr.Name(), t.Name()),
				op, err)
		}
		e.values[i] = value
	}

	for _, init := range inits {
		if err := e.set(op, init.Key, init.Value); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Type returns the type of the entity.
func (e *Entity) Type() *Type {
	return e.t
}

// Name returns the value of the "name" attribute.
func (e *Entity) Name() string {
	name, _ := e.values[e.t.Schema().Index("name")].(string)
	return name
}

// SetName sets the "name" attribute.
func (e *Entity) SetName(name string) error {
	return e.set(Op("wumps.Entity.SetName"), "name", name)
}

// String implements fmt.Stringer.
func (e *Entity) String() string {
	if name := e.Name(); len(name) > 0 {
		return fmt.Sprintf("%s(%q)", e.t.Name(), name)
	}
	return e.t.Name()
}

// Has returns true if key names or aliases an attribute of the entity.
func (e *Entity) Has(key string) bool {
	return e.t.Schema().Index(key) >= 0
}

// Get returns the value of the attribute named or aliased by key. A fixed-value attribute always
// yields its fixed constant.
func (e *Entity) Get(key string) (interface{}, error) {
	schema := e.t.Schema()
	i := schema.Index(key)
	if i < 0 {
		return nil, e.unknownAttributeError(Op("wumps.Entity.Get"), key)
	}

	if attr := schema.Attribute(i); attr.IsFixed() {
		return attr.Fixed(), nil
	}
	return e.values[i], nil
}

// MustGet is a convenience function equivalent to Get but panics on failure instead of returning an
// error.
func (e *Entity) MustGet(key string) interface{} {
	value, err := e.Get(key)
	if err != nil {
		panic(err)
	}
	return value
}

// Set writes the attribute named or aliased by key. The value is coerced to the declared type of
// the attribute unless it already is an entity of a compatible type.
//
// Setting an anonymous sequence attribute with a list (a []interface{}, []*Entity or *Sequence)
// replaces the sequence with a copy of the list; setting it with any other non-nil value appends
// that value as one element. Setting any attribute with nil resets it to empty.
func (e *Entity) Set(key string, value interface{}) error {
	return e.set(Op("wumps.Entity.Set"), key, value)
}

// MustSet is a convenience function equivalent to Set but panics on failure instead of returning an
// error.
func (e *Entity) MustSet(key string, value interface{}) {
	if err := e.Set(key, value); err != nil {
		panic(err)
	}
}

// Each calls fn for each attribute and its value in schema order, stopping at the first error.
func (e *Entity) Each(fn func(attr *Attribute, value interface{}) error) error {
	for i, attr := range e.t.Schema().Attributes() {
		value := e.values[i]
		if attr.IsFixed() {
			value = attr.Fixed()
		}
		if err := fn(attr, value); err != nil {
			return err
		}
	}
	return nil
}

func (e *Entity) set(op Op, key string, value interface{}) error {
	schema := e.t.Schema()
	i := schema.Index(key)
	if i < 0 {
		return e.unknownAttributeError(op, key)
	}

	attr := schema.Attribute(i)
	if attr.IsFixed() {
		return NewError(fmt.Sprintf(`attribute "%s" of %s has fixed value %v`, attr.Name(), e.t.Name(), attr.Fixed()),
			op, ErrKindImmutableAttribute)
	}

	wrap := func(err error) error {
		return NewError(fmt.Sprintf(`cannot set attribute "%s" of %s`, attr.Name(), e.t.Name()), op, err)
	}

	if attr.IsReference() {
		if err := checkReferenceValue(value); err != nil {
			return wrap(err)
		}
	}

	if seqType, ok := attr.Type().(*SequenceType); ok && value != nil && !isSequenceValue(value) {
		seq, _ := e.values[i].(*Sequence)
		if seq == nil {
			seq = seqType.newSequence()
			e.values[i] = seq
		}
		if err := seq.Append(value); err != nil {
			return wrap(err)
		}
		return nil
	}

	v, err := coerceElement(attr.Type(), value)
	if err != nil {
		return wrap(err)
	}
	e.values[i] = v

	return nil
}

// checkReferenceValue rejects values that a reference attribute cannot point at. Building a new
// entity in a reference slot would leave it without an owner.
func checkReferenceValue(value interface{}) error {
	switch value := value.(type) {
	case nil, *Entity:
		return nil
	case []*Entity:
		return nil
	case *Sequence:
		for _, item := range value.items {
			if err := checkReferenceValue(item); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		for _, item := range value {
			if err := checkReferenceValue(item); err != nil {
				return err
			}
		}
		return nil
	}
	return newCoercionError("reference attribute cannot point at %T", value)
}

func (e *Entity) unknownAttributeError(op Op, key string) error {
	message := fmt.Sprintf(`type "%s" has no attribute "%s".`, e.t.Name(), key)
	if suggestions := util.SuggestKeys(key, e.t.Schema().Keys()); len(suggestions) > 0 {
		var b strings.Builder
		b.WriteString(message)
		b.WriteString(" Did you mean ")
		b.WriteString(util.OrList(suggestions, 5, true))
		b.WriteString("?")
		message = b.String()
	}
	return NewError(message, op, ErrKindUnknownAttribute)
}
