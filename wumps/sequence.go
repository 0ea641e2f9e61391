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

// SequenceType is the ValueType of an anonymous, ordered collection. Elements are coerced to the
// element type; a nil element type accepts any value.
type SequenceType struct {
	elementType ValueType
	element     string
}

var _ ValueType = (*SequenceType)(nil)

// SequenceOf returns the type of a sequence holding values of elementType. element names a single
// element (e.g., "endpoint").
func SequenceOf(elementType ValueType, element string) *SequenceType {
	return &SequenceType{
		elementType: elementType,
		element:     element,
	}
}

// ElementType returns the type of the elements.
func (t *SequenceType) ElementType() ValueType {
	return t.elementType
}

// Element returns the name of a single element.
func (t *SequenceType) Element() string {
	return t.element
}

func (t *SequenceType) elementName() string {
	if len(t.element) == 0 {
		return "element"
	}
	return t.element
}

// Name implements ValueType.
func (t *SequenceType) Name() string {
	return fmt.Sprintf("SequenceOf(%s)", valueTypeName(t.elementType))
}

// String implements fmt.Stringer.
func (t *SequenceType) String() string {
	return t.Name()
}

// Zero implements ValueType. It returns a new empty sequence.
func (t *SequenceType) Zero() interface{} {
	return t.newSequence()
}

func (t *SequenceType) newSequence() *Sequence {
	return &Sequence{t: t}
}

// Coerce implements ValueType. It accepts nil (an empty sequence), a *Sequence, a []interface{} or
// a []*Entity and returns a new sequence holding the coerced elements in the same order.
func (t *SequenceType) Coerce(value interface{}) (interface{}, error) {
	seq := t.newSequence()

	switch value := value.(type) {
	case nil:
		return seq, nil

	case *Sequence:
		if value != nil {
			if err := seq.Append(value.items...); err != nil {
				return nil, err
			}
		}
		return seq, nil

	case []interface{}:
		if err := seq.Append(value...); err != nil {
			return nil, err
		}
		return seq, nil

	case []*Entity:
		for _, e := range value {
			if err := seq.Append(e); err != nil {
				return nil, err
			}
		}
		return seq, nil
	}

	return nil, newCoercionError("%s cannot represent %T", t.Name(), value)
}

// isSequenceValue returns true if value replaces the whole sequence when assigned to a sequence
// slot instead of being appended as an element.
func isSequenceValue(value interface{}) bool {
	switch value.(type) {
	case *Sequence, []interface{}, []*Entity:
		return true
	}
	return false
}

// Sequence is an ordered list of values. It preserves insertion order and allows duplicates.
type Sequence struct {
	t     *SequenceType
	items []interface{}
}

// Type returns the type of the sequence.
func (seq *Sequence) Type() *SequenceType {
	return seq.t
}

// Len returns the number of elements.
func (seq *Sequence) Len() int {
	return len(seq.items)
}

// At returns the i-th element.
func (seq *Sequence) At(i int) interface{} {
	return seq.items[i]
}

// Append coerces values to the element type and appends them. Nothing is appended if any of the
// values fails to coerce.
func (seq *Sequence) Append(values ...interface{}) error {
	coerced := make([]interface{}, len(values))
	for i, value := range values {
		v, err := coerceElement(seq.t.elementType, value)
		if err != nil {
			path := Path{}
			path.AppendIndex(len(seq.items) + i)
			return NewError(fmt.Sprintf("invalid %s for %s", seq.t.elementName(), seq.t.Name()), path, err)
		}
		coerced[i] = v
	}
	seq.items = append(seq.items, coerced...)
	return nil
}

// Items returns a copy of the elements.
func (seq *Sequence) Items() []interface{} {
	if len(seq.items) == 0 {
		return nil
	}
	items := make([]interface{}, len(seq.items))
	copy(items, seq.items)
	return items
}

// Entities returns the elements that are entities, in order.
func (seq *Sequence) Entities() []*Entity {
	var entities []*Entity
	for _, item := range seq.items {
		if e, ok := item.(*Entity); ok && e != nil {
			entities = append(entities, e)
		}
	}
	return entities
}
