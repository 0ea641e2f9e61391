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
	"reflect"
)

// ValueType is the declared type of an attribute slot. It knows the value a fresh slot starts with
// and how to turn a caller-supplied value into one the slot can hold.
type ValueType interface {
	// Name of the value type, used in error messages.
	Name() string

	// Zero returns the value for seeding a slot that has neither a default nor a fixed value. The
	// returned value must not be shared between slots when it is mutable (e.g., collections).
	Zero() interface{}

	// Coerce converts value into a representation of this type. It returns an error of
	// ErrKindCoercion if the value cannot be represented.
	Coerce(value interface{}) (interface{}, error)
}

// SameValueType returns true if a and b declare the same type of value. Two collection types are
// the same when they are of the same kind and their element types are the same.
func SameValueType(a ValueType, b ValueType) bool {
	if a == b {
		return true
	}

	switch a := a.(type) {
	case *SequenceType:
		if b, ok := b.(*SequenceType); ok {
			return SameValueType(a.ElementType(), b.ElementType())
		}
	case *NamedMapType:
		if b, ok := b.(*NamedMapType); ok {
			return SameValueType(a.ElementType(), b.ElementType())
		}
	}

	return false
}

// valueTypeName returns the name of t for use in messages.
func valueTypeName(t ValueType) string {
	if t == nil {
		return "any"
	}
	return t.Name()
}

// coerceElement coerces value to t. An Entity whose type is (a subtype of) t passes through as is;
// a nil t (untyped) accepts anything.
func coerceElement(t ValueType, value interface{}) (interface{}, error) {
	if t == nil {
		return value, nil
	}
	if e, ok := value.(*Entity); ok && e != nil {
		if et, ok := t.(*Type); ok && e.Type().IsA(et) {
			return e, nil
		}
	}
	return t.Coerce(value)
}

// newCoercionError builds the error returned by a ValueType that cannot represent value.
func newCoercionError(format string, a ...interface{}) error {
	return NewError(fmt.Sprintf(format, a...), ErrKindCoercion)
}

// valuesEqual compares two slot values. Entities compare by identity; everything else compares
// deeply.
func valuesEqual(a interface{}, b interface{}) bool {
	ea, aIsEntity := a.(*Entity)
	eb, bIsEntity := b.(*Entity)
	if aIsEntity || bIsEntity {
		return aIsEntity && bIsEntity && ea == eb
	}
	return reflect.DeepEqual(a, b)
}
