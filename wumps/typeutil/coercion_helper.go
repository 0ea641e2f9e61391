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

// Package typeutil provides helpers for writing value coercers of scalar attribute types.
package typeutil

import (
	"fmt"
	"math"
	"reflect"
)

// CoercionHelperBase has two purposes:
//
//	1. It implements method dispatching to deliver value based on its type into (most) appropriated
//	   coercion handler in a CoercionHelper implementation.
//	2. It provides default implementation for coercion handlers, which reject the value.
//
// Implementing a CoercionHelper usually embeds CoercionHelperBase to get the default
// implementation:
//
//	type MyCoercionHelper struct {
//		CoercionHelperBase
//	}
//
//	// CoerceBool overrides CoercionHelperBase.
//	func (helper *MyCoercionHelper) CoerceBool(value bool) (interface{}, error) {
//		...
//	}
type CoercionHelperBase struct {
	impl CoercionHelper
}

// CoercionHelper coalesces the many Go primitive types into a few "hierarchical" handlers. A
// value of any sized signed integer arrives at CoerceSignedInteger, any unsigned one arrives at
// CoerceUnsignedInteger and so on. Pointers to primitives are dereferenced first; nil pointers
// and untyped nil arrive at CoerceNil.
//
// NaN and infinities are delivered to CoerceNaN and CoerceInf since they cannot be written to a
// text document faithfully in many cases.
type CoercionHelper interface {
	RaiseError(value interface{}, format string, a ...interface{}) error
	RaiseInvalidTypeError(value interface{}) error

	CoerceBool(value bool) (interface{}, error)
	CoerceSignedInteger(value int64) (interface{}, error)
	CoerceUnsignedInteger(value uint64) (interface{}, error)
	CoerceFloat(value float64) (interface{}, error)
	CoerceInf(value float64) (interface{}, error)
	CoerceNaN(value float64) (interface{}, error)
	CoerceString(value string) (interface{}, error)
	CoerceNil() (interface{}, error)
	CoerceOther(value interface{}) (interface{}, error)
}

// SetImpl tells CoercionHelperBase the CoercionHelper implementation for method dispatching.
func (helper *CoercionHelperBase) SetImpl(impl CoercionHelper) {
	helper.impl = impl
}

// Coerce executes the coercion for given value.
func (helper *CoercionHelperBase) Coerce(value interface{}) (interface{}, error) {
	impl := helper.impl
	if impl == nil {
		panic("need to call SetImpl to initialize CoercionHelperBase before running")
	}

	switch value := value.(type) {
	case nil:
		return impl.CoerceNil()

	case bool:
		return impl.CoerceBool(value)

	case int:
		return impl.CoerceSignedInteger(int64(value))
	case int8:
		return impl.CoerceSignedInteger(int64(value))
	case int16:
		return impl.CoerceSignedInteger(int64(value))
	case int32:
		return impl.CoerceSignedInteger(int64(value))
	case int64:
		return impl.CoerceSignedInteger(value)

	case uint:
		return impl.CoerceUnsignedInteger(uint64(value))
	case uint8:
		return impl.CoerceUnsignedInteger(uint64(value))
	case uint16:
		return impl.CoerceUnsignedInteger(uint64(value))
	case uint32:
		return impl.CoerceUnsignedInteger(uint64(value))
	case uint64:
		return impl.CoerceUnsignedInteger(value)

	case float32:
		return helper.coerceFloat(float64(value))
	case float64:
		return helper.coerceFloat(value)

	case string:
		return impl.CoerceString(value)
	}

	// Dereference pointers to primitives (and named types of primitives) through reflection.
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return impl.CoerceNil()
		}
		return helper.Coerce(v.Elem().Interface())
	}

	switch v.Kind() {
	case reflect.Bool:
		return impl.CoerceBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return impl.CoerceSignedInteger(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return impl.CoerceUnsignedInteger(v.Uint())
	case reflect.Float32, reflect.Float64:
		return helper.coerceFloat(v.Float())
	case reflect.String:
		return impl.CoerceString(v.String())
	}

	return impl.CoerceOther(value)
}

func (helper *CoercionHelperBase) coerceFloat(value float64) (interface{}, error) {
	if math.IsNaN(value) {
		return helper.impl.CoerceNaN(value)
	} else if math.IsInf(value, 0) {
		return helper.impl.CoerceInf(value)
	}
	return helper.impl.CoerceFloat(value)
}

// RaiseError implements CoercionHelper.
func (helper *CoercionHelperBase) RaiseError(value interface{}, format string, a ...interface{}) error {
	return fmt.Errorf("failed to coerce %+v: %s", value, fmt.Sprintf(format, a...))
}

// RaiseInvalidTypeError implements CoercionHelper.
func (helper *CoercionHelperBase) RaiseInvalidTypeError(value interface{}) error {
	return helper.impl.RaiseError(value, "unexpected value type `%T`", value)
}

// CoerceBool implements CoercionHelper.
func (helper *CoercionHelperBase) CoerceBool(value bool) (interface{}, error) {
	return nil, helper.impl.RaiseInvalidTypeError(value)
}

// CoerceSignedInteger implements CoercionHelper.
func (helper *CoercionHelperBase) CoerceSignedInteger(value int64) (interface{}, error) {
	return nil, helper.impl.RaiseInvalidTypeError(value)
}

// CoerceUnsignedInteger implements CoercionHelper.
func (helper *CoercionHelperBase) CoerceUnsignedInteger(value uint64) (interface{}, error) {
	return nil, helper.impl.RaiseInvalidTypeError(value)
}

// CoerceFloat implements CoercionHelper.
func (helper *CoercionHelperBase) CoerceFloat(value float64) (interface{}, error) {
	return nil, helper.impl.RaiseInvalidTypeError(value)
}

// CoerceInf implements CoercionHelper.
func (helper *CoercionHelperBase) CoerceInf(value float64) (interface{}, error) {
	return nil, helper.impl.RaiseError(value, "not a finite value")
}

// CoerceNaN implements CoercionHelper.
func (helper *CoercionHelperBase) CoerceNaN(value float64) (interface{}, error) {
	return nil, helper.impl.RaiseError(value, "not a number")
}

// CoerceString implements CoercionHelper.
func (helper *CoercionHelperBase) CoerceString(value string) (interface{}, error) {
	return nil, helper.impl.RaiseInvalidTypeError(value)
}

// CoerceNil implements CoercionHelper.
func (helper *CoercionHelperBase) CoerceNil() (interface{}, error) {
	return nil, helper.impl.RaiseError(nil, "not a value")
}

// CoerceOther implements CoercionHelper.
func (helper *CoercionHelperBase) CoerceOther(value interface{}) (interface{}, error) {
	return nil, helper.impl.RaiseInvalidTypeError(value)
}
