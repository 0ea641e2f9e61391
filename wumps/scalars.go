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
	"math"
	"strconv"
	"strings"

	"github.com/botobag/hildegard/wumps/typeutil"
)

// The Go type of the values held by slots of each built-in scalar type:
//
// +------------+---------+
// | Value Type | Go Type |
// +------------+---------+
// | String     | string  |
// | Int        | int     |
// | Float      | float64 |
// | Bool       | bool    |
// +------------+---------+
//
// Coercing nil yields the zero value of the type, so assigning nil to a scalar slot resets it.

// Reasons for the error when coercing built-in scalar types
const (
	coercionErrorNonInteger      string = "not an integer"
	coercionErrorIntegerTooLarge        = "value too large for integer"
	coercionErrorNonNumeric             = "not a numeric value"
	coercionErrorNonBoolean             = "not a boolean value"
)

// scalarCoercerBase is built on top of typeutil.CoercionHelperBase as a shared base to the coercers
// for built-in scalars below.
type scalarCoercerBase struct {
	typeutil.CoercionHelperBase
	typeName string
}

// RaiseError overrides typeutil.CoercionHelperBase.
func (coercer *scalarCoercerBase) RaiseError(value interface{}, format string, a ...interface{}) error {
	if v, ok := value.(string); ok {
		// Quote the string for pretty printing.
		value = strconv.Quote(v)
	}
	return newCoercionError("%s cannot represent %v: %s", coercer.typeName, value, fmt.Sprintf(format, a...))
}

func (coercer *scalarCoercerBase) init(typeName string, impl typeutil.CoercionHelper) {
	coercer.CoercionHelperBase.SetImpl(impl)
	coercer.typeName = typeName
}

// scalarType implements ValueType for the built-in scalars.
type scalarType struct {
	name    string
	zero    interface{}
	coercer interface {
		Coerce(value interface{}) (interface{}, error)
	}
}

var _ ValueType = (*scalarType)(nil)

// Name implements ValueType.
func (t *scalarType) Name() string {
	return t.name
}

// String implements fmt.Stringer.
func (t *scalarType) String() string {
	return t.name
}

// Zero implements ValueType.
func (t *scalarType) Zero() interface{} {
	return t.zero
}

// Coerce implements ValueType.
func (t *scalarType) Coerce(value interface{}) (interface{}, error) {
	return t.coercer.Coerce(value)
}

//===-----------------------------------------------------------------------------------------===//
// String
//===-----------------------------------------------------------------------------------------===//

type stringCoercer struct {
	scalarCoercerBase
}

// CoerceNil overrides typeutil.CoercionHelperBase.
func (coercer *stringCoercer) CoerceNil() (interface{}, error) {
	return "", nil
}

// CoerceBool overrides typeutil.CoercionHelperBase.
func (coercer *stringCoercer) CoerceBool(value bool) (interface{}, error) {
	return strconv.FormatBool(value), nil
}

// CoerceSignedInteger overrides typeutil.CoercionHelperBase.
func (coercer *stringCoercer) CoerceSignedInteger(value int64) (interface{}, error) {
	return strconv.FormatInt(value, 10), nil
}

// CoerceUnsignedInteger overrides typeutil.CoercionHelperBase.
func (coercer *stringCoercer) CoerceUnsignedInteger(value uint64) (interface{}, error) {
	return strconv.FormatUint(value, 10), nil
}

// CoerceFloat overrides typeutil.CoercionHelperBase.
func (coercer *stringCoercer) CoerceFloat(value float64) (interface{}, error) {
	return strconv.FormatFloat(value, 'g', -1, 64), nil
}

// CoerceString overrides typeutil.CoercionHelperBase.
func (coercer *stringCoercer) CoerceString(value string) (interface{}, error) {
	return value, nil
}

// CoerceOther overrides typeutil.CoercionHelperBase.
func (coercer *stringCoercer) CoerceOther(value interface{}) (interface{}, error) {
	if s, ok := value.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return nil, coercer.RaiseInvalidTypeError(value)
}

var stringTypeInstance = func() ValueType {
	coercer := &stringCoercer{}
	coercer.init("String", coercer)
	return &scalarType{name: "String", zero: "", coercer: coercer}
}()

// String returns the value type of string slots.
func String() ValueType {
	return stringTypeInstance
}

//===-----------------------------------------------------------------------------------------===//
// Int
//===-----------------------------------------------------------------------------------------===//

type intCoercer struct {
	scalarCoercerBase
}

// CoerceNil overrides typeutil.CoercionHelperBase.
func (coercer *intCoercer) CoerceNil() (interface{}, error) {
	return 0, nil
}

// CoerceSignedInteger overrides typeutil.CoercionHelperBase.
func (coercer *intCoercer) CoerceSignedInteger(value int64) (interface{}, error) {
	if value > int64(math.MaxInt64>>(64-strconv.IntSize)) || value < int64(math.MinInt64>>(64-strconv.IntSize)) {
		return nil, coercer.RaiseError(value, coercionErrorIntegerTooLarge)
	}
	return int(value), nil
}

// CoerceUnsignedInteger overrides typeutil.CoercionHelperBase.
func (coercer *intCoercer) CoerceUnsignedInteger(value uint64) (interface{}, error) {
	if value > uint64(math.MaxInt64>>(64-strconv.IntSize)) {
		return nil, coercer.RaiseError(value, coercionErrorIntegerTooLarge)
	}
	return int(value), nil
}

// CoerceFloat overrides typeutil.CoercionHelperBase.
func (coercer *intCoercer) CoerceFloat(value float64) (interface{}, error) {
	// Make sure the conversion is lossless.
	if value != math.Trunc(value) || value >= math.MaxInt64 || value < math.MinInt64 {
		return nil, coercer.RaiseError(value, coercionErrorNonInteger)
	}
	return coercer.CoerceSignedInteger(int64(value))
}

// CoerceString overrides typeutil.CoercionHelperBase.
func (coercer *intCoercer) CoerceString(value string) (interface{}, error) {
	val, err := strconv.ParseInt(strings.TrimSpace(value), 10, strconv.IntSize)
	if err != nil {
		return nil, coercer.RaiseError(value, coercionErrorNonInteger)
	}
	return int(val), nil
}

var intTypeInstance = func() ValueType {
	coercer := &intCoercer{}
	coercer.init("Int", coercer)
	return &scalarType{name: "Int", zero: 0, coercer: coercer}
}()

// Int returns the value type of integer slots.
func Int() ValueType {
	return intTypeInstance
}

//===-----------------------------------------------------------------------------------------===//
// Float
//===-----------------------------------------------------------------------------------------===//

type floatCoercer struct {
	scalarCoercerBase
}

// CoerceNil overrides typeutil.CoercionHelperBase.
func (coercer *floatCoercer) CoerceNil() (interface{}, error) {
	return float64(0), nil
}

// CoerceSignedInteger overrides typeutil.CoercionHelperBase.
func (coercer *floatCoercer) CoerceSignedInteger(value int64) (interface{}, error) {
	return float64(value), nil
}

// CoerceUnsignedInteger overrides typeutil.CoercionHelperBase.
func (coercer *floatCoercer) CoerceUnsignedInteger(value uint64) (interface{}, error) {
	return float64(value), nil
}

// CoerceFloat overrides typeutil.CoercionHelperBase.
func (coercer *floatCoercer) CoerceFloat(value float64) (interface{}, error) {
	return value, nil
}

// CoerceString overrides typeutil.CoercionHelperBase.
func (coercer *floatCoercer) CoerceString(value string) (interface{}, error) {
	val, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return nil, coercer.RaiseError(value, coercionErrorNonNumeric)
	}
	return val, nil
}

var floatTypeInstance = func() ValueType {
	coercer := &floatCoercer{}
	coercer.init("Float", coercer)
	return &scalarType{name: "Float", zero: float64(0), coercer: coercer}
}()

// Float returns the value type of floating point slots.
func Float() ValueType {
	return floatTypeInstance
}

//===-----------------------------------------------------------------------------------------===//
// Bool
//===-----------------------------------------------------------------------------------------===//

type boolCoercer struct {
	scalarCoercerBase
}

// CoerceNil overrides typeutil.CoercionHelperBase.
func (coercer *boolCoercer) CoerceNil() (interface{}, error) {
	return false, nil
}

// CoerceBool overrides typeutil.CoercionHelperBase.
func (coercer *boolCoercer) CoerceBool(value bool) (interface{}, error) {
	return value, nil
}

// CoerceString overrides typeutil.CoercionHelperBase.
func (coercer *boolCoercer) CoerceString(value string) (interface{}, error) {
	val, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return nil, coercer.RaiseError(value, coercionErrorNonBoolean)
	}
	return val, nil
}

var boolTypeInstance = func() ValueType {
	coercer := &boolCoercer{}
	coercer.init("Bool", coercer)
	return &scalarType{name: "Bool", zero: false, coercer: coercer}
}()

// Bool returns the value type of boolean slots.
func Bool() ValueType {
	return boolTypeInstance
}
