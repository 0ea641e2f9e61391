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

// Flag is a boolean property of an attribute declaration that may be left unset. An unset flag
// inherits the value from the declaration being overridden, or takes the property's default.
type Flag uint8

// Enumeration of Flag
const (
	FlagUnset Flag = iota
	FlagTrue
	FlagFalse
)

// FlagOf returns FlagTrue or FlagFalse for b.
func FlagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// IsSet returns true if the flag was given a value.
func (f Flag) IsSet() bool {
	return f != FlagUnset
}

// Value returns the value of the flag or def if the flag is unset.
func (f Flag) Value(def bool) bool {
	switch f {
	case FlagTrue:
		return true
	case FlagFalse:
		return false
	}
	return def
}

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	}
	return "unset"
}

// An intentionally internal type for marking a "null" as default value for an attribute.
type attributeNilValueType int

// NilDefault is a value that has a special meaning when it is given to the Default in
// AttributeConfig. It declares a default value of "null", while leaving Default nil means there's
// no default value (and the attribute inherits one when overriding). The constant has an internal
// type, therefore there's no way to create one outside the package.
const NilDefault attributeNilValueType = 0

// AttributeConfig declares one named slot of a schema.
type AttributeConfig struct {
	// Name of the attribute; required.
	Name string

	// Type of the values held by the slot. Nil leaves the slot untyped (or inherits the type when
	// overriding).
	Type ValueType

	// Aliases are alternative names for accessing the slot.
	Aliases []string

	// Default is the initial value of the slot. Use NilDefault to declare a default of nil.
	Default interface{}

	// Fixed declares the slot to always hold the given constant. Fixed and Default are mutually
	// exclusive.
	Fixed interface{}

	// Reference is true if the slot holds a non-owning pointer to an entity owned elsewhere in the
	// graph. Defaults to false.
	Reference Flag

	// Persist is false if the slot is skipped when saving. Defaults to true.
	Persist Flag
}

// Attribute is the composed, immutable declaration of a schema slot.
type Attribute struct {
	name       string
	valueType  ValueType
	aliases    []string
	defaultVal interface{}
	hasDefault bool
	fixed      interface{}
	reference  Flag
	persist    Flag
}

// NewAttribute validates config and creates an Attribute from it.
func NewAttribute(config *AttributeConfig) (*Attribute, error) {
	const op Op = "wumps.NewAttribute"

	if len(config.Name) == 0 {
		return nil, NewError("Must provide name for Attribute.", op)
	}

	if config.Default != nil && config.Fixed != nil {
		return nil, NewError(
			fmt.Sprintf(`attribute "%s" declares both a default and a fixed value`, config.Name),
			op, ErrKindSchemaConflict)
	}

	if _, ok := config.Fixed.(attributeNilValueType); ok {
		return nil, NewError(
			fmt.Sprintf(`attribute "%s" cannot be fixed to NilDefault`, config.Name),
			op, ErrKindSchemaConflict)
	}

	seen := map[string]bool{config.Name: true}
	for _, alias := range config.Aliases {
		if len(alias) == 0 {
			return nil, NewError(fmt.Sprintf(`attribute "%s" declares an empty alias`, config.Name), op)
		}
		if seen[alias] {
			return nil, NewError(
				fmt.Sprintf(`attribute "%s" declares "%s" more than once`, config.Name, alias),
				op, ErrKindSchemaConflict)
		}
		seen[alias] = true
	}

	attr := &Attribute{
		name:      config.Name,
		valueType: config.Type,
		fixed:     config.Fixed,
		reference: config.Reference,
		persist:   config.Persist,
	}

	if len(config.Aliases) > 0 {
		attr.aliases = append([]string(nil), config.Aliases...)
	}

	if config.Default != nil {
		attr.hasDefault = true
		if _, ok := config.Default.(attributeNilValueType); !ok {
			attr.defaultVal = config.Default
		}
	}

	return attr, nil
}

// Name of the attribute
func (attr *Attribute) Name() string {
	return attr.name
}

// Type of the values held by the slot; nil if untyped.
func (attr *Attribute) Type() ValueType {
	return attr.valueType
}

// Aliases returns alternative names of the attribute, in lookup priority order.
func (attr *Attribute) Aliases() []string {
	return attr.aliases
}

// Element returns the name of a single element when the slot holds a collection (e.g., "port" for
// "ports"), or an empty string otherwise.
func (attr *Attribute) Element() string {
	switch t := attr.valueType.(type) {
	case *SequenceType:
		return t.Element()
	case *NamedMapType:
		return t.Element()
	}
	return ""
}

// HasDefault returns true if the attribute declares a default value.
func (attr *Attribute) HasDefault() bool {
	return attr.hasDefault
}

// Default returns the default value.
func (attr *Attribute) Default() interface{} {
	return attr.defaultVal
}

// IsFixed returns true if the slot always holds a fixed constant.
func (attr *Attribute) IsFixed() bool {
	return attr.fixed != nil
}

// Fixed returns the fixed constant.
func (attr *Attribute) Fixed() interface{} {
	return attr.fixed
}

// IsReference returns true if the slot holds a non-owning pointer to another entity.
func (attr *Attribute) IsReference() bool {
	return attr.reference.Value(false)
}

// IsPersisted returns true if the slot is written when saving.
func (attr *Attribute) IsPersisted() bool {
	return attr.persist.Value(true)
}

// String implements fmt.Stringer.
func (attr *Attribute) String() string {
	return fmt.Sprintf("%s: %s", attr.name, valueTypeName(attr.valueType))
}

// initialValue computes the value of the slot in a new entity: the fixed constant, or a coerced
// copy of the default, or the zero value of the type.
func (attr *Attribute) initialValue() (interface{}, error) {
	switch {
	case attr.fixed != nil:
		return attr.fixed, nil

	case attr.hasDefault:
		if attr.defaultVal == nil || attr.valueType == nil {
			return attr.defaultVal, nil
		}
		// Coercion copies collection defaults so entities never share them.
		return coerceElement(attr.valueType, attr.defaultVal)

	case attr.valueType != nil:
		return attr.valueType.Zero(), nil
	}

	return nil, nil
}

// IsInitialValue returns true if value is what a new entity's slot starts with, i.e., leaving it out
// of a saved document loses nothing.
func (attr *Attribute) IsInitialValue(value interface{}) bool {
	initial, err := attr.initialValue()
	if err != nil {
		return false
	}
	return valuesEqual(initial, value)
}

// override merges attr (declared by a subtype) onto inherited, the declaration it overrides.
// Unset fields inherit silently. Fields set on both sides must agree.
func (attr *Attribute) override(inherited *Attribute) (*Attribute, error) {
	const op Op = "wumps.ComposeSchema"

	conflict := func(field string, was, now interface{}) error {
		return NewError(fmt.Sprintf(`attribute "%s" overrides %s %v with %v`, attr.name, field, was, now),
			op, ErrKindSchemaConflict)
	}

	merged := *attr

	if merged.valueType == nil {
		merged.valueType = inherited.valueType
	} else if inherited.valueType != nil && !SameValueType(merged.valueType, inherited.valueType) {
		return nil, conflict("type", valueTypeName(inherited.valueType), valueTypeName(merged.valueType))
	}

	if !merged.persist.IsSet() {
		merged.persist = inherited.persist
	} else if inherited.persist.IsSet() && merged.persist != inherited.persist {
		return nil, conflict("persist", inherited.persist, merged.persist)
	}

	if !merged.reference.IsSet() {
		merged.reference = inherited.reference
	} else if inherited.reference.IsSet() && merged.reference != inherited.reference {
		return nil, conflict("reference", inherited.reference, merged.reference)
	}

	// The overriding declaration's default or fixed value replaces the inherited pair as a whole.
	if !merged.hasDefault && merged.fixed == nil {
		merged.hasDefault = inherited.hasDefault
		merged.defaultVal = inherited.defaultVal
		merged.fixed = inherited.fixed
	}

	// Aliases of the overriding declaration come first for lookup priority.
	if len(inherited.aliases) > 0 {
		aliases := make([]string, 0, len(attr.aliases)+len(inherited.aliases))
		aliases = append(aliases, attr.aliases...)
		for _, alias := range inherited.aliases {
			if !containsString(aliases, alias) {
				aliases = append(aliases, alias)
			}
		}
		merged.aliases = aliases
	}

	return &merged, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
