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

// NamedMapType is the ValueType of a named collection: an insertion-ordered map from names to
// elements.
type NamedMapType struct {
	elementType ValueType
	element     string
}

var _ ValueType = (*NamedMapType)(nil)

// NamedMapOf returns the type of a named map holding values of elementType. element names a single
// element (e.g., "port").
func NamedMapOf(elementType ValueType, element string) *NamedMapType {
	return &NamedMapType{
		elementType: elementType,
		element:     element,
	}
}

// ElementType returns the type of the elements.
func (t *NamedMapType) ElementType() ValueType {
	return t.elementType
}

// Element returns the name of a single element.
func (t *NamedMapType) Element() string {
	return t.element
}

func (t *NamedMapType) elementName() string {
	if len(t.element) == 0 {
		return "element"
	}
	return t.element
}

// Name implements ValueType.
func (t *NamedMapType) Name() string {
	return fmt.Sprintf("NamedMapOf(%s)", valueTypeName(t.elementType))
}

// String implements fmt.Stringer.
func (t *NamedMapType) String() string {
	return t.Name()
}

// Zero implements ValueType. It returns a new empty map.
func (t *NamedMapType) Zero() interface{} {
	return t.newNamedMap()
}

func (t *NamedMapType) newNamedMap() *NamedMap {
	return &NamedMap{
		t:     t,
		index: map[string]int{},
	}
}

// Coerce implements ValueType. It accepts nil (an empty map), a *NamedMap, a NamedItem, a
// []NamedItem, or a list of entities ([]*Entity or []interface{}) which are keyed by their names. It
// always returns a new map.
func (t *NamedMapType) Coerce(value interface{}) (interface{}, error) {
	m := t.newNamedMap()

	switch value := value.(type) {
	case nil:
		return m, nil

	case *NamedMap:
		if value != nil {
			for _, item := range value.items {
				if err := m.Put(item.Key, item.Value); err != nil {
					return nil, err
				}
			}
		}
		return m, nil

	case NamedItem:
		if err := m.Put(value.Key, value.Value); err != nil {
			return nil, err
		}
		return m, nil

	case []NamedItem:
		for _, item := range value {
			if err := m.Put(item.Key, item.Value); err != nil {
				return nil, err
			}
		}
		return m, nil

	case []*Entity:
		for _, e := range value {
			if err := m.putEntity(e); err != nil {
				return nil, err
			}
		}
		return m, nil

	case []interface{}:
		for _, item := range value {
			var err error
			switch item := item.(type) {
			case *Entity:
				err = m.putEntity(item)
			case NamedItem:
				err = m.Put(item.Key, item.Value)
			default:
				err = newCoercionError("%s cannot represent %T without a name", t.Name(), item)
			}
			if err != nil {
				return nil, err
			}
		}
		return m, nil
	}

	return nil, newCoercionError("%s cannot represent %T", t.Name(), value)
}

// NamedItem is an entry of a NamedMap.
type NamedItem struct {
	Key   string
	Value interface{}
}

// NamedMap is an insertion-ordered map from names to elements. Putting an entity under a key sets
// the entity's name to the key, so keys and names stay in sync.
type NamedMap struct {
	t     *NamedMapType
	items []NamedItem
	// Maps keys to the position in items.
	index map[string]int
}

// Type returns the type of the map.
func (m *NamedMap) Type() *NamedMapType {
	return m.t
}

// Len returns the number of entries.
func (m *NamedMap) Len() int {
	return len(m.items)
}

// Put coerces value to the element type and stores it under key. When the stored value is an
// entity, its name is set to key. Putting an existing key replaces the value in place.
func (m *NamedMap) Put(key string, value interface{}) error {
	v, err := coerceElement(m.t.elementType, value)
	if err != nil {
		path := Path{}
		path.AppendName(key)
		return NewError(fmt.Sprintf("invalid %s for %s", m.t.elementName(), m.t.Name()), path, err)
	}

	if e, ok := v.(*Entity); ok && e != nil {
		if err := e.SetName(key); err != nil {
			return err
		}
	}

	if i, exists := m.index[key]; exists {
		m.items[i].Value = v
		return nil
	}

	m.index[key] = len(m.items)
	m.items = append(m.items, NamedItem{Key: key, Value: v})
	return nil
}

func (m *NamedMap) putEntity(e *Entity) error {
	if e == nil {
		return newCoercionError("%s cannot hold a nil entity without a name", m.t.Name())
	}
	return m.Put(e.Name(), e)
}

// Get returns the value stored under key.
func (m *NamedMap) Get(key string) (interface{}, bool) {
	if i, ok := m.index[key]; ok {
		return m.items[i].Value, true
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (m *NamedMap) Keys() []string {
	keys := make([]string, len(m.items))
	for i, item := range m.items {
		keys[i] = item.Key
	}
	return keys
}

// Items returns a copy of the entries in insertion order.
func (m *NamedMap) Items() []NamedItem {
	if len(m.items) == 0 {
		return nil
	}
	items := make([]NamedItem, len(m.items))
	copy(items, m.items)
	return items
}

// Delete removes the entry under key. It returns false if there was none.
func (m *NamedMap) Delete(key string) bool {
	i, ok := m.index[key]
	if !ok {
		return false
	}

	m.items = append(m.items[:i], m.items[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.items); j++ {
		m.index[m.items[j].Key] = j
	}
	return true
}

// Each calls fn for each entry in insertion order, stopping at the first error.
func (m *NamedMap) Each(fn func(key string, value interface{}) error) error {
	for _, item := range m.items {
		if err := fn(item.Key, item.Value); err != nil {
			return err
		}
	}
	return nil
}
