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

// Registry maps type names to types. The deserializer uses it to find the type of each entity tag
// in a document.
type Registry struct {
	types  []*Type
	byName map[string]*Type
}

// NewRegistry creates a registry with the given types.
func NewRegistry(types ...*Type) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Type, len(types)),
	}
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry is a convenience function equivalent to NewRegistry but panics on failure
// instead of returning an error.
func MustNewRegistry(types ...*Type) *Registry {
	r, err := NewRegistry(types...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds t. It is idempotent for the same type; registering a different type under a name
// already taken fails with ErrKindSchemaConflict.
func (r *Registry) Register(t *Type) error {
	if t == nil {
		return NewError("cannot register nil type", Op("wumps.Registry.Register"))
	}

	if old, exists := r.byName[t.Name()]; exists {
		if old == t {
			return nil
		}
		return NewError(fmt.Sprintf(`type name "%s" is already registered`, t.Name()),
			Op("wumps.Registry.Register"), ErrKindSchemaConflict)
	}

	r.types = append(r.types, t)
	r.byName[t.Name()] = t
	return nil
}

// Lookup finds the type registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []*Type {
	return r.types
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.types)
}
