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

// WalkFunc is called by Walk for each entity. path locates the entity from the roots, e.g.
// "[0].Hierarchy.subcomponents[1]".
type WalkFunc func(e *Entity, path Path) error

// Walk visits roots and the entities they own in depth-first order, parents before children.
// Entities held by reference attributes are not owned and therefore not visited through the
// reference. Walk stops at the first error returned by fn, and fails when an entity is reached
// twice through ownership, which includes an entity that owns itself.
func Walk(roots []*Entity, fn WalkFunc) error {
	w := walker{
		fn:      fn,
		visited: map[*Entity]bool{},
	}
	for i, e := range roots {
		path := Path{}
		path.AppendIndex(i)
		if err := w.walkValue(e, path); err != nil {
			return err
		}
	}
	return nil
}

type walker struct {
	fn      WalkFunc
	visited map[*Entity]bool
}

func (w *walker) walkValue(value interface{}, path Path) error {
	switch value := value.(type) {
	case *Entity:
		if value == nil {
			return nil
		}
		if w.visited[value] {
			return NewError(fmt.Sprintf("%s is owned more than once", value), Op("wumps.Walk"), path)
		}
		w.visited[value] = true

		if err := w.fn(value, path); err != nil {
			return err
		}
		path = path.WithName(value.Type().Name())
		return value.Each(func(attr *Attribute, v interface{}) error {
			if attr.IsReference() {
				return nil
			}
			return w.walkValue(v, path.WithName(attr.Name()))
		})

	case *Sequence:
		for i, item := range value.items {
			if err := w.walkValue(item, path.WithIndex(i)); err != nil {
				return err
			}
		}

	case *NamedMap:
		for i, item := range value.items {
			if err := w.walkValue(item.Value, path.WithIndex(i)); err != nil {
				return err
			}
		}

	case []interface{}:
		for i, item := range value {
			if err := w.walkValue(item, path.WithIndex(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// References returns the entities held by the reference attributes of e, in schema order.
func References(e *Entity) []*Entity {
	var targets []*Entity
	for i, attr := range e.t.Schema().Attributes() {
		if !attr.IsReference() {
			continue
		}
		switch value := e.values[i].(type) {
		case *Entity:
			if value != nil {
				targets = append(targets, value)
			}
		case *Sequence:
			targets = append(targets, value.Entities()...)
		}
	}
	return targets
}
