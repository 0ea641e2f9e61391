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

// Package view declares the entity types of the views an editor opens on a component model. A view
// refers to the entity it shows (its subject); the widget displaying it exists only while the view
// is open and is never saved.
package view

import (
	"github.com/botobag/hildegard/pidgen"
	"github.com/botobag/hildegard/wumps"
)

// View is the base of all views.
var View = wumps.MustNewType(&wumps.TypeConfig{
	Name: "View",
	Attributes: []wumps.AttributeConfig{
		{
			Name:    "widget",
			Default: wumps.NilDefault,
			Persist: wumps.FlagFalse,
		},
	},
})

// Diagram shows a Hierarchy.
var Diagram = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Diagram",
	Base: View,
	Attributes: []wumps.AttributeConfig{
		{
			Name:      "hierarchy",
			Type:      pidgen.Hierarchy,
			Aliases:   []string{"subject"},
			Reference: wumps.FlagTrue,
		},
	},
})

// Block shows an Instance within a Diagram.
var Block = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Block",
	Base: View,
	Attributes: []wumps.AttributeConfig{
		{
			Name:      "instance",
			Type:      pidgen.Instance,
			Aliases:   []string{"subject"},
			Reference: wumps.FlagTrue,
		},
	},
})

var registry = newRegistry()

func newRegistry() *wumps.Registry {
	types := append([]*wumps.Type{}, pidgen.Registry().Types()...)
	types = append(types, View, Diagram, Block)
	return wumps.MustNewRegistry(types...)
}

// Registry returns the registry of the component model and the views on it.
func Registry() *wumps.Registry {
	return registry
}

// New creates a view of type t showing subject. Unless inits name the view, it takes the name of
// its subject.
func New(t *wumps.Type, subject *wumps.Entity, inits ...wumps.Init) (*wumps.Entity, error) {
	if subject != nil {
		inits = append([]wumps.Init{wumps.With("subject", subject)}, inits...)
	}
	v, err := t.New(inits...)
	if err != nil {
		return nil, err
	}

	if len(v.Name()) == 0 && subject != nil {
		if err := v.SetName(subject.Name()); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Subject returns the entity shown by v, or nil if v shows nothing.
func Subject(v *wumps.Entity) *wumps.Entity {
	if !v.Has("subject") {
		return nil
	}
	subject, _ := v.MustGet("subject").(*wumps.Entity)
	return subject
}
