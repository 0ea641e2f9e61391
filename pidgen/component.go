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

// Package pidgen declares the entity types of the component model: interfaces with ports,
// implementations of interfaces, instances placed in hierarchies and the connections between them.
package pidgen

import (
	"github.com/botobag/hildegard/wumps"
)

// Port is a named point of an Interface.
var Port = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Port",
})

// Interface is a named collection of ports.
var Interface = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Interface",
	Attributes: []wumps.AttributeConfig{
		{
			Name: "ports",
			Type: wumps.NamedMapOf(Port, "port"),
		},
	},
})

// Implementation realizes an Interface.
var Implementation = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Implementation",
	Attributes: []wumps.AttributeConfig{
		{
			Name:      "interface",
			Type:      Interface,
			Reference: wumps.FlagTrue,
		},
	},
})

// Instance is a use of an Implementation of an Interface within a Hierarchy.
var Instance = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Instance",
	Attributes: []wumps.AttributeConfig{
		{
			Name:      "interface",
			Type:      Interface,
			Reference: wumps.FlagTrue,
		},
		{
			Name:      "implementation",
			Type:      Implementation,
			Reference: wumps.FlagTrue,
		},
	},
})

// Channel carries the signal of a Connection.
var Channel = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Channel",
})

// Endpoint is one end of a Connection. Documents written before endpoints pointed at ports call
// the attribute "connector".
var Endpoint = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Endpoint",
	Attributes: []wumps.AttributeConfig{
		{
			Name:      "port",
			Type:      Port,
			Aliases:   []string{"connector"},
			Reference: wumps.FlagTrue,
		},
	},
})

// Connection joins source endpoints to sink endpoints through a channel.
var Connection = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Connection",
	Attributes: []wumps.AttributeConfig{
		{
			Name: "channel",
			Type: Channel,
		},
		{
			Name: "source",
			Type: wumps.SequenceOf(Endpoint, "endpoint"),
		},
		{
			Name: "sink",
			Type: wumps.SequenceOf(Endpoint, "endpoint"),
		},
	},
})

// Hierarchy is an Implementation composed of instances of other implementations.
var Hierarchy = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Hierarchy",
	Base: Implementation,
	Attributes: []wumps.AttributeConfig{
		{
			Name: "subcomponents",
			Type: wumps.NamedMapOf(Instance, "subcomponent"),
		},
		{
			Name: "connections",
			Type: wumps.SequenceOf(Connection, "connection"),
		},
	},
})

// Component is the legacy, self-contained form of a component: a titled set of ports.
var Component = wumps.MustNewType(&wumps.TypeConfig{
	Name: "Component",
	Attributes: []wumps.AttributeConfig{
		{
			Name:    "title",
			Type:    wumps.String(),
			Default: "untitled",
		},
		{
			Name:    "ports",
			Type:    wumps.NamedMapOf(Port, "port"),
			Aliases: []string{"port"},
		},
	},
})

var registry = wumps.MustNewRegistry(
	Port,
	Interface,
	Implementation,
	Instance,
	Channel,
	Endpoint,
	Connection,
	Hierarchy,
	Component,
)

// Registry returns the registry of all types in the component model.
func Registry() *wumps.Registry {
	return registry
}
