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

// Package wumps defines typed entities whose attributes are declared per type and composed along
// the type hierarchy.
//
// A Type is created from a TypeConfig listing AttributeConfig declarations. Declarations of a
// subtype override the ones of its ancestors with the same name; the result is a Schema computed
// once when the type is created. Entities are instances of a Type:
//
//	port := wumps.MustNewType(&wumps.TypeConfig{Name: "Port"})
//	iface := wumps.MustNewType(&wumps.TypeConfig{
//		Name: "Interface",
//		Attributes: []wumps.AttributeConfig{
//			{
//				Name:    "ports",
//				Type:    wumps.NamedMapOf(port, "port"),
//				Aliases: []string{"port"},
//			},
//		},
//	})
//
//	if1 := iface.MustNew(wumps.With("name", "if1"))
//	ports := if1.MustGet("port").(*wumps.NamedMap)
//	ports.Put("clk", port.MustNew())
//
// Graphs of entities are saved to and loaded from text documents by package serial.
package wumps
