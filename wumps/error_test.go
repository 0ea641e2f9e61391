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

package wumps_test

import (
	"encoding/json"
	"errors"

	"github.com/botobag/hildegard/wumps"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func newError(message string, args ...interface{}) *wumps.Error {
	e, ok := wumps.NewError(message, args...).(*wumps.Error)
	Expect(ok).Should(BeTrue())
	return e
}

func expectSerializationResult(e error, expected string) {
	s, err := json.Marshal(e)
	Expect(err).ShouldNot(HaveOccurred())
	Expect(s).Should(MatchJSON(expected))
}

func expectOutputResult(e error, expected string) {
	Expect(e.Error()).Should(Equal(expected), e.Error())
}

var _ = Describe("Error", func() {
	var mockPath wumps.Path

	BeforeEach(func() {
		mockPath = wumps.Path{}
		mockPath.AppendIndex(0)
		mockPath.AppendName("Hierarchy")
		mockPath.AppendName("subcomponents")
		mockPath.AppendIndex(1)
	})

	It("has a message", func() {
		e := newError("msg")
		Expect(e.Message).Should(Equal("msg"))
		expectOutputResult(e, "msg")
	})

	It("rejects arguments of unknown type", func() {
		err := wumps.NewError("msg", 3.14)
		_, ok := err.(*wumps.Error)
		Expect(ok).Should(BeFalse())
		Expect(err.Error()).Should(ContainSubstring("unknown type float64"))
	})

	It("prints operation, kind and path", func() {
		e := newError("msg", wumps.Op("wumps.Entity.Set"), wumps.ErrKindImmutableAttribute, mockPath)
		expectOutputResult(e, "wumps.Entity.Set: msg in [0].Hierarchy.subcomponents[1]: immutable attribute")
	})

	It("prints locations", func() {
		e := newError("msg", wumps.ErrorLocation{Line: 3, Column: 5})
		expectOutputResult(e, "msg at [{Line:3 Column:5}]")
	})

	It("inherits kind, path and locations from the wrapped error", func() {
		location := wumps.ErrorLocation{Line: 1, Column: 2}
		inner := newError("inner", wumps.ErrKindUnresolvedReference, mockPath, location)
		outer := newError("outer", inner)

		Expect(outer.Kind).Should(Equal(wumps.ErrKindUnresolvedReference))
		Expect(outer.Path.String()).Should(Equal("[0].Hierarchy.subcomponents[1]"))
		Expect(outer.Locations).Should(Equal([]wumps.ErrorLocation{location}))
		Expect(outer.Unwrap()).Should(BeIdenticalTo(inner))

		// Duplicated information is printed once.
		expectOutputResult(outer,
			"outer at [{Line:1 Column:2}] in [0].Hierarchy.subcomponents[1]: unresolved reference:\n  inner")
	})

	It("keeps the kind given explicitly", func() {
		inner := newError("inner", wumps.ErrKindCoercion)
		outer := newError("outer", wumps.ErrKindSchemaConflict, inner)
		Expect(outer.Kind).Should(Equal(wumps.ErrKindSchemaConflict))
		expectOutputResult(outer, "outer: schema conflict:\n  inner: coercion error")
	})

	It("wraps an error that is not one of ours", func() {
		e := wumps.WrapErrorf(errors.New("boom"), "failed at %d", 3)
		expectOutputResult(e, "failed at 3: boom")
		Expect(wumps.KindOf(e)).Should(Equal(wumps.ErrKindOther))
	})

	It("reports the kind of an error", func() {
		e := newError("msg", wumps.ErrKindMalformedInput)
		Expect(wumps.KindOf(e)).Should(Equal(wumps.ErrKindMalformedInput))
		Expect(wumps.IsKind(e, wumps.ErrKindMalformedInput)).Should(BeTrue())
		Expect(wumps.IsKind(e, wumps.ErrKindCoercion)).Should(BeFalse())
		Expect(wumps.IsKind(nil, wumps.ErrKindOther)).Should(BeFalse())
		Expect(wumps.KindOf(errors.New("other"))).Should(Equal(wumps.ErrKindOther))
	})

	It("serializes to JSON", func() {
		e := newError("msg", wumps.ErrKindUnknownAttribute, mockPath, wumps.ErrorLocation{Line: 2, Column: 4})
		expectSerializationResult(e, `{
			"message": "msg",
			"kind": "unknown attribute",
			"locations": [{"line": 2, "column": 4}],
			"path": [0, "Hierarchy", "subcomponents", 1]
		}`)
	})

	It("serializes to JSON without path and locations", func() {
		expectSerializationResult(newError("msg"), `{"message": "msg", "kind": "other error"}`)
	})
})

var _ = Describe("Path", func() {
	It("prints an empty path", func() {
		Expect(wumps.Path{}.Empty()).Should(BeTrue())
		Expect(wumps.Path{}.String()).Should(BeEmpty())
	})

	It("does not modify the receiver when extended", func() {
		path := wumps.Path{}.WithIndex(0)
		child := path.WithName("Interface").WithName("ports").WithIndex(2)
		Expect(path.String()).Should(Equal("[0]"))
		Expect(child.String()).Should(Equal("[0].Interface.ports[2]"))
		Expect(path.Concat(child.Clone()).String()).Should(Equal("[0][0].Interface.ports[2]"))
	})
})
