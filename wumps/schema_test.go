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
	"github.com/botobag/hildegard/internal/testutil"
	"github.com/botobag/hildegard/wumps"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Schema", func() {
	base := []wumps.AttributeConfig{
		{
			Name:    "size",
			Type:    wumps.Int(),
			Aliases: []string{"length"},
			Default: 1,
		},
		{
			Name: "label",
			Type: wumps.String(),
		},
	}

	It("keeps declaration order", func() {
		schema, err := wumps.ComposeSchema(base, []wumps.AttributeConfig{
			{Name: "color", Type: wumps.String()},
		})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(schema.Len()).Should(Equal(3))
		Expect(schema.Names()).Should(Equal([]string{"size", "label", "color"}))
		Expect(schema.Keys()).Should(Equal([]string{"size", "length", "label", "color"}))
		Expect(schema.Attribute(2).Name()).Should(Equal("color"))
	})

	It("composes an empty schema", func() {
		schema, err := wumps.ComposeSchema()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(schema.Len()).Should(Equal(0))
		Expect(schema.Index("anything")).Should(Equal(-1))
	})

	It("merges an override onto the inherited declaration", func() {
		schema, err := wumps.ComposeSchema(base, []wumps.AttributeConfig{
			{
				Name:    "size",
				Default: 2,
				Aliases: []string{"sz"},
			},
		})
		Expect(err).ShouldNot(HaveOccurred())

		// Position, type and aliases are inherited; the default is replaced.
		Expect(schema.Names()).Should(Equal([]string{"size", "label"}))
		attr, ok := schema.Lookup("size")
		Expect(ok).Should(BeTrue())
		Expect(attr.Type()).Should(Equal(wumps.Int()))
		Expect(attr.Default()).Should(Equal(2))
		Expect(attr.Aliases()).Should(Equal([]string{"sz", "length"}))

		Expect(schema.Index("length")).Should(Equal(0))
		Expect(schema.Index("sz")).Should(Equal(0))
	})

	It("replaces an inherited default with a fixed value", func() {
		schema, err := wumps.ComposeSchema(base, []wumps.AttributeConfig{
			{
				Name:  "size",
				Fixed: 8,
			},
		})
		Expect(err).ShouldNot(HaveOccurred())

		attr, _ := schema.Lookup("length")
		Expect(attr.IsFixed()).Should(BeTrue())
		Expect(attr.Fixed()).Should(Equal(8))
		Expect(attr.HasDefault()).Should(BeFalse())
	})

	It("detects a conflicting type", func() {
		_, err := wumps.ComposeSchema(base, []wumps.AttributeConfig{
			{
				Name: "size",
				Type: wumps.String(),
			},
		})
		Expect(err).Should(testutil.MatchError(
			testutil.MessageEqual(`attribute "size" overrides type Int with String`),
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))
	})

	It("detects conflicting flags", func() {
		layer := []wumps.AttributeConfig{
			{
				Name:    "widget",
				Persist: wumps.FlagFalse,
			},
		}
		_, err := wumps.ComposeSchema(layer, []wumps.AttributeConfig{
			{
				Name:    "widget",
				Persist: wumps.FlagTrue,
			},
		})
		Expect(err).Should(testutil.MatchError(
			testutil.MessageContainSubstring("overrides persist"),
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))

		// Leaving the flag unset inherits it.
		schema, err := wumps.ComposeSchema(layer, []wumps.AttributeConfig{
			{
				Name: "widget",
			},
		})
		Expect(err).ShouldNot(HaveOccurred())
		attr, _ := schema.Lookup("widget")
		Expect(attr.IsPersisted()).Should(BeFalse())
	})

	It("accepts an override with the same collection type", func() {
		_, err := wumps.ComposeSchema([]wumps.AttributeConfig{
			{
				Name: "items",
				Type: wumps.SequenceOf(wumps.String(), "item"),
			},
		}, []wumps.AttributeConfig{
			{
				Name: "items",
				Type: wumps.SequenceOf(wumps.String(), "entry"),
			},
		})
		Expect(err).ShouldNot(HaveOccurred())

		_, err = wumps.ComposeSchema([]wumps.AttributeConfig{
			{
				Name: "items",
				Type: wumps.SequenceOf(wumps.String(), "item"),
			},
		}, []wumps.AttributeConfig{
			{
				Name: "items",
				Type: wumps.NamedMapOf(wumps.String(), "item"),
			},
		})
		Expect(err).Should(testutil.MatchError(
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))
	})

	It("rejects a name declared twice in one layer", func() {
		_, err := wumps.ComposeSchema([]wumps.AttributeConfig{
			{Name: "label"},
			{Name: "label"},
		})
		Expect(err).Should(testutil.MatchError(
			testutil.MessageEqual(`attribute "label" is declared more than once`),
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))
	})

	It("rejects an alias clashing with another attribute", func() {
		_, err := wumps.ComposeSchema(base, []wumps.AttributeConfig{
			{
				Name:    "caption",
				Aliases: []string{"label"},
			},
		})
		Expect(err).Should(testutil.MatchError(
			testutil.MessageContainSubstring(`clashes with attribute "label"`),
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))

		_, err = wumps.ComposeSchema(base, []wumps.AttributeConfig{
			{
				Name: "length",
			},
		})
		Expect(err).Should(testutil.MatchError(
			testutil.MessageContainSubstring(`clashes with an alias of "size"`),
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))
	})

	It("rejects an alias declared by two attributes of one layer", func() {
		_, err := wumps.ComposeSchema([]wumps.AttributeConfig{
			{Name: "a", Aliases: []string{"x"}},
			{Name: "b", Aliases: []string{"x"}},
		})
		Expect(err).Should(testutil.MatchError(
			testutil.MessageEqual(`alias "x" is declared by both "a" and "b"`),
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))
	})

	It("lets a derived layer take over an inherited alias", func() {
		schema, err := wumps.ComposeSchema([]wumps.AttributeConfig{
			{Name: "a", Aliases: []string{"x"}},
		}, []wumps.AttributeConfig{
			{Name: "b", Aliases: []string{"x"}},
		})
		Expect(err).ShouldNot(HaveOccurred())
		attr, ok := schema.Lookup("x")
		Expect(ok).Should(BeTrue())
		Expect(attr.Name()).Should(Equal("b"))
		Expect(schema.Keys()).Should(Equal([]string{"a", "b", "x"}))
	})

	It("does not modify the extended schema", func() {
		schema, err := wumps.ComposeSchema(base)
		Expect(err).ShouldNot(HaveOccurred())

		extended, err := schema.Extend([]wumps.AttributeConfig{
			{Name: "size", Default: 5},
			{Name: "color"},
		})
		Expect(err).ShouldNot(HaveOccurred())

		Expect(schema.Len()).Should(Equal(2))
		attr, _ := schema.Lookup("size")
		Expect(attr.Default()).Should(Equal(1))

		Expect(extended.Len()).Should(Equal(3))
		attr, _ = extended.Lookup("size")
		Expect(attr.Default()).Should(Equal(5))
	})
})
