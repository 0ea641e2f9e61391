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

var _ = Describe("Attribute", func() {
	It("requires a name", func() {
		_, err := wumps.NewAttribute(&wumps.AttributeConfig{})
		Expect(err).Should(testutil.MatchError(
			testutil.MessageEqual("Must provide name for Attribute."),
		))
	})

	It("has defaults for unset flags", func() {
		attr, err := wumps.NewAttribute(&wumps.AttributeConfig{
			Name: "title",
			Type: wumps.String(),
		})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(attr.Name()).Should(Equal("title"))
		Expect(attr.Type()).Should(Equal(wumps.String()))
		Expect(attr.Aliases()).Should(BeEmpty())
		Expect(attr.HasDefault()).Should(BeFalse())
		Expect(attr.IsFixed()).Should(BeFalse())
		Expect(attr.IsReference()).Should(BeFalse())
		Expect(attr.IsPersisted()).Should(BeTrue())
		Expect(attr.String()).Should(Equal("title: String"))
		Expect(attr.Element()).Should(BeEmpty())
	})

	It("takes the element name from its collection type", func() {
		attr, err := wumps.NewAttribute(&wumps.AttributeConfig{
			Name: "endpoints",
			Type: wumps.SequenceOf(wumps.String(), "endpoint"),
		})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(attr.Element()).Should(Equal("endpoint"))

		attr, err = wumps.NewAttribute(&wumps.AttributeConfig{
			Name: "ports",
			Type: wumps.NamedMapOf(nil, "port"),
		})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(attr.Element()).Should(Equal("port"))
	})

	It("distinguishes a nil default from no default", func() {
		attr, err := wumps.NewAttribute(&wumps.AttributeConfig{
			Name:    "widget",
			Default: wumps.NilDefault,
			Persist: wumps.FlagFalse,
		})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(attr.HasDefault()).Should(BeTrue())
		Expect(attr.Default()).Should(BeNil())
		Expect(attr.IsPersisted()).Should(BeFalse())
		Expect(attr.String()).Should(Equal("widget: any"))
	})

	It("rejects both a default and a fixed value", func() {
		_, err := wumps.NewAttribute(&wumps.AttributeConfig{
			Name:    "kind",
			Default: "a",
			Fixed:   "b",
		})
		Expect(err).Should(testutil.MatchError(
			testutil.MessageContainSubstring("both a default and a fixed value"),
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))
	})

	It("rejects a fixed value of NilDefault", func() {
		_, err := wumps.NewAttribute(&wumps.AttributeConfig{
			Name:  "kind",
			Fixed: wumps.NilDefault,
		})
		Expect(err).Should(testutil.MatchError(
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))
	})

	It("rejects empty and repeated aliases", func() {
		_, err := wumps.NewAttribute(&wumps.AttributeConfig{
			Name:    "ports",
			Aliases: []string{""},
		})
		Expect(err).Should(testutil.MatchError(
			testutil.MessageContainSubstring("empty alias"),
		))

		_, err = wumps.NewAttribute(&wumps.AttributeConfig{
			Name:    "ports",
			Aliases: []string{"port", "port"},
		})
		Expect(err).Should(testutil.MatchError(
			testutil.MessageContainSubstring(`declares "port" more than once`),
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))

		_, err = wumps.NewAttribute(&wumps.AttributeConfig{
			Name:    "ports",
			Aliases: []string{"ports"},
		})
		Expect(err).Should(testutil.MatchError(
			testutil.KindIs(wumps.ErrKindSchemaConflict),
		))
	})

	It("tells whether a value is the initial value of the slot", func() {
		attr, err := wumps.NewAttribute(&wumps.AttributeConfig{
			Name:    "count",
			Type:    wumps.Int(),
			Default: 3,
		})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(attr.IsInitialValue(3)).Should(BeTrue())
		Expect(attr.IsInitialValue(4)).Should(BeFalse())

		attr, err = wumps.NewAttribute(&wumps.AttributeConfig{
			Name: "ratio",
			Type: wumps.Float(),
		})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(attr.IsInitialValue(float64(0))).Should(BeTrue())
		Expect(attr.IsInitialValue(nil)).Should(BeFalse())
	})
})

var _ = Describe("Flag", func() {
	It("falls back to the default when unset", func() {
		Expect(wumps.FlagUnset.IsSet()).Should(BeFalse())
		Expect(wumps.FlagUnset.Value(true)).Should(BeTrue())
		Expect(wumps.FlagUnset.Value(false)).Should(BeFalse())
		Expect(wumps.FlagOf(true)).Should(Equal(wumps.FlagTrue))
		Expect(wumps.FlagOf(false).Value(true)).Should(BeFalse())
		Expect(wumps.FlagTrue.String()).Should(Equal("true"))
		Expect(wumps.FlagUnset.String()).Should(Equal("unset"))
	})
})
