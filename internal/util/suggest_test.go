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

package util_test

import (
	"github.com/botobag/hildegard/internal/util"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("SuggestKeys", func() {
	It("returns nothing without keys", func() {
		Expect(util.SuggestKeys("nmae", nil)).Should(BeEmpty())
		Expect(util.SuggestKeys("interface", []string{""})).Should(BeEmpty())
	})

	It("suggests single-character keys for an empty input", func() {
		Expect(util.SuggestKeys("", []string{"x", "name"})).Should(Equal([]string{"x"}))
	})

	It("orders keys by distance", func() {
		Expect(util.SuggestKeys("widht", []string{"name", "widget", "width"})).Should(Equal([]string{"width", "widget"}))
	})

	It("keeps the declaration order of keys at the same distance", func() {
		Expect(util.SuggestKeys("port", []string{"sort", "ports", "part"})).Should(Equal([]string{"sort", "ports", "part"}))
		Expect(util.SuggestKeys("port", []string{"part", "ports", "sort"})).Should(Equal([]string{"part", "ports", "sort"}))
	})

	It("treats a case change as a single edit", func() {
		Expect(util.SuggestKeys("Name", []string{"name", "game"})).Should(Equal([]string{"name", "game"}))
		Expect(util.SuggestKeys("SINK", []string{"sink", "source"})).Should(Equal([]string{"sink"}))
	})

	It("treats a swap of adjacent characters as a single edit", func() {
		Expect(util.SuggestKeys("nmae", []string{"interface", "name"})).Should(Equal([]string{"name"}))
		Expect(util.SuggestKeys("implementaion", []string{"implementation"})).Should(Equal([]string{"implementation"}))
	})

	It("rejects long keys that need more than three edits", func() {
		Expect(util.SuggestKeys("subcomponents", []string{"component", "components", "connections"})).Should(Equal([]string{"components"}))
		Expect(util.SuggestKeys("implementation", []string{"implementor", "interface"})).Should(BeEmpty())
	})

	It("lists each key once", func() {
		Expect(util.SuggestKeys("prots", []string{"ports", "port", "ports"})).Should(Equal([]string{"ports", "port"}))
	})
})
