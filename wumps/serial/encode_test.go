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

package serial_test

import (
	"bytes"
	"math"

	"github.com/botobag/hildegard/internal/testutil"
	"github.com/botobag/hildegard/wumps"
	"github.com/botobag/hildegard/wumps/serial"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
)

var _ = Describe("Encoder", func() {
	var (
		logger  *logrus.Logger
		hook    *logrustest.Hook
		encoder *serial.Encoder
	)

	BeforeEach(func() {
		logger, hook = logrustest.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		encoder = serial.NewEncoder(&serial.EncoderConfig{
			Logger: logger,
			Header: true,
		})
	})

	marshal := func(entities ...*wumps.Entity) []byte {
		data, err := encoder.Marshal(entities...)
		Expect(err).ShouldNot(HaveOccurred())
		return data
	}

	It("writes the header", func() {
		data := marshal(PortType.MustNew())
		Expect(string(data)).Should(HavePrefix("# {format: \"yaml\", version: 0}\n"))
		Expect(*parse(data).Header).Should(Equal(serial.CurrentHeader))

		data, err := serial.NewEncoder(&serial.EncoderConfig{Logger: logger}).Marshal(PortType.MustNew())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(string(data)).ShouldNot(HavePrefix("#"))
	})

	It("writes an empty list of entities", func() {
		data := marshal()
		Expect(parse(data).Roots).Should(BeEmpty())
	})

	It("writes owned entities in place", func() {
		iface := InterfaceType.MustNew(wumps.With("name", "if1"))
		ports := iface.MustGet("ports").(*wumps.NamedMap)
		Expect(ports.Put("clk", PortType.MustNew())).Should(Succeed())
		Expect(ports.Put("rst", PortType.MustNew())).Should(Succeed())

		Expect(plainRoots(parse(marshal(iface)))).Should(Equal([]interface{}{
			map[string]interface{}{
				"Interface": map[string]interface{}{
					"name": "if1",
					"ports": []interface{}{
						map[string]interface{}{"Port": map[string]interface{}{"name": "clk"}},
						map[string]interface{}{"Port": map[string]interface{}{"name": "rst"}},
					},
				},
			},
		}))
	})

	It("writes empty collections as empty lists", func() {
		data := marshal(HierarchyType.MustNew())
		Expect(string(data)).Should(ContainSubstring("subcomponents: []"))
		Expect(string(data)).Should(ContainSubstring("connections: []"))
	})

	It("writes references as identity tokens in discovery order", func() {
		iface := InterfaceType.MustNew(wumps.With("name", "if1"))
		impl := ImplementationType.MustNew(wumps.With("name", "im1"), wumps.With("interface", iface))
		top := HierarchyType.MustNew(wumps.With("name", "top"))
		subcomponents := top.MustGet("subcomponents").(*wumps.NamedMap)
		Expect(subcomponents.Put("SC1", InstanceType.MustNew(
			wumps.With("interface", iface),
			wumps.With("implementation", impl),
		))).Should(Succeed())

		tree := parse(marshal(iface, impl, top))
		Expect(plainRoots(tree)).Should(Equal([]interface{}{
			map[string]interface{}{
				"Interface": map[string]interface{}{
					"_id":   1,
					"name":  "if1",
					"ports": []interface{}{},
				},
			},
			map[string]interface{}{
				"Implementation": map[string]interface{}{
					"_id":       2,
					"name":      "im1",
					"interface": 1,
				},
			},
			map[string]interface{}{
				"Hierarchy": map[string]interface{}{
					"name": "top",
					"subcomponents": []interface{}{
						map[string]interface{}{
							"Instance": map[string]interface{}{
								"name":           "SC1",
								"interface":      1,
								"implementation": 2,
							},
						},
					},
					"connections": []interface{}{},
				},
			},
		}))

		// The identity token comes first.
		fields := tree.Roots[0].Value.(serial.Fields)
		Expect(fields.Keys()).Should(Equal([]string{"_id", "name", "ports"}))

		Expect(hook.Entries).ShouldNot(ContainElement(
			WithTransform(func(entry logrus.Entry) logrus.Level { return entry.Level }, Equal(logrus.WarnLevel)),
		))
	})

	It("writes sequences of references as lists of tokens", func() {
		a := PortType.MustNew(wumps.With("name", "a"))
		b := PortType.MustNew(wumps.With("name", "b"))
		bus := BusType.MustNew(wumps.With("members", []*wumps.Entity{b, a, b}))

		Expect(plainRoots(parse(marshal(a, b, bus)))).Should(Equal([]interface{}{
			map[string]interface{}{"Port": map[string]interface{}{"_id": 2, "name": "a"}},
			map[string]interface{}{"Port": map[string]interface{}{"_id": 1, "name": "b"}},
			map[string]interface{}{"Bus": map[string]interface{}{"members": []interface{}{1, 2, 1}}},
		}))
	})

	It("skips fixed, transient and unchanged attributes", func() {
		note := NoteType.MustNew(wumps.With("cache", "scratch"))
		Expect(note.MustGet("kind")).Should(Equal("note"))

		Expect(plainRoots(parse(marshal(note)))).Should(Equal([]interface{}{
			map[string]interface{}{
				"Note": map[string]interface{}{
					"values": []interface{}{},
					"counts": []interface{}{},
				},
			},
		}))
	})

	It("writes an owned entity in a single-item list", func() {
		note := NoteType.MustNew(wumps.With("child", PortType.MustNew(wumps.With("name", "p"))))

		Expect(plainRoots(parse(marshal(note)))).Should(Equal([]interface{}{
			map[string]interface{}{
				"Note": map[string]interface{}{
					"values": []interface{}{},
					"counts": []interface{}{},
					"child": []interface{}{
						map[string]interface{}{"Port": map[string]interface{}{"name": "p"}},
					},
				},
			},
		}))
	})

	It("writes an entity of an untyped slot as a single-key map", func() {
		note := NoteType.MustNew(wumps.With("value", PortType.MustNew(wumps.With("name", "p"))))

		Expect(plainRoots(parse(marshal(note)))).Should(Equal([]interface{}{
			map[string]interface{}{
				"Note": map[string]interface{}{
					"value":  map[string]interface{}{"Port": map[string]interface{}{"name": "p"}},
					"values": []interface{}{},
					"counts": []interface{}{},
				},
			},
		}))
	})

	It("writes named values as single-key maps", func() {
		note := NoteType.MustNew()
		counts := note.MustGet("counts").(*wumps.NamedMap)
		Expect(counts.Put("b", 2)).Should(Succeed())
		Expect(counts.Put("a", 1)).Should(Succeed())

		tree := parse(marshal(note))
		fields := tree.Roots[0].Value.(serial.Fields)
		value, _ := fields.Get("counts")
		Expect(plain(value)).Should(Equal([]interface{}{
			map[string]interface{}{"b": 2},
			map[string]interface{}{"a": 1},
		}))
	})

	It("writes floats that read back as floats", func() {
		note := NoteType.MustNew(
			wumps.With("weight", 3),
			wumps.With("values", []interface{}{1.0, -2.0, 0.5, 1e21, math.Inf(1), math.Inf(-1), 1}),
		)

		tree := parse(marshal(note))
		fields := tree.Roots[0].Value.(serial.Fields)

		weight, _ := fields.Get("weight")
		Expect(weight).Should(Equal(3.0))

		values, _ := fields.Get("values")
		Expect(values).Should(Equal([]interface{}{1.0, -2.0, 0.5, 1e21, math.Inf(1), math.Inf(-1), 1}))
	})

	It("quotes strings that look like other scalars", func() {
		note := NoteType.MustNew(wumps.With("values", []interface{}{"1", "true", "null", "1.5", "~", ""}))

		tree := parse(marshal(note))
		fields := tree.Roots[0].Value.(serial.Fields)
		values, _ := fields.Get("values")
		Expect(values).Should(Equal([]interface{}{"1", "true", "null", "1.5", "~", ""}))
	})

	It("warns about references to entities written later", func() {
		iface := InterfaceType.MustNew(wumps.With("name", "if1"))
		impl := ImplementationType.MustNew(wumps.With("interface", iface))

		marshal(impl, iface)

		Expect(hook.Entries).Should(ContainElement(
			WithTransform(func(entry logrus.Entry) logrus.Level { return entry.Level }, Equal(logrus.WarnLevel)),
		))
	})

	It("logs a summary", func() {
		marshal(PortType.MustNew())
		Expect(hook.LastEntry()).ShouldNot(BeNil())
		Expect(hook.LastEntry().Message).Should(Equal("encoded document"))
		Expect(hook.LastEntry().Data).Should(HaveKeyWithValue("roots", 1))
	})

	Describe("fails", func() {
		It("on a reference to an entity outside the graph", func() {
			iface := InterfaceType.MustNew(wumps.With("name", "if1"))
			top := HierarchyType.MustNew()
			subcomponents := top.MustGet("subcomponents").(*wumps.NamedMap)
			Expect(subcomponents.Put("SC1", InstanceType.MustNew(wumps.With("interface", iface)))).Should(Succeed())

			var buf bytes.Buffer
			err := encoder.Encode(&buf, top)
			Expect(err).Should(testutil.MatchError(
				testutil.MessageContainSubstring("is referenced but not saved with the graph"),
				testutil.KindIs(wumps.ErrKindUnresolvedReference),
				testutil.PathEqual("[0].Hierarchy.subcomponents[0].Instance.interface"),
			))

			// Nothing is written.
			Expect(buf.Len()).Should(BeZero())
		})

		It("on an entity owned twice", func() {
			port := PortType.MustNew()
			a := InterfaceType.MustNew()
			b := InterfaceType.MustNew()
			Expect(a.MustGet("ports").(*wumps.NamedMap).Put("p", port)).Should(Succeed())
			Expect(b.MustGet("ports").(*wumps.NamedMap).Put("q", port)).Should(Succeed())

			_, err := encoder.Marshal(a, b)
			Expect(err).Should(testutil.MatchError(
				testutil.MessageContainSubstring("is owned more than once"),
				testutil.PathEqual("[1].Interface.ports[0]"),
			))
		})

		It("on a nil entity", func() {
			_, err := encoder.Marshal(PortType.MustNew(), nil)
			Expect(err).Should(testutil.MatchError(
				testutil.MessageEqual("cannot save a nil entity"),
				testutil.PathEqual("[1]"),
			))
		})

		It("on a value without a document form", func() {
			note := NoteType.MustNew(wumps.With("value", struct{ X int }{1}))
			_, err := encoder.Marshal(note)
			Expect(err).Should(HaveOccurred())
			Expect(err.Error()).Should(ContainSubstring("cannot write value of type"))
		})
	})
})
