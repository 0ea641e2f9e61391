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

package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/botobag/hildegard/view"
	"github.com/botobag/hildegard/wumps"
	"github.com/botobag/hildegard/wumps/serial"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

func checkCommand(app *kingpin.Application) (*kingpin.CmdClause, KingpinHandler) {
	cmd := app.Command("check", "loads a component document and summarizes its entities")
	file := cmd.Arg("file", "document to check").Required().ExistingFile()
	forward := cmd.Flag("forward-references", "allow references to entities written later in the document").Bool()

	return cmd, func(input string) int {
		if err := checkDocument(os.Stdout, *file, *forward); err != nil {
			logrus.WithError(err).Error("check failed")
			return 1
		}
		return 0
	}
}

// documentSummary is what check reports about a document.
type documentSummary struct {
	Size     uint64
	Roots    int
	Entities int
	ByType   map[string]int
	// Entities targeted by at least one reference
	Shared int
}

func summarize(roots []*wumps.Entity) (documentSummary, error) {
	summary := documentSummary{
		Roots:  len(roots),
		ByType: map[string]int{},
	}

	shared := map[*wumps.Entity]bool{}
	err := wumps.Walk(roots, func(e *wumps.Entity, path wumps.Path) error {
		summary.Entities++
		summary.ByType[e.Type().Name()]++
		for _, target := range wumps.References(e) {
			shared[target] = true
		}
		return nil
	})
	if err != nil {
		return documentSummary{}, errors.Wrap(err, "failed to summarize document")
	}
	summary.Shared = len(shared)

	return summary, nil
}

func (summary documentSummary) write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "size: %s\n", humanize.Bytes(summary.Size))
	fmt.Fprintf(&b, "roots: %s\n", humanize.Comma(int64(summary.Roots)))
	fmt.Fprintf(&b, "entities: %s\n", humanize.Comma(int64(summary.Entities)))
	fmt.Fprintf(&b, "shared: %s\n", humanize.Comma(int64(summary.Shared)))

	names := make([]string, 0, len(summary.ByType))
	for name := range summary.ByType {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %s\n", name, humanize.Comma(int64(summary.ByType[name])))
	}

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "failed to write output")
}

func checkDocument(w io.Writer, path string, forward bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", path)
	}

	decoder, err := serial.NewDecoder(&serial.DecoderConfig{
		Registry:                 view.Registry(),
		ResolveForwardReferences: forward,
	})
	if err != nil {
		return err
	}

	roots, err := decoder.Load(path)
	if err != nil {
		return err
	}

	summary, err := summarize(roots)
	if err != nil {
		return err
	}
	summary.Size = uint64(info.Size())
	return summary.write(w)
}
