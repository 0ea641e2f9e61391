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
	"strconv"
	"strings"

	"github.com/botobag/hildegard/wumps/serial"

	"github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

func printCommand(app *kingpin.Application) (*kingpin.CmdClause, KingpinHandler) {
	cmd := app.Command("print", "parses a document and prints its generic structure")
	file := cmd.Arg("file", `document to print; "-" reads standard input`).Required().String()
	asJSON := cmd.Flag("json", "print as JSON").Bool()

	return cmd, func(input string) int {
		if err := printDocument(os.Stdout, *file, *asJSON); err != nil {
			logrus.WithError(err).Error("print failed")
			return 1
		}
		return 0
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	return f, nil
}

func printDocument(w io.Writer, path string, asJSON bool) error {
	r, err := openInput(path)
	if err != nil {
		return err
	}
	defer r.Close()

	tree, err := serial.ParseTree(r)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(tree, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode JSON")
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return errors.Wrap(err, "failed to write output")
	}

	var b strings.Builder
	if tree.Header != nil {
		fmt.Fprintf(&b, "# %s\n", tree.Header)
	}
	items := make([]interface{}, len(tree.Roots))
	for i, root := range tree.Roots {
		items[i] = root
	}
	dumpValue(&b, items, 0)
	b.WriteString("\n")

	_, err = io.WriteString(w, b.String())
	return errors.Wrap(err, "failed to write output")
}

// dumpValue writes the generic value in a compact nested form with one child per line.
func dumpValue(b *strings.Builder, value interface{}, depth int) {
	indent := func(depth int) {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", depth))
	}

	switch value := value.(type) {
	case []interface{}:
		if len(value) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[")
		for i, item := range value {
			if i > 0 {
				b.WriteString(",")
				indent(depth + 1)
			}
			dumpValue(b, item, depth+1)
		}
		b.WriteString("]")

	case serial.Tagged:
		b.WriteString("{")
		b.WriteString(strconv.Quote(value.Tag))
		b.WriteString(": ")
		dumpValue(b, value.Value, depth+len(value.Tag)+5)
		b.WriteString("}")

	case serial.Fields:
		if len(value) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{")
		for i, field := range value {
			if i > 0 {
				b.WriteString(",")
				indent(depth + 1)
			}
			b.WriteString(strconv.Quote(field.Key))
			b.WriteString(": ")
			dumpValue(b, field.Value, depth+len(field.Key)+5)
		}
		b.WriteString("}")

	case string:
		b.WriteString(strconv.Quote(value))

	case nil:
		b.WriteString("null")

	default:
		fmt.Fprintf(b, "%v", value)
	}
}
