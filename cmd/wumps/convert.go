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
	"bytes"
	"io/ioutil"
	"os"

	"github.com/botobag/hildegard/pidgen"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"
)

func convertCommand(app *kingpin.Application) (*kingpin.CmdClause, KingpinHandler) {
	cmd := app.Command("convert", "rewrites connections of a version 0.0 document into endpoint lists")
	file := cmd.Arg("file", `document to convert; "-" reads standard input`).Required().String()
	output := cmd.Flag("output", "file to write; defaults to standard output").Short('o').String()

	return cmd, func(input string) int {
		if err := convertFile(*file, *output); err != nil {
			logrus.WithError(err).Error("convert failed")
			return 1
		}
		return 0
	}
}

func convertFile(path string, output string) error {
	r, err := openInput(path)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	converted, count, err := convertDocument(data)
	if err != nil {
		return err
	}
	logrus.WithField("count", count).Info("converted connection ends")

	if len(output) == 0 {
		_, err = os.Stdout.Write(converted)
		return errors.Wrap(err, "failed to write output")
	}
	return errors.Wrapf(ioutil.WriteFile(output, converted, 0644), "failed to write %s", output)
}

// connectionEnds are the attributes of a Connection that used to hold a single scalar identity.
var connectionEnds = map[string]bool{
	"source": true,
	"sink":   true,
}

// convertDocument rewrites every "source" and "sink" field holding a scalar into a list with one
// Endpoint referring to the scalar. Comments and the order of everything else are kept. It
// returns the converted document and the number of rewritten fields.
func convertDocument(data []byte) ([]byte, int, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, 0, errors.Wrap(err, "failed to parse document")
	}

	count := convertNode(&doc)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return nil, 0, errors.Wrap(err, "failed to encode document")
	}
	if err := encoder.Close(); err != nil {
		return nil, 0, errors.Wrap(err, "failed to encode document")
	}

	return buf.Bytes(), count, nil
}

func convertNode(node *yaml.Node) int {
	count := 0

	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if connectionEnds[key.Value] && value.Kind == yaml.ScalarNode && value.Tag != "!!null" {
				node.Content[i+1] = endpointList(value)
				count++
			}
		}
	}

	for _, child := range node.Content {
		count += convertNode(child)
	}
	return count
}

// endpointList builds
//
//	- Endpoint:
//	    port: <token>
func endpointList(token *yaml.Node) *yaml.Node {
	port := &yaml.Node{}
	port.SetString("port")

	tag := &yaml.Node{}
	tag.SetString(pidgen.Endpoint.Name())

	return &yaml.Node{
		Kind: yaml.SequenceNode,
		Tag:  "!!seq",
		Content: []*yaml.Node{
			{
				Kind: yaml.MappingNode,
				Tag:  "!!map",
				Content: []*yaml.Node{
					tag,
					{
						Kind:    yaml.MappingNode,
						Tag:     "!!map",
						Content: []*yaml.Node{port, {Kind: token.Kind, Tag: token.Tag, Value: token.Value, Style: token.Style}},
					},
				},
			},
		},
	}
}
