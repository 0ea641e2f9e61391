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

package serial

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/botobag/hildegard/wumps"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EncoderConfig configures an Encoder.
type EncoderConfig struct {
	// Logger receives diagnostics; defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger

	// Header writes CurrentHeader as a comment before the document.
	Header bool

	// Indent is the number of spaces for each nesting level; defaults to 2.
	Indent int
}

// DefaultEncoderConfig returns the configuration used by Marshal and Save.
func DefaultEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		Header: true,
		Indent: 2,
	}
}

// Encoder writes entity graphs as documents.
//
// A document is a list with one item per root entity. Each entity is written as a map with a
// single key, the name of its type, whose value maps attribute names to values:
//
//	# {format: "yaml", version: 0}
//	- Interface:
//	    _id: 1
//	    name: if1
//	    ports:
//	      - Port:
//	          name: clk
//	- Instance:
//	    interface: 1
//
// Only persisted, non-fixed attributes are written; collections are always written (an empty one
// as "[]") and other attributes only when they differ from the value a new entity starts with.
// Entities held by a non-reference attribute (or by a collection) are owned and written in place:
// in a single-item list for an attribute of an entity type, as a map with the type as its only key
// for an untyped attribute.
// Entities held by a reference attribute are written as the identity token of the target, which
// in turn carries the token in the reserved "_id" field.
type Encoder struct {
	config EncoderConfig
	logger logrus.FieldLogger
}

// NewEncoder creates an Encoder from config. A nil config uses DefaultEncoderConfig().
func NewEncoder(config *EncoderConfig) *Encoder {
	if config == nil {
		config = DefaultEncoderConfig()
	}

	e := &Encoder{
		config: *config,
		logger: config.Logger,
	}
	if e.logger == nil {
		e.logger = logrus.StandardLogger()
	}
	if e.config.Indent <= 0 {
		e.config.Indent = 2
	}
	return e
}

// Marshal encodes entities with DefaultEncoderConfig().
func Marshal(entities ...*wumps.Entity) ([]byte, error) {
	return NewEncoder(nil).Marshal(entities...)
}

// Save encodes entities with DefaultEncoderConfig() and writes the document to the file at path.
// An empty path writes to the standard output.
func Save(entities []*wumps.Entity, path string) error {
	return NewEncoder(nil).Save(entities, path)
}

// Encode writes the document for entities to w. Nothing is written if encoding fails.
func (enc *Encoder) Encode(w io.Writer, entities ...*wumps.Entity) error {
	data, err := enc.Marshal(entities...)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write document")
	}
	return nil
}

// Save writes the document for entities to the file at path. An empty path writes to the standard
// output. The file is not touched if encoding fails.
func (enc *Encoder) Save(entities []*wumps.Entity, path string) error {
	data, err := enc.Marshal(entities...)
	if err != nil {
		return err
	}

	if len(path) == 0 {
		if _, err := os.Stdout.Write(data); err != nil {
			return errors.Wrap(err, "failed to write document to standard output")
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}

// Marshal returns the document for entities.
func (enc *Encoder) Marshal(entities ...*wumps.Entity) ([]byte, error) {
	state := &encodeState{
		encoder:   enc,
		tokens:    map[*wumps.Entity]int{},
		referrers: map[*wumps.Entity]wumps.Path{},
		owned:     map[*wumps.Entity]bool{},
		emitted:   map[*wumps.Entity]bool{},
	}

	// Pass 1: find owned entities and assign tokens to reference targets.
	for i, e := range entities {
		path := wumps.Path{}
		path.AppendIndex(i)
		if err := state.discover(e, path); err != nil {
			return nil, err
		}
	}

	if err := state.validate(); err != nil {
		return nil, err
	}

	// Pass 2: build the document.
	root := &yaml.Node{
		Kind: yaml.SequenceNode,
		Tag:  "!!seq",
	}
	for i, e := range entities {
		path := wumps.Path{}
		path.AppendIndex(i)
		node, err := state.entityNode(e, path)
		if err != nil {
			return nil, err
		}
		root.Content = append(root.Content, node)
	}

	var buf bytes.Buffer
	if enc.config.Header {
		buf.WriteString("# ")
		buf.WriteString(CurrentHeader.String())
		buf.WriteString("\n")
	}

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(enc.config.Indent)
	if err := encoder.Encode(root); err != nil {
		return nil, errors.Wrap(err, "failed to encode document")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode document")
	}

	enc.logger.WithFields(logrus.Fields{
		"roots":      len(entities),
		"entities":   len(state.owned),
		"identities": len(state.tokens),
		"bytes":      buf.Len(),
	}).Debug("encoded document")

	return buf.Bytes(), nil
}

// encodeState holds the state of one Marshal call.
type encodeState struct {
	encoder *Encoder

	// Identity tokens of reference targets, assigned in discovery order from 1
	tokens map[*wumps.Entity]int

	// Path of the first reference to each target
	referrers map[*wumps.Entity]wumps.Path

	// Entities that are written in place
	owned map[*wumps.Entity]bool

	// Entities whose writing is complete; a reference to an entity not in this set is a forward
	// reference.
	emitted map[*wumps.Entity]bool
}

// savedSlot returns true if the attribute is written at all.
func savedSlot(attr *wumps.Attribute) bool {
	return attr.IsPersisted() && !attr.IsFixed()
}

func (state *encodeState) discover(e *wumps.Entity, path wumps.Path) error {
	if e == nil {
		return wumps.NewError("cannot save a nil entity", wumps.Op("serial.Encoder.Encode"), path)
	}
	if state.owned[e] {
		return wumps.NewError(fmt.Sprintf("%s is owned more than once", e),
			wumps.Op("serial.Encoder.Encode"), path)
	}
	state.owned[e] = true
	path = path.WithName(e.Type().Name())

	return e.Each(func(attr *wumps.Attribute, value interface{}) error {
		if !savedSlot(attr) {
			return nil
		}
		attrPath := path.WithName(attr.Name())
		if attr.IsReference() {
			for _, target := range referenceTargets(value) {
				if _, exists := state.tokens[target]; !exists {
					state.tokens[target] = len(state.tokens) + 1
					state.referrers[target] = attrPath
				}
			}
			return nil
		}
		return state.discoverValue(value, attrPath)
	})
}

func (state *encodeState) discoverValue(value interface{}, path wumps.Path) error {
	switch value := value.(type) {
	case *wumps.Entity:
		if value != nil {
			return state.discover(value, path)
		}

	case *wumps.Sequence:
		for i, item := range value.Items() {
			if err := state.discoverValue(item, path.WithIndex(i)); err != nil {
				return err
			}
		}

	case *wumps.NamedMap:
		i := 0
		return value.Each(func(key string, item interface{}) error {
			err := state.discoverValue(item, path.WithIndex(i))
			i++
			return err
		})

	case []interface{}:
		for i, item := range value {
			if err := state.discoverValue(item, path.WithIndex(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// referenceTargets returns the entities held by a reference slot.
func referenceTargets(value interface{}) []*wumps.Entity {
	switch value := value.(type) {
	case *wumps.Entity:
		if value != nil {
			return []*wumps.Entity{value}
		}
	case *wumps.Sequence:
		return value.Entities()
	}
	return nil
}

// validate checks that every reference target is written by the document.
func (state *encodeState) validate() error {
	for target, token := range state.tokens {
		if !state.owned[target] {
			return wumps.NewError(
				fmt.Sprintf("%s (identity %d) is referenced but not saved with the graph", target, token),
				wumps.Op("serial.Encoder.Encode"), wumps.ErrKindUnresolvedReference, state.referrers[target])
		}
	}
	return nil
}

func (state *encodeState) entityNode(e *wumps.Entity, path wumps.Path) (*yaml.Node, error) {
	path = path.WithName(e.Type().Name())

	fields := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	if token, ok := state.tokens[e]; ok {
		fields.Content = append(fields.Content, stringNode(IdentityKey), intNode(token))
	}

	err := e.Each(func(attr *wumps.Attribute, value interface{}) error {
		if !savedSlot(attr) {
			return nil
		}
		if !isCollection(value) && attr.IsInitialValue(value) {
			return nil
		}

		attrPath := path.WithName(attr.Name())

		var (
			node *yaml.Node
			err  error
		)
		if attr.IsReference() {
			node, err = state.referenceNode(value, attrPath)
		} else if e, ok := value.(*wumps.Entity); ok && e != nil && attr.Type() == nil {
			// Without a declared type, a list holding one entity and the entity itself must differ.
			node, err = state.entityNode(e, attrPath)
		} else {
			node, err = state.valueNode(value, attrPath)
		}
		if err != nil {
			return err
		}

		fields.Content = append(fields.Content, stringNode(attr.Name()), node)
		return nil
	})
	if err != nil {
		return nil, err
	}

	state.emitted[e] = true

	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Tag:     "!!map",
		Content: []*yaml.Node{stringNode(e.Type().Name()), fields},
	}, nil
}

func isCollection(value interface{}) bool {
	switch value.(type) {
	case *wumps.Sequence, *wumps.NamedMap:
		return true
	}
	return false
}

func (state *encodeState) referenceNode(value interface{}, path wumps.Path) (*yaml.Node, error) {
	token := func(target *wumps.Entity) *yaml.Node {
		if target == nil {
			return nullNode()
		}
		if !state.emitted[target] {
			state.encoder.logger.WithFields(logrus.Fields{
				"path":   path.String(),
				"target": target.String(),
			}).Warn("reference to an entity that is written later; loading requires forward reference resolution")
		}
		return intNode(state.tokens[target])
	}

	switch value := value.(type) {
	case nil:
		return nullNode(), nil

	case *wumps.Entity:
		return token(value), nil

	case *wumps.Sequence:
		node := &yaml.Node{
			Kind:  yaml.SequenceNode,
			Tag:   "!!seq",
			Style: yaml.FlowStyle,
		}
		for _, item := range value.Items() {
			target, _ := item.(*wumps.Entity)
			node.Content = append(node.Content, token(target))
		}
		return node, nil
	}

	return nil, wumps.NewError(fmt.Sprintf("reference attribute holds %T", value),
		wumps.Op("serial.Encoder.Encode"), path)
}

func (state *encodeState) valueNode(value interface{}, path wumps.Path) (*yaml.Node, error) {
	switch value := value.(type) {
	case nil:
		return nullNode(), nil

	case *wumps.Entity:
		if value == nil {
			return nullNode(), nil
		}
		node, err := state.entityNode(value, path.WithIndex(0))
		if err != nil {
			return nil, err
		}
		return sequenceNode(node), nil

	case *wumps.Sequence:
		node := sequenceNode()
		for i, item := range value.Items() {
			child, err := state.elementNode(item, path.WithIndex(i))
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil

	case *wumps.NamedMap:
		node := sequenceNode()
		for i, item := range value.Items() {
			itemPath := path.WithIndex(i)
			if e, ok := item.Value.(*wumps.Entity); ok && e != nil {
				child, err := state.entityNode(e, itemPath)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, child)
				continue
			}

			child, err := state.elementNode(item.Value, itemPath.WithName(item.Key))
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, &yaml.Node{
				Kind:    yaml.MappingNode,
				Tag:     "!!map",
				Content: []*yaml.Node{stringNode(item.Key), child},
			})
		}
		return node, nil

	case []interface{}:
		node := sequenceNode()
		for i, item := range value {
			child, err := state.elementNode(item, path.WithIndex(i))
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	}

	return scalarNode(value, path)
}

// elementNode writes an element of a collection. Entities in collections are written in place
// without the wrapping list.
func (state *encodeState) elementNode(value interface{}, path wumps.Path) (*yaml.Node, error) {
	if e, ok := value.(*wumps.Entity); ok && e != nil {
		return state.entityNode(e, path)
	}
	return state.valueNode(value, path)
}

func sequenceNode(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{
		Kind:    yaml.SequenceNode,
		Tag:     "!!seq",
		Content: content,
	}
}

func stringNode(s string) *yaml.Node {
	node := &yaml.Node{}
	node.SetString(s)
	return node
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!int",
		Value: strconv.Itoa(i),
	}
}

func nullNode() *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!null",
		Value: "null",
	}
}

// scalarNode writes a scalar so that it reads back as the same Go type.
func scalarNode(value interface{}, path wumps.Path) (*yaml.Node, error) {
	switch value := value.(type) {
	case float64:
		return floatNode(value), nil
	case float32:
		return floatNode(float64(value)), nil
	}

	node := &yaml.Node{}
	if err := node.Encode(value); err != nil {
		return nil, wumps.NewError(fmt.Sprintf("cannot write value of type %T", value),
			wumps.Op("serial.Encoder.Encode"), path, err)
	}
	if node.Kind != yaml.ScalarNode {
		return nil, wumps.NewError(fmt.Sprintf("cannot write value of type %T", value),
			wumps.Op("serial.Encoder.Encode"), path)
	}
	return node, nil
}

// floatNode writes f such that it is never read back as an integer.
func floatNode(f float64) *yaml.Node {
	var s string
	switch {
	case math.IsInf(f, 1):
		s = ".inf"
	case math.IsInf(f, -1):
		s = "-.inf"
	case math.IsNaN(f):
		s = ".nan"
	default:
		s = strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
	}
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!float",
		Value: s,
	}
}
