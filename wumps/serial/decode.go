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
	"os"

	"github.com/botobag/hildegard/wumps"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// IdentityKey is the reserved field carrying the identity token of an entity that is the target of
// some reference.
const IdentityKey = "_id"

// DecoderConfig configures a Decoder.
type DecoderConfig struct {
	// Registry maps the tags in the document to entity types; required.
	Registry *wumps.Registry

	// ResolveForwardReferences allows a reference to an entity that is constructed later in the
	// document. By default a reference must point at an entity that was fully constructed before
	// the reference is read (note that an entity is constructed after all of its children).
	ResolveForwardReferences bool

	// Logger receives diagnostics; defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// Decoder reconstructs entity graphs from documents written by Encoder.
type Decoder struct {
	config DecoderConfig
	logger logrus.FieldLogger
}

// NewDecoder creates a Decoder from config.
func NewDecoder(config *DecoderConfig) (*Decoder, error) {
	if config == nil || config.Registry == nil {
		return nil, wumps.NewError("Must provide Registry for Decoder.", wumps.Op("serial.NewDecoder"))
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Decoder{
		config: *config,
		logger: logger,
	}, nil
}

// Decode reads a document from r and reconstructs the root entities in document order. No entity
// is returned on failure.
func (d *Decoder) Decode(r io.Reader) ([]*wumps.Entity, error) {
	tree, err := ParseTree(r)
	if err != nil {
		return nil, err
	}
	return d.DecodeTree(tree)
}

// DecodeTree reconstructs the root entities from a parsed document.
func (d *Decoder) DecodeTree(tree *Tree) ([]*wumps.Entity, error) {
	state := &decodeState{
		decoder:    d,
		identities: map[string]*wumps.Entity{},
	}

	roots := make([]*wumps.Entity, 0, len(tree.Roots))
	for i, tagged := range tree.Roots {
		path := wumps.Path{}
		path.AppendIndex(i)
		e, err := state.decodeEntity(tagged, path)
		if err != nil {
			return nil, err
		}
		roots = append(roots, e)
	}

	if err := state.resolvePending(); err != nil {
		return nil, err
	}

	d.logger.WithFields(logrus.Fields{
		"roots":      len(roots),
		"entities":   state.numEntities,
		"identities": len(state.identities),
	}).Debug("decoded document")

	return roots, nil
}

// Unmarshal is a convenient wrapper to decode data with a Decoder that uses registry.
func Unmarshal(data []byte, registry *wumps.Registry) ([]*wumps.Entity, error) {
	d, err := NewDecoder(&DecoderConfig{
		Registry: registry,
	})
	if err != nil {
		return nil, err
	}
	return d.Decode(bytes.NewReader(data))
}

// Load decodes the document in the file at path with a Decoder that uses registry. Path "-" reads
// from the standard input.
func Load(path string, registry *wumps.Registry) ([]*wumps.Entity, error) {
	d, err := NewDecoder(&DecoderConfig{
		Registry: registry,
	})
	if err != nil {
		return nil, err
	}
	return d.Load(path)
}

// Load decodes the document in the file at path. Path "-" reads from the standard input.
func (d *Decoder) Load(path string) ([]*wumps.Entity, error) {
	if path == "-" {
		return d.Decode(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	return d.Decode(f)
}

// pendingReference is a reference slot whose targets were not all constructed when the slot was
// read.
type pendingReference struct {
	entity   *wumps.Entity
	attr     *wumps.Attribute
	tokens   []interface{}
	path     wumps.Path
	location wumps.ErrorLocation
}

// decodeState holds the state of one Decode call.
type decodeState struct {
	decoder *Decoder

	// Maps identity tokens to the entities that carry them.
	identities map[string]*wumps.Entity

	pending []pendingReference

	numEntities int
}

func tokenKey(token interface{}) string {
	return fmt.Sprint(token)
}

// decodeEntity constructs the entity written as tagged. Children are constructed first.
func (state *decodeState) decodeEntity(tagged Tagged, path wumps.Path) (*wumps.Entity, error) {
	const op wumps.Op = "serial.Decoder.Decode"

	t, ok := state.decoder.config.Registry.Lookup(tagged.Tag)
	if !ok {
		return nil, wumps.NewError(fmt.Sprintf(`unknown entity type "%s"`, tagged.Tag),
			op, wumps.ErrKindMalformedInput, path, tagged.Location)
	}
	path = path.WithName(tagged.Tag)

	var fields Fields
	switch value := tagged.Value.(type) {
	case nil:
	case Fields:
		fields = value
	default:
		return nil, wumps.NewError(fmt.Sprintf("fields of %s must be a map", t.Name()),
			op, wumps.ErrKindMalformedInput, path, tagged.Location)
	}

	e, err := t.New()
	if err != nil {
		return nil, wumps.NewError("", op, path, tagged.Location, err)
	}

	var (
		token    interface{}
		hasToken bool
	)

	for _, field := range fields {
		fieldPath := path.WithName(field.Key)

		if field.Key == IdentityKey {
			token, hasToken = field.Value, true
			continue
		}

		attr, ok := t.Schema().Lookup(field.Key)
		if !ok {
			_, err := e.Get(field.Key)
			return nil, wumps.NewError("", op, fieldPath, field.Location, err)
		}

		if attr.IsReference() {
			if err := state.setReference(e, attr, field, fieldPath); err != nil {
				return nil, err
			}
			continue
		}

		value, err := state.decodeValue(attr.Type(), field.Value, fieldPath, field.Location)
		if err != nil {
			return nil, err
		}

		if err := e.Set(attr.Name(), value); err != nil {
			return nil, wumps.NewError("", op, fieldPath, field.Location, err)
		}
	}

	if hasToken {
		key := tokenKey(token)
		if _, exists := state.identities[key]; exists {
			return nil, wumps.NewError(fmt.Sprintf("identity %s is defined more than once", key),
				op, wumps.ErrKindMalformedInput, path.WithName(IdentityKey), tagged.Location)
		}
		state.identities[key] = e
	}

	state.numEntities++
	return e, nil
}

// decodeValue converts the generic value of a non-reference field to a value assignable to a slot
// of type t.
func (state *decodeState) decodeValue(
	t wumps.ValueType,
	raw interface{},
	path wumps.Path,
	location wumps.ErrorLocation) (interface{}, error) {

	switch t := t.(type) {
	case *wumps.SequenceType:
		items, err := state.list(raw, path, location)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(items))
		for i, item := range items {
			value, err := state.decodeElement(t.ElementType(), item, path.WithIndex(i), location)
			if err != nil {
				return nil, err
			}
			values[i] = value
		}
		return values, nil

	case *wumps.NamedMapType:
		items, err := state.list(raw, path, location)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(items))
		for i, item := range items {
			itemPath := path.WithIndex(i)
			tagged, ok := item.(Tagged)
			if !ok {
				return nil, wumps.NewError("entry of a named collection must be a map with exactly one key",
					wumps.ErrKindMalformedInput, itemPath, location)
			}
			if state.holdsEntity(t.ElementType(), tagged) {
				value, err := state.decodeEntity(tagged, itemPath)
				if err != nil {
					return nil, err
				}
				values[i] = value
			} else {
				value, err := state.decodeElement(t.ElementType(), tagged.Value, itemPath.WithName(tagged.Tag), tagged.Location)
				if err != nil {
					return nil, err
				}
				values[i] = wumps.NamedItem{Key: tagged.Tag, Value: value}
			}
		}
		return values, nil

	case *wumps.Type:
		return state.decodeSingleEntity(raw, path, location)
	}

	// An untyped slot holding a single entity is written as a map with the type as its only key.
	if t == nil {
		if tagged, ok := singleEntity(raw); ok && state.holdsEntity(t, tagged) {
			return state.decodeEntity(tagged, path)
		}
	}
	return state.decodeElement(t, raw, path, location)
}

// singleEntity turns a map with exactly one key into the Tagged form of an entity.
func singleEntity(raw interface{}) (Tagged, bool) {
	fields, ok := raw.(Fields)
	if !ok || len(fields) != 1 {
		return Tagged{}, false
	}
	return Tagged{
		Tag:      fields[0].Key,
		Value:    fields[0].Value,
		Location: fields[0].Location,
	}, true
}

// decodeSingleEntity decodes the value of a slot holding one owned entity.
func (state *decodeState) decodeSingleEntity(
	raw interface{},
	path wumps.Path,
	location wumps.ErrorLocation) (interface{}, error) {

	switch raw := raw.(type) {
	case nil:
		return nil, nil

	case Tagged:
		return state.decodeEntity(raw, path)

	case Fields:
		if tagged, ok := singleEntity(raw); ok {
			return state.decodeEntity(tagged, path)
		}

	case []interface{}:
		if len(raw) == 0 {
			return nil, nil
		}
		if tagged, ok := raw[0].(Tagged); ok && len(raw) == 1 {
			return state.decodeEntity(tagged, path.WithIndex(0))
		}
	}

	return nil, wumps.NewError("expected a list holding a single entity",
		wumps.ErrKindMalformedInput, path, location)
}

// decodeElement decodes an element of a collection, or the value of a scalar or untyped slot.
func (state *decodeState) decodeElement(
	t wumps.ValueType,
	raw interface{},
	path wumps.Path,
	location wumps.ErrorLocation) (interface{}, error) {

	if _, ok := t.(*wumps.Type); ok {
		return state.decodeSingleEntity(raw, path, location)
	}

	switch raw := raw.(type) {
	case Tagged:
		if state.holdsEntity(t, raw) {
			return state.decodeEntity(raw, path)
		}
		value, err := state.decodeElement(nil, raw.Value, path.WithName(raw.Tag), raw.Location)
		if err != nil {
			return nil, err
		}
		return wumps.NamedItem{Key: raw.Tag, Value: value}, nil

	case []interface{}:
		values := make([]interface{}, len(raw))
		for i, item := range raw {
			value, err := state.decodeElement(nil, item, path.WithIndex(i), location)
			if err != nil {
				return nil, err
			}
			values[i] = value
		}
		return values, nil

	case Fields:
		return nil, wumps.NewError("unexpected map", wumps.ErrKindMalformedInput, path, location)
	}

	return raw, nil
}

// holdsEntity returns true if tagged writes an entity in a place that holds values of type t.
func (state *decodeState) holdsEntity(t wumps.ValueType, tagged Tagged) bool {
	switch t.(type) {
	case *wumps.Type:
		return true
	case nil:
		// Entities are always written with a map of fields; "Port: 1" in an untyped collection is a
		// named value.
		if _, isFields := tagged.Value.(Fields); !isFields {
			return false
		}
		_, ok := state.decoder.config.Registry.Lookup(tagged.Tag)
		return ok
	}
	return false
}

func (state *decodeState) list(raw interface{}, path wumps.Path, location wumps.ErrorLocation) ([]interface{}, error) {
	switch raw := raw.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		return raw, nil
	}
	return nil, wumps.NewError("expected a list", wumps.ErrKindMalformedInput, path, location)
}

// setReference resolves the identity tokens in the field and assigns the targets to the reference
// slot.
func (state *decodeState) setReference(e *wumps.Entity, attr *wumps.Attribute, field Field, path wumps.Path) error {
	var tokens []interface{}
	_, isSequence := attr.Type().(*wumps.SequenceType)
	if isSequence {
		items, err := state.list(field.Value, path, field.Location)
		if err != nil {
			return err
		}
		tokens = items
	} else if field.Value != nil {
		tokens = []interface{}{field.Value}
	}

	ref := pendingReference{
		entity:   e,
		attr:     attr,
		tokens:   tokens,
		path:     path,
		location: field.Location,
	}

	targets, missing := state.lookupTargets(tokens)
	if missing != nil {
		if !state.decoder.config.ResolveForwardReferences {
			return unresolvedReference(ref, missing)
		}
		state.pending = append(state.pending, ref)
		return nil
	}

	return state.assignReference(ref, targets)
}

// lookupTargets finds the entities for tokens. It returns the first token without an entity.
func (state *decodeState) lookupTargets(tokens []interface{}) ([]*wumps.Entity, interface{}) {
	targets := make([]*wumps.Entity, len(tokens))
	for i, token := range tokens {
		if token == nil {
			continue
		}
		target, ok := state.identities[tokenKey(token)]
		if !ok {
			return nil, token
		}
		targets[i] = target
	}
	return targets, nil
}

func (state *decodeState) assignReference(ref pendingReference, targets []*wumps.Entity) error {
	var value interface{}
	if _, isSequence := ref.attr.Type().(*wumps.SequenceType); isSequence {
		value = targets
	} else if len(targets) > 0 && targets[0] != nil {
		value = targets[0]
	}

	if err := ref.entity.Set(ref.attr.Name(), value); err != nil {
		return wumps.NewError("", wumps.Op("serial.Decoder.Decode"), ref.path, ref.location, err)
	}
	return nil
}

// resolvePending assigns the reference slots deferred by ResolveForwardReferences.
func (state *decodeState) resolvePending() error {
	for _, ref := range state.pending {
		targets, missing := state.lookupTargets(ref.tokens)
		if missing != nil {
			return unresolvedReference(ref, missing)
		}
		if err := state.assignReference(ref, targets); err != nil {
			return err
		}
	}

	if len(state.pending) > 0 {
		state.decoder.logger.WithField("count", len(state.pending)).Debug("resolved forward references")
	}
	state.pending = nil
	return nil
}

func unresolvedReference(ref pendingReference, token interface{}) error {
	return wumps.NewError(
		fmt.Sprintf(`attribute "%s" refers to identity %v which is not defined before it`, ref.attr.Name(), token),
		wumps.Op("serial.Decoder.Decode"), wumps.ErrKindUnresolvedReference, ref.path, ref.location)
}
