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

package wumps

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	"github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// Op describes an operation, usually as the package and method, such as "wumps.Entity.Set".
type Op string

// ErrKind defines the kind of error this is.
type ErrKind uint8

// Enumeration of ErrKind
const (
	ErrKindOther               ErrKind = iota // Unclassified error. This value is not printed in the error message.
	ErrKindSchemaConflict                     // Two attribute declarations disagree or a name is declared twice.
	ErrKindUnknownAttribute                   // Key is not in the schema after alias resolution.
	ErrKindImmutableAttribute                 // Write attempt on a fixed-value slot.
	ErrKindUnresolvedReference                // Identity token has no materialized entity.
	ErrKindMalformedInput                     // Text source does not have the nested-list-of-single-key-maps shape.
	ErrKindCoercion                           // Value cannot be represented by the declared value type.
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindOther:
		return "other error"
	case ErrKindSchemaConflict:
		return "schema conflict"
	case ErrKindUnknownAttribute:
		return "unknown attribute"
	case ErrKindImmutableAttribute:
		return "immutable attribute"
	case ErrKindUnresolvedReference:
		return "unresolved reference"
	case ErrKindMalformedInput:
		return "malformed input"
	case ErrKindCoercion:
		return "coercion error"
	}
	return "unknown error kind"
}

// ErrorLocation points at a line and a column in a text source. Both start from 1.
type ErrorLocation struct {
	Line   uint
	Column uint
}

// Path locates a value in an entity graph or in a document tree. Each key is either a string (an
// attribute or type name) or an integer (an index into a list).
type Path struct {
	// Currently this could only be either int or string.
	keys []interface{}
}

// Empty returns true if the path doesn't contain any keys.
func (path Path) Empty() bool {
	return len(path.keys) == 0
}

// AppendName adds an attribute or type name to the end of current path.
func (path *Path) AppendName(name string) {
	path.keys = append(path.keys, name)
}

// AppendIndex adds a list index to the end of current path.
func (path *Path) AppendIndex(index int) {
	path.keys = append(path.keys, index)
}

// WithName returns a copy of the path extended with name. The receiver is left untouched so a
// traversal can hand a child path down without restoring the parent afterwards.
func (path Path) WithName(name string) Path {
	p := path.Clone()
	p.AppendName(name)
	return p
}

// WithIndex is like WithName but for a list index.
func (path Path) WithIndex(index int) Path {
	p := path.Clone()
	p.AppendIndex(index)
	return p
}

// Clone makes a deep copy of the path.
func (path Path) Clone() Path {
	if len(path.keys) == 0 {
		return Path{}
	}

	keys := make([]interface{}, len(path.keys), len(path.keys)+1)
	copy(keys, path.keys)
	return Path{keys}
}

// Concat returns a new path with the keys of other appended to the keys of path.
func (path Path) Concat(other Path) Path {
	keys := make([]interface{}, 0, len(path.keys)+len(other.keys))
	keys = append(keys, path.keys...)
	keys = append(keys, other.keys...)
	return Path{keys}
}

// String serializes a Path to more readable format, e.g. "[0].Hierarchy.subcomponents[1]".
func (path Path) String() string {
	var b strings.Builder
	for _, key := range path.keys {
		switch key := key.(type) {
		case string:
			if b.Len() > 0 {
				b.WriteRune('.')
			}
			b.WriteString(key)

		case int:
			b.WriteRune('[')
			b.WriteString(strconv.FormatInt(int64(key), 10))
			b.WriteRune(']')
		}
	}
	return b.String()
}

// pathMarshaller implements jsoniter.ValEncoder to encode Path to JSON.
type pathMarshaller struct{}

var _ jsoniter.ValEncoder = pathMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (pathMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return len((*Path)(ptr).keys) == 0
}

// Encode implements jsoniter.ValEncoder.
func (pathMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	path := (*Path)(ptr)
	stream.WriteArrayStart()
	for i, key := range path.keys {
		if i > 0 {
			stream.WriteMore()
		}
		switch key := key.(type) {
		case string:
			stream.WriteString(key)
		case int:
			stream.WriteInt(key)
		default:
			stream.Error = fmt.Errorf(`unsupported type "%T" of key in path`, key)
			return
		}
	}
	stream.WriteArrayEnd()
}

// An Error describes a failure raised by the entity framework: conflicting schema declarations,
// bad attribute accesses and failures to save or load an entity graph.
//
// Like the errors in upspin.io/errors [0], an Error can wrap an underlying error. Information not
// given when building the Error (kind, path, locations) is pulled from the wrapped one so the
// outermost Error always describes what went wrong and where.
//
// [0]: https://commandcenter.blogspot.com/2017/12/error-handling-in-upspin.html.
type Error struct {
	// Message describes the error for debugging purposes.
	Message string

	// Locations within the text source that correspond to this error. Only errors raised while
	// loading a document carry them.
	Locations []ErrorLocation

	// Path of the value in the entity graph or document tree that experienced the error.
	Path Path

	// The underlying error that triggered this one
	Err error

	// Op is the operation being performed, usually the name of the method being invoked.
	Op Op

	// Kind is the class of error
	Kind ErrKind
}

// Error implements Go error interface.
var _ error = (*Error)(nil)

// NewError builds an error value from arguments. Arguments other than message can be an Op, an
// ErrKind, a Path, an ErrorLocation (or a list of them) or an underlying error.
func NewError(message string, args ...interface{}) error {
	e := &Error{
		Message: message,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case ErrorLocation:
			e.Locations = []ErrorLocation{arg}
		case []ErrorLocation:
			e.Locations = arg

		case Path:
			e.Path = arg

		case error:
			e.Err = arg

		case Op:
			e.Op = arg

		case ErrKind:
			e.Kind = arg

		default:
			logrus.WithField("args", args).Errorf("NewError: bad call")
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	// Propagate kind, locations and path from underlying error when one is not provided in argument.
	if prev, ok := e.Err.(*Error); ok {
		if len(e.Locations) == 0 && len(prev.Locations) > 0 {
			e.Locations = make([]ErrorLocation, len(prev.Locations))
			copy(e.Locations, prev.Locations)
		}

		if e.Path.Empty() && !prev.Path.Empty() {
			e.Path = prev.Path.Clone()
		}

		if e.Kind == ErrKindOther {
			e.Kind = prev.Kind
		}
	}

	return e
}

// WrapError is a convenient wrapper to build an Error value from an underlying error with a
// message.
func WrapError(err error, message string) error {
	return NewError(message, err)
}

// WrapErrorf is similar to WrapError but with the format specifier.
func WrapErrorf(err error, format string, args ...interface{}) error {
	return NewError(fmt.Sprintf(format, args...), err)
}

// KindOf returns the kind of err if it is an *Error, or ErrKindOther otherwise.
func KindOf(err error) ErrKind {
	if e, ok := err.(*Error); ok && e != nil {
		return e.Kind
	}
	return ErrKindOther
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrKind) bool {
	return err != nil && KindOf(err) == kind
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error implements Go's error interface.
func (e *Error) Error() string {
	var b strings.Builder
	e.printError(&b, nil)
	return b.String()
}

func (e *Error) printError(b *strings.Builder, nextErr *Error) {
	// If the previous error was also one of ours. Suppress duplications so the message won't contain
	// the same kind, path or location twice.
	initialLen := b.Len()

	// pad appends str to the buffer if the buffer already has some data.
	pad := func(str string) {
		if b.Len() == initialLen {
			return
		}
		b.WriteString(str)
	}

	if len(e.Op) > 0 {
		b.WriteString(string(e.Op))
	}

	if len(e.Message) > 0 {
		pad(": ")
		b.WriteString(e.Message)
	}

	if e.Locations != nil {
		if nextErr == nil || !reflect.DeepEqual(nextErr.Locations, e.Locations) {
			if b.Len() == initialLen {
				b.WriteString("At ")
			} else {
				b.WriteString(" at ")
			}
			b.WriteString(fmt.Sprintf("%+v", e.Locations))
		}
	}

	if !e.Path.Empty() {
		if nextErr == nil || !reflect.DeepEqual(nextErr.Path, e.Path) {
			if b.Len() == initialLen {
				b.WriteString("In ")
			} else {
				b.WriteString(" in ")
			}
			b.WriteString(e.Path.String())
		}
	}

	if e.Kind != ErrKindOther {
		if nextErr == nil || nextErr.Kind != e.Kind {
			pad(": ")
			b.WriteString(e.Kind.String())
		}
	}

	if e.Err != nil {
		if prev, ok := e.Err.(*Error); ok {
			// Indent on new line if we are cascading non-empty Error.
			pad(":\n  ")
			prev.printError(b, e)
		} else {
			pad(": ")
			b.WriteString(e.Err.Error())
		}
	}
}

// MarshalJSON implements json.Marshaler.
func (e *Error) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(e)
}

// errorMarshaller implements jsoniter.ValEncoder to encode Error to JSON.
type errorMarshaller struct{}

var _ jsoniter.ValEncoder = errorMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (errorMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return (*Error)(ptr) == nil
}

// Encode implements jsoniter.ValEncoder.
func (errorMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	err := (*Error)(ptr)
	stream.WriteObjectStart()

	stream.WriteObjectField("message")
	stream.WriteString(err.Message)

	stream.WriteMore()
	stream.WriteObjectField("kind")
	stream.WriteString(err.Kind.String())

	if len(err.Locations) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("locations")
		stream.WriteArrayStart()
		for i := range err.Locations {
			if i > 0 {
				stream.WriteMore()
			}
			location := &err.Locations[i]
			stream.WriteObjectStart()
			stream.WriteObjectField("line")
			stream.WriteUint(location.Line)
			stream.WriteMore()
			stream.WriteObjectField("column")
			stream.WriteUint(location.Column)
			stream.WriteObjectEnd()
		}
		stream.WriteArrayEnd()
	}

	if !err.Path.Empty() {
		stream.WriteMore()
		stream.WriteObjectField("path")
		stream.WriteVal(&err.Path)
	}

	stream.WriteObjectEnd()
}

func init() {
	jsoniter.RegisterTypeEncoder("wumps.Path", pathMarshaller{})
	jsoniter.RegisterTypeEncoder("wumps.Error", errorMarshaller{})
}
