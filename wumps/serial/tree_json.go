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
	"unsafe"

	"github.com/json-iterator/go"
)

// taggedMarshaller implements jsoniter.ValEncoder to encode Tagged to JSON as an object with a single
// field.
type taggedMarshaller struct{}

var _ jsoniter.ValEncoder = taggedMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (taggedMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return false
}

// Encode implements jsoniter.ValEncoder.
func (taggedMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	tagged := (*Tagged)(ptr)
	stream.WriteObjectStart()
	stream.WriteObjectField(tagged.Tag)
	stream.WriteVal(tagged.Value)
	stream.WriteObjectEnd()
}

// fieldsMarshaller implements jsoniter.ValEncoder to encode Fields to JSON as an object keeping the
// order of the fields.
type fieldsMarshaller struct{}

var _ jsoniter.ValEncoder = fieldsMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (fieldsMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return len(*(*Fields)(ptr)) == 0
}

// Encode implements jsoniter.ValEncoder.
func (fieldsMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	fields := *(*Fields)(ptr)
	stream.WriteObjectStart()
	for i := range fields {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(fields[i].Key)
		stream.WriteVal(fields[i].Value)
	}
	stream.WriteObjectEnd()
}

func init() {
	jsoniter.RegisterTypeEncoder("serial.Tagged", taggedMarshaller{})
	jsoniter.RegisterTypeEncoder("serial.Fields", fieldsMarshaller{})
}
