/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package codec

import (
	"encoding/binary"

	"dirpx.dev/tagfx/apis"
)

// maxPrefixedTag bounds the tag length accepted by Unwrap.
const maxPrefixedTag = 1 << 16

type prefixed struct {
	apis.Codec
}

// Prefixed wraps inner so that frames are laid out as
//
//	uvarint(len(tag)) | tag | payload
//
// with payload encoded by inner. The content type gains a framing parameter.
func Prefixed(inner apis.Codec) apis.Codec {
	return prefixed{Codec: inner}
}

func (p prefixed) ContentType() string {
	return p.Codec.ContentType() + "; framing=prefixed"
}

func (p prefixed) Wrap(tag string, payload []byte) ([]byte, error) {
	if tag == "" {
		return nil, ErrEmptyTag
	}
	out := make([]byte, 0, binary.MaxVarintLen64+len(tag)+len(payload))
	out = binary.AppendUvarint(out, uint64(len(tag)))
	out = append(out, tag...)
	out = append(out, payload...)
	return out, nil
}

func (p prefixed) Unwrap(data []byte) (string, []byte, error) {
	n, k := binary.Uvarint(data)
	if k <= 0 {
		return "", nil, malformed("prefixed: bad length")
	}
	if n == 0 {
		return "", nil, ErrEmptyTag
	}
	if n > maxPrefixedTag || n > uint64(len(data)-k) {
		return "", nil, malformed("prefixed: tag length %d exceeds frame", n)
	}
	end := k + int(n)
	return string(data[k:end]), data[end:], nil
}
