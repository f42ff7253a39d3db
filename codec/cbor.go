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
	cbor "github.com/fxamacker/cbor/v2"

	"dirpx.dev/tagfx/apis"
)

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// CBOR returns a deterministic CBOR codec (RFC 8949) with core profile,
// framing values as one-entry maps.
func CBOR() (apis.Codec, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	return cborCodec{enc: em, dec: dm}, nil
}

// MustCBOR is like CBOR but panics on error.
func MustCBOR() apis.Codec {
	c, err := CBOR()
	if err != nil {
		panic(err)
	}
	return c
}

func (c cborCodec) ContentType() string { return "application/cbor" }

func (c cborCodec) Marshal(v any) ([]byte, error) { return c.enc.Marshal(v) }

func (c cborCodec) Unmarshal(data []byte, v any) error { return c.dec.Unmarshal(data, v) }

func (c cborCodec) Wrap(tag string, payload []byte) ([]byte, error) {
	if tag == "" {
		return nil, ErrEmptyTag
	}
	return c.enc.Marshal(map[string]cbor.RawMessage{tag: payload})
}

func (c cborCodec) Unwrap(data []byte) (string, []byte, error) {
	var m map[string]cbor.RawMessage
	if err := c.dec.Unmarshal(data, &m); err != nil {
		return "", nil, malformed("cbor: %v", err)
	}
	if len(m) != 1 {
		return "", nil, malformed("cbor: want exactly one tag, got %d", len(m))
	}
	for tag, payload := range m {
		if tag == "" {
			return "", nil, ErrEmptyTag
		}
		return tag, payload, nil
	}
	return "", nil, malformed("cbor: empty map")
}
