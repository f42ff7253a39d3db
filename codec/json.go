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
	"bytes"
	"encoding/json"

	"dirpx.dev/tagfx/apis"
)

type jsonCodec struct{}

// JSON returns a JSON codec (RFC 8259) framing values externally tagged.
// Content-Type: application/json
func JSON() apis.Codec { return jsonCodec{} }

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return marshalJSON(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Wrap(tag string, payload []byte) ([]byte, error) {
	if tag == "" {
		return nil, ErrEmptyTag
	}
	return marshalJSON(map[string]json.RawMessage{tag: payload})
}

func (jsonCodec) Unwrap(data []byte) (string, []byte, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return "", nil, malformed("json: %v", err)
	}
	if len(m) != 1 {
		return "", nil, malformed("json: want exactly one tag, got %d", len(m))
	}
	for tag, payload := range m {
		if tag == "" {
			return "", nil, ErrEmptyTag
		}
		return tag, payload, nil
	}
	return "", nil, malformed("json: empty object")
}

// marshalJSON is json.Marshal without HTML escaping, so generic tags keep
// their angle brackets on the wire.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
