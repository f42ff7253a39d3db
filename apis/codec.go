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

package apis

// Codec is the wire format used to move tagged values.
//
// Marshal/Unmarshal handle the payload of a single concrete value;
// Wrap/Unwrap frame a tag together with an encoded payload. tagfx never
// interprets payload bytes itself.
type Codec interface {
	// ContentType returns the MIME type of framed messages.
	ContentType() string
	// Marshal encodes v into a payload.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes a payload into v (a pointer).
	Unmarshal(data []byte, v any) error
	// Wrap frames tag and payload into one message.
	Wrap(tag string, payload []byte) ([]byte, error)
	// Unwrap splits a framed message into its tag and payload.
	Unwrap(data []byte) (tag string, payload []byte, err error)
}
