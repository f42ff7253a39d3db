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

// Package codec provides wire formats for tagged values.
//
// Every codec frames a tag together with the payload of one concrete value:
//
//	JSON   {"Circle":{"r":1}}
//	CBOR   {"Circle": h'...'} as a one-entry CBOR map
//	Proto  google.protobuf.Any{type_url: "Circle", value: ...}
//
// Prefixed turns any codec into a length-prefixed binary framing.
package codec

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"dirpx.dev/tagfx/apis"
)

var (
	// ErrMalformed is returned when a framed message cannot be split into
	// tag and payload.
	ErrMalformed = errors.New("tagfx(codec): malformed frame")
	// ErrEmptyTag is returned when framing a message without a tag.
	ErrEmptyTag = errors.New("tagfx(codec): empty tag")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// Registry maps content types to codecs.
type Registry struct {
	mu     sync.RWMutex
	byType map[string]apis.Codec
}

// NewRegistry constructs a registry preloaded with the built-in codecs
// that don't require initialization: JSON and Protobuf.
// CBOR can be added explicitly via Register(CBOR()).
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[string]apis.Codec)}
	r.Register(JSON())
	r.Register(Proto())
	return r
}

// Register adds a codec, replacing any codec with the same content type.
func (r *Registry) Register(c apis.Codec) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[c.ContentType()] = c
}

// Get returns a codec by content type.
func (r *Registry) Get(contentType string) (apis.Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byType[contentType]
	return c, ok
}

// ContentTypes returns the registered content types, sorted.
func (r *Registry) ContentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byType))
	for ct := range r.byType {
		out = append(out, ct)
	}
	sort.Strings(out)
	return out
}
