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

// Package registry holds the per-interface tag registry.
//
// A Registry[I] maps tags to Bindings: the concrete Go type registered under
// the tag and the function that rebuilds it from a payload. Reads load an
// atomically published snapshot and never block; writes copy the snapshot
// under a mutex and publish the copy.
package registry

import (
	"maps"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/config"
)

// DecodeFunc rebuilds a value from a payload encoded with c.
type DecodeFunc[I any] func(c apis.Codec, payload []byte) (I, error)

// Binding associates a tag with a concrete type and its decode func.
// Bindings are immutable once registered.
type Binding[I any] struct {
	// Tag is the wire identifier.
	Tag string
	// Type is the concrete Go type; it must implement I.
	Type reflect.Type
	// Decode rebuilds a value of Type from a payload.
	Decode DecodeFunc[I]
}

// Registry is a concurrent-safe tag registry for interface I.
type Registry[I any] struct {
	iface    reflect.Type
	log      *zap.Logger
	maxKnown int

	// mu serializes writers; readers only touch snap.
	mu   sync.Mutex
	snap atomic.Pointer[snapshot[I]]
}

type snapshot[I any] struct {
	byTag  map[string]Binding[I]
	byType map[reflect.Type]string
}

// Ensure Registry implements apis.Registry.
var _ apis.Registry = (*Registry[any])(nil)

// Option configures a Registry.
type Option func(*options)

type options struct {
	log      *zap.Logger
	maxKnown int
}

// WithLogger sets the logger used for registration events.
// A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.log = l
	}
}

// WithMaxKnownTags caps how many known tags an UnknownTagError lists.
// Zero disables the listing; a negative value resets to the default.
func WithMaxKnownTags(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = config.DefaultMaxKnownTags
		}
		o.maxKnown = n
	}
}

// New returns an empty registry for interface I.
func New[I any](opts ...Option) *Registry[I] {
	o := options{log: zap.NewNop(), maxKnown: config.DefaultMaxKnownTags}
	for _, opt := range opts {
		opt(&o)
	}
	r := &Registry[I]{
		iface:    reflect.TypeFor[I](),
		log:      o.log,
		maxKnown: o.maxKnown,
	}
	r.snap.Store(emptySnapshot[I]())
	return r
}

func emptySnapshot[I any]() *snapshot[I] {
	return &snapshot[I]{
		byTag:  map[string]Binding[I]{},
		byType: map[reflect.Type]string{},
	}
}

// Interface returns the interface type the registry serves.
func (r *Registry[I]) Interface() reflect.Type { return r.iface }

// Register adds b. Registering the same (tag, type) pair again is a no-op;
// a different type under an existing tag is a *DuplicateTagError.
func (r *Registry[I]) Register(b Binding[I]) error {
	if err := r.validate(b); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snap.Load()
	if old, ok := cur.byTag[b.Tag]; ok {
		if old.Type == b.Type {
			return nil
		}
		err := &DuplicateTagError{
			Interface: r.iface.String(),
			Tag:       b.Tag,
			Existing:  old.Type,
			Incoming:  b.Type,
		}
		r.log.Error("duplicate tag rejected",
			zap.String("interface", r.iface.String()),
			zap.String("tag", b.Tag),
			zap.Stringer("existing", old.Type),
			zap.Stringer("incoming", b.Type),
		)
		return err
	}

	next := &snapshot[I]{
		byTag:  maps.Clone(cur.byTag),
		byType: maps.Clone(cur.byType),
	}
	next.byTag[b.Tag] = b
	if _, ok := next.byType[b.Type]; !ok {
		next.byType[b.Type] = b.Tag
	}
	r.snap.Store(next)

	r.log.Debug("binding registered",
		zap.String("interface", r.iface.String()),
		zap.String("tag", b.Tag),
		zap.Stringer("type", b.Type),
	)
	return nil
}

func (r *Registry[I]) validate(b Binding[I]) error {
	if b.Tag == "" {
		return ErrEmptyTag
	}
	if b.Type == nil {
		return ErrNilType
	}
	if b.Decode == nil {
		return ErrNilDecode
	}
	if !b.Type.AssignableTo(r.iface) {
		return ErrNotImplemented
	}
	return nil
}

// Lookup returns the binding for tag.
func (r *Registry[I]) Lookup(tag string) (Binding[I], bool) {
	b, ok := r.snap.Load().byTag[tag]
	return b, ok
}

// TagFor returns the tag bound to the concrete type t (first registration
// wins when a type was bound under several tags).
func (r *Registry[I]) TagFor(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	tag, ok := r.snap.Load().byType[t]
	return tag, ok
}

// Tags returns all registered tags, sorted.
func (r *Registry[I]) Tags() []string {
	return slices.Sorted(maps.Keys(r.snap.Load().byTag))
}

// Entries returns a snapshot of (type, tag) bindings, sorted by tag.
func (r *Registry[I]) Entries() []apis.Entry {
	s := r.snap.Load()
	out := make([]apis.Entry, 0, len(s.byTag))
	for _, tag := range slices.Sorted(maps.Keys(s.byTag)) {
		out = append(out, apis.Entry{Type: s.byTag[tag].Type, Name: tag})
	}
	return out
}

// Count returns the number of bindings.
func (r *Registry[I]) Count() int {
	return len(r.snap.Load().byTag)
}

// Reset clears all bindings.
func (r *Registry[I]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Store(emptySnapshot[I]())
}

// Decode rebuilds the value framed under tag from payload.
func (r *Registry[I]) Decode(c apis.Codec, tag string, payload []byte) (I, error) {
	var zero I
	b, ok := r.Lookup(tag)
	if !ok {
		r.log.Debug("unknown tag",
			zap.String("interface", r.iface.String()),
			zap.String("tag", tag),
		)
		return zero, r.unknown(tag)
	}
	v, err := b.Decode(c, payload)
	if err != nil {
		return zero, &DecodeError{Tag: tag, Err: err}
	}
	return v, nil
}

func (r *Registry[I]) unknown(tag string) *UnknownTagError {
	known := r.Tags()
	e := &UnknownTagError{Interface: r.iface.String(), Tag: tag}
	if len(known) > r.maxKnown {
		e.Omitted = len(known) - r.maxKnown
		known = known[:r.maxKnown]
	}
	if len(known) > 0 {
		e.Known = known
	}
	return e
}
