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

package tagfx

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/tagfx/collector"
	"dirpx.dev/tagfx/names"
	"dirpx.dev/tagfx/registry"
	uref "dirpx.dev/tagfx/utils/reflect"
)

var (
	// ErrNotInterface is returned when a registry is requested for a
	// non-interface type.
	ErrNotInterface = errors.New("tagfx: registry type parameter must be an interface")
	// ErrNeedsHelper is returned when Register is given a generic
	// instantiation whose tag keeps type arguments; such instantiations
	// are registered through a Deferred helper.
	ErrNeedsHelper = errors.New("tagfx: generic instantiation must be registered through a helper")
	// ErrForeignTag is returned when a helper is given an instantiation
	// whose tag does not belong to the helper's base.
	ErrForeignTag = errors.New("tagfx: tag does not belong to helper")
	// ErrTypeRetagged is returned when a type already bound to an interface
	// is registered again under a different tag.
	ErrTypeRetagged = errors.New("tagfx: type already registered under another tag")
)

var (
	// regs holds materialized registries: reflect.Type of I -> *registry.Registry[I].
	regs sync.Map
	// drains holds, per interface with pending records, the func that
	// materializes its registry.
	drains sync.Map // reflect.Type -> func() error
)

// RegistryFor returns the registry for interface I, materializing it from
// the collected records on first use. It panics if the collected records
// conflict (see Seal to get the error instead).
func RegistryFor[I any]() *registry.Registry[I] {
	r, err := registryFor[I]()
	if err != nil {
		panic(err)
	}
	return r
}

func registryFor[I any]() (*registry.Registry[I], error) {
	it := reflect.TypeFor[I]()
	if v, ok := regs.Load(it); ok {
		return v.(*registry.Registry[I]), nil
	}
	if it.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: %s", ErrNotInterface, it)
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Re-check under lock in case another goroutine materialized meanwhile.
	if v, ok := regs.Load(it); ok {
		return v.(*registry.Registry[I]), nil
	}

	s := st.Load()
	r := registry.New[I](
		registry.WithLogger(s.log),
		registry.WithMaxKnownTags(s.cfg.MaxKnownTags),
	)
	var errs []error
	for _, rec := range collector.For(it) {
		dec, ok := rec.Decode.(registry.DecodeFunc[I])
		if !ok {
			errs = append(errs, fmt.Errorf("tagfx: record %q for %s carries %T, want registry.DecodeFunc[%s]",
				rec.Tag, it, rec.Decode, it))
			continue
		}
		if err := r.Register(registry.Binding[I]{Tag: rec.Tag, Type: rec.Type, Decode: dec}); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	regs.Store(it, r)
	delete(pending, it)
	s.log.Info("registry materialized",
		zap.String("interface", it.String()),
		zap.Int("tags", r.Count()),
	)
	return r, nil
}

// pending indexes the records collected through add, per interface, until
// the interface's registry materializes. Guarded by buildMu.
var pending = map[reflect.Type]*pendingSet{}

type pendingSet struct {
	byTag  map[string]reflect.Type
	byType map[reflect.Type]string
}

// pendingFor returns the index for it, seeded once from the records already
// in the collector. Caller holds buildMu.
func pendingFor(it reflect.Type) *pendingSet {
	if p, ok := pending[it]; ok {
		return p
	}
	p := &pendingSet{byTag: map[string]reflect.Type{}, byType: map[reflect.Type]string{}}
	for _, rec := range collector.For(it) {
		p.put(rec.Tag, rec.Type)
	}
	pending[it] = p
	return p
}

func (p *pendingSet) put(tag string, t reflect.Type) {
	if _, ok := p.byTag[tag]; !ok {
		p.byTag[tag] = t
	}
	if _, ok := p.byType[t]; !ok {
		p.byType[t] = tag
	}
}

func retagged(it, t reflect.Type, existing, incoming string) error {
	return fmt.Errorf("%w: %s is %q for %s, not %q", ErrTypeRetagged, t, existing, it, incoming)
}

// add registers b for I: directly when the registry already exists,
// otherwise as a pending record. Pending records are checked against each
// other so conflicts surface at registration time. A type keeps one tag
// per interface.
func add[I any](b registry.Binding[I]) error {
	it := reflect.TypeFor[I]()

	buildMu.Lock()
	defer buildMu.Unlock()

	if v, ok := regs.Load(it); ok {
		r := v.(*registry.Registry[I])
		if old, ok := r.TagFor(b.Type); ok && old != b.Tag {
			if _, taken := r.Lookup(b.Tag); !taken {
				return retagged(it, b.Type, old, b.Tag)
			}
		}
		return r.Register(b)
	}

	p := pendingFor(it)
	if old, ok := p.byTag[b.Tag]; ok {
		if old == b.Type {
			return nil
		}
		return &registry.DuplicateTagError{
			Interface: it.String(),
			Tag:       b.Tag,
			Existing:  old,
			Incoming:  b.Type,
		}
	}
	if old, ok := p.byType[b.Type]; ok {
		return retagged(it, b.Type, old, b.Tag)
	}
	if err := collector.Submit(collector.Record{
		Interface: it,
		Type:      b.Type,
		Tag:       b.Tag,
		Decode:    b.Decode,
	}); err != nil {
		return err
	}
	p.put(b.Tag, b.Type)
	drains.LoadOrStore(it, func() error {
		_, err := registryFor[I]()
		return err
	})
	st.Load().log.Debug("binding collected",
		zap.String("interface", it.String()),
		zap.String("tag", b.Tag),
		zap.Stringer("type", b.Type),
	)
	return nil
}

// Option configures Register.
type Option func(*regOptions)

type regOptions struct {
	name string
}

// WithName registers the type under name instead of its derived tag.
// The name is also recorded in the global rename table so the type keeps
// it when used as an argument of another tag.
func WithName(name string) Option {
	return func(o *regOptions) { o.name = name }
}

// Register binds the concrete type T to interface I under T's tag.
//
// T must implement I. Generic instantiations whose tag keeps type arguments
// are rejected with ErrNeedsHelper; register those through Deferred.
// Registering the same (tag, type) pair twice is a no-op; another type
// under an existing tag is a *registry.DuplicateTagError, and the same type
// under a second tag (for example a late WithName) is ErrTypeRetagged.
func Register[I, T any](opts ...Option) error {
	var o regOptions
	for _, opt := range opts {
		opt(&o)
	}

	it, tt := reflect.TypeFor[I](), reflect.TypeFor[T]()
	if it.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotInterface, it)
	}
	if !tt.AssignableTo(it) {
		return fmt.Errorf("%w: %s does not implement %s", registry.ErrNotImplemented, tt, it)
	}

	tg := o.name
	if tg != "" {
		if old, ok := Names().Lookup(tt); ok && old != tg {
			return fmt.Errorf("%w: %s is already %q", names.ErrConflictingRename, tt, old)
		}
	} else {
		var err error
		if tg, err = TagType(tt); err != nil {
			return err
		}
		if b, err := uref.Deref(tt, Config()); err == nil && uref.IsGeneric(b) && strings.ContainsRune(tg, '<') {
			return fmt.Errorf("%w: %s (tag %q)", ErrNeedsHelper, tt, tg)
		}
	}

	if err := add(registry.Binding[I]{Tag: tg, Type: tt, Decode: decodeFor[I, T]()}); err != nil {
		return err
	}
	if o.name != "" {
		if err := Names().Register(tt, tg); err != nil && !errors.Is(err, uref.ErrReflectTypeNotNamed) {
			return err
		}
	}
	return nil
}

// MustRegister is like Register but panics on error. It is meant for init().
func MustRegister[I, T any](opts ...Option) {
	if err := Register[I, T](opts...); err != nil {
		panic(err)
	}
}

// Seal materializes every registry with pending records and returns the
// conflicts found, if any. Calling it at the end of startup turns the
// panic of a later RegistryFor into an error.
//
// Interfaces whose records were only submitted to the collector cannot be
// materialized without their type parameter; their records are checked
// against each other for tags bound to different types.
func Seal() error {
	var errs []error
	drains.Range(func(_, v any) bool {
		if err := v.(func() error)(); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	for _, it := range collector.Default.Interfaces() {
		if _, ok := drains.Load(it); ok {
			continue
		}
		errs = append(errs, clashes(it, collector.For(it))...)
	}
	return errors.Join(errs...)
}

// clashes reports the records of it that bind one tag to different types.
func clashes(it reflect.Type, recs []collector.Record) []error {
	seen := make(map[string]reflect.Type, len(recs))
	var errs []error
	for _, rec := range recs {
		old, ok := seen[rec.Tag]
		if !ok {
			seen[rec.Tag] = rec.Type
			continue
		}
		if old != rec.Type {
			errs = append(errs, &registry.DuplicateTagError{
				Interface: it.String(),
				Tag:       rec.Tag,
				Existing:  old,
				Incoming:  rec.Type,
			})
		}
	}
	return errs
}

// Interfaces returns the names of every interface with a materialized
// registry or pending records, sorted.
func Interfaces() []string {
	seen := map[string]bool{}
	regs.Range(func(k, _ any) bool {
		seen[k.(reflect.Type).String()] = true
		return true
	})
	for _, it := range collector.Default.Interfaces() {
		seen[it.String()] = true
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
