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
	"strings"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/registry"
)

// Instance is one concrete type handed to a Helper, built by Of.
type Instance struct {
	typ    reflect.Type
	decode func(c apis.Codec, payload []byte) (any, error)
}

// Type returns the concrete type of the instance.
func (i Instance) Type() reflect.Type { return i.typ }

// Of returns the Instance for T.
func Of[T any]() Instance {
	return Instance{
		typ: reflect.TypeFor[T](),
		decode: func(c apis.Codec, payload []byte) (any, error) {
			return decodeAs[T](c, payload)
		},
	}
}

// Helper registers instantiations of a generic implementer of I.
//
// Go cannot enumerate the instantiations a program uses, so each one is
// handed over explicitly, usually from init():
//
//	var gShapes = tagfx.Deferred[Shape]("G")
//
//	func init() {
//	    gShapes.MustRegister(tagfx.Of[G[int]](), tagfx.Of[G[string]]())
//	}
//
// Instantiations never handed to a helper stay unknown to the registry.
type Helper[I any] struct {
	name    string
	blanket bool
}

// Deferred returns a helper for the generic implementer whose tags start
// with base: each registered tag must be base or base<...>.
func Deferred[I any](base string) *Helper[I] {
	return &Helper[I]{name: base}
}

// Blanket returns a helper for a blanket implementer of I, whose tags are
// those of the wrapped types (see Delegate). Tags are not checked against a
// base. The helper is named after I.
func Blanket[I any]() *Helper[I] {
	return &Helper[I]{name: reflect.TypeFor[I]().Name(), blanket: true}
}

// Name returns the helper's base name.
func (h *Helper[I]) Name() string { return h.name }

// Register computes the tag of each instance and binds it to I.
// All instances are attempted; the returned error joins every failure.
func (h *Helper[I]) Register(insts ...Instance) error {
	it := reflect.TypeFor[I]()
	if it.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotInterface, it)
	}

	var errs []error
	for _, inst := range insts {
		if err := h.register(it, inst); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Helper[I]) register(it reflect.Type, inst Instance) error {
	if inst.typ == nil {
		return registry.ErrNilType
	}
	if !inst.typ.AssignableTo(it) {
		return fmt.Errorf("%w: %s does not implement %s", registry.ErrNotImplemented, inst.typ, it)
	}
	tg, err := TagType(inst.typ)
	if err != nil {
		return err
	}
	if !h.blanket && tg != h.name && !strings.HasPrefix(tg, h.name+"<") {
		return fmt.Errorf("%w: %q is not %q or %q", ErrForeignTag, tg, h.name, h.name+"<...>")
	}

	decode := inst.decode
	return add(registry.Binding[I]{
		Tag:  tg,
		Type: inst.typ,
		Decode: func(c apis.Codec, payload []byte) (I, error) {
			v, err := decode(c, payload)
			if err != nil {
				var zero I
				return zero, err
			}
			return v.(I), nil
		},
	})
}

// MustRegister is like Register but panics on error.
func (h *Helper[I]) MustRegister(insts ...Instance) {
	if err := h.Register(insts...); err != nil {
		panic(err)
	}
}
