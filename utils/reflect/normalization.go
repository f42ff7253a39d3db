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

package reflect

import (
	"errors"
	"path"
	"reflect"
	"strings"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping pointers)
	// is not a named type (e.g., anonymous struct, func, slice literal).
	ErrReflectTypeNotNamed = errors.New("reflect: type is not named")
	// ErrReflectTooDeep indicates that pointer unwrapping exceeded MaxDepth.
	ErrReflectTooDeep = errors.New("reflect: pointer nesting exceeds max depth")
)

// Deref unwraps pointers (*T, **T, ...) and returns the innermost pointee.
//
// If MaxDepth <= 0, DefaultMaxDepth is used.
func Deref(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = config.DefaultMaxDepth
	}

	for i := 0; t.Kind() == reflect.Pointer; i++ {
		if i >= maxDepth {
			return nil, ErrReflectTooDeep
		}
		t = t.Elem()
	}
	return t, nil
}

// Normalize unwraps pointers according to cfg.MaxDepth and returns the
// nearest named type, or an error if the pointee is unnamed.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	b, err := Deref(t, cfg)
	if err != nil {
		return nil, err
	}
	if b.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return b, nil
}

// IsGeneric reports whether t is an instantiation of a generic type.
func IsGeneric(t reflect.Type) bool {
	return t != nil && strings.IndexByte(t.Name(), '[') >= 0
}

// BaseName returns t's identifier without generic instantiation parameters:
// "Pair[int,string]" -> "Pair". When qualify is set and t is declared in a
// package, the last package path element is prepended: "shapes.Pair".
func BaseName(t reflect.Type, qualify bool) string {
	if t == nil {
		return ""
	}
	name := stripTypeParams(t.Name())
	if qualify && name != "" {
		if p := t.PkgPath(); p != "" {
			name = path.Base(p) + "." + name
		}
	}
	return name
}

// Implements reports whether t or *t implements the interface iface.
// The returned type is the one that does (t preferred).
func Implements(t, iface reflect.Type) (reflect.Type, bool) {
	if t == nil || iface == nil || iface.Kind() != reflect.Interface {
		return nil, false
	}
	if t.Implements(iface) {
		return t, true
	}
	if t.Kind() != reflect.Pointer {
		if pt := reflect.PointerTo(t); pt.Implements(iface) {
			return pt, true
		}
	}
	return nil, false
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
