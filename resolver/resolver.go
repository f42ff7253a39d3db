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

package resolver

import (
	"reflect"
	"strconv"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/config"
	"dirpx.dev/tagfx/tag"
	uref "dirpx.dev/tagfx/utils/reflect"
)

// New constructs an apis.Resolver that tries the given strategies in order.
// Nil strategies are ignored. The returned resolver is safe for concurrent use
// provided strategies themselves are safe for concurrent calls.
func New(strategies ...apis.Strategy) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{strats: out}
}

// chain is an immutable, order-preserving resolver over a set of strategies.
//
// Pointers are unwrapped before strategies run, so *T and T share a tag.
// Unnamed composites render in Go syntax over their element tags:
// []T -> "[]<T>", [N]T -> "[N]<T>", map[K]V -> "map[<K>]<V>".
// Anything else unnamed (funcs, channels, anonymous structs) has no name.
type chain struct {
	strats []apis.Strategy
}

// Resolve returns the tag of v's dynamic type.
func (r chain) Resolve(v any, cfg apis.Config) (string, error) {
	if v == nil {
		return "", &tag.Error{Subject: "<nil>", Err: tag.ErrNoName}
	}
	return r.ResolveType(reflect.TypeOf(v), cfg)
}

// ResolveType runs strategies in order until one handles the type.
func (r chain) ResolveType(t reflect.Type, cfg apis.Config) (string, error) {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.DefaultMaxDepth
	}
	return r.resolve(t, cfg, 0)
}

func (r chain) resolve(t reflect.Type, cfg apis.Config, depth int) (string, error) {
	if t == nil {
		return "", &tag.Error{Subject: "<nil>", Err: tag.ErrNoName}
	}
	if depth > cfg.MaxDepth {
		return "", &tag.Error{Subject: t.String(), Err: tag.ErrTooDeep}
	}

	b, err := uref.Deref(t, cfg)
	if err != nil {
		return "", &tag.Error{Subject: t.String(), Err: tag.ErrTooDeep}
	}

	if b.Name() == "" {
		return r.composite(b, cfg, depth)
	}

	for _, s := range r.strats {
		name, ok, err := s.TryResolveType(b, cfg)
		if err != nil {
			return "", err
		}
		if ok {
			return name, nil
		}
	}
	return "", &tag.Error{Subject: b.String(), Err: tag.ErrNoName}
}

func (r chain) composite(t reflect.Type, cfg apis.Config, depth int) (string, error) {
	switch t.Kind() {
	case reflect.Slice:
		elem, err := r.resolve(t.Elem(), cfg, depth+1)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil

	case reflect.Array:
		elem, err := r.resolve(t.Elem(), cfg, depth+1)
		if err != nil {
			return "", err
		}
		return "[" + strconv.Itoa(t.Len()) + "]" + elem, nil

	case reflect.Map:
		key, err := r.resolve(t.Key(), cfg, depth+1)
		if err != nil {
			return "", err
		}
		elem, err := r.resolve(t.Elem(), cfg, depth+1)
		if err != nil {
			return "", err
		}
		return "map[" + key + "]" + elem, nil

	default:
		return "", &tag.Error{Subject: t.String(), Err: tag.ErrNoName}
	}
}
