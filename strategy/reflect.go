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

package strategy

import (
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/tag"
	uref "dirpx.dev/tagfx/utils/reflect"
)

// ErrGenericNotTagged is wrapped (together with tag.ErrNoName) when a generic
// instantiation has to be named by reflection: its type arguments are not
// recoverable from reflect.Type, so the type must implement apis.Tagged.
var ErrGenericNotTagged = fmt.Errorf("%w: generic type must implement TypeTag", tag.ErrNoName)

// NewReflectStrategy creates an apis.Strategy that derives tags from the Go
// type name, with memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback that uses the type identifier
// ("Circle", or "shapes.Circle" with QualifyNames). Builtins keep their Go
// name ("int", "string").
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect derivation.
type cacheKey struct {
	t       reflect.Type
	qualify bool
}

type cacheVal struct {
	name string
	err  error
}

// typeNameCache caches derived names by (type, config knobs).
var typeNameCache sync.Map // key: cacheKey, val: cacheVal

// TryResolveType derives the tag of the named type t.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool, error) {
	if t == nil {
		return "", false, nil
	}
	key := cacheKey{t: t, qualify: cfg.QualifyNames}
	if v, ok := typeNameCache.Load(key); ok {
		cv := v.(cacheVal)
		return cv.name, true, cv.err
	}

	cv := derive(t, cfg)
	typeNameCache.Store(key, cv)
	return cv.name, true, cv.err
}

func derive(t reflect.Type, cfg apis.Config) cacheVal {
	if uref.IsGeneric(t) {
		return cacheVal{err: &tag.Error{Subject: t.String(), Err: ErrGenericNotTagged}}
	}
	name := uref.BaseName(t, cfg.QualifyNames)
	if name == "" {
		return cacheVal{err: &tag.Error{Subject: t.String(), Err: tag.ErrNoName}}
	}
	return cacheVal{name: name}
}
