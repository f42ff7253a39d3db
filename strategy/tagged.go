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
	"errors"
	"reflect"
	"runtime"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/config"
	"dirpx.dev/tagfx/tag"
	uref "dirpx.dev/tagfx/utils/reflect"
)

var taggedType = reflect.TypeFor[apis.Tagged]()

// callTypeTagName identifies callTypeTag frames on a goroutine's stack.
var callTypeTagName = runtime.FuncForPC(reflect.ValueOf(callTypeTag).Pointer()).Name()

// NewTaggedStrategy creates an apis.Strategy that asks types implementing
// apis.Tagged for their own tag.
func NewTaggedStrategy() apis.Strategy {
	return &taggedStrategy{}
}

// taggedStrategy is the self-description path: if T (or *T) implements
// apis.Tagged, TypeTag() on a fresh value is the tag.
type taggedStrategy struct{}

// Ensure taggedStrategy implements apis.Strategy.
var _ apis.Strategy = (*taggedStrategy)(nil)

// TryResolveType calls TypeTag on the zero value of t, or on a new *t when
// only the pointer implements apis.Tagged.
func (*taggedStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (name string, handled bool, err error) {
	if t == nil {
		return "", false, nil
	}
	impl, ok := uref.Implements(t, taggedType)
	if !ok {
		return "", false, nil
	}

	var v any
	if impl == t {
		v = reflect.Zero(t).Interface()
	} else {
		v = reflect.New(t).Interface()
	}
	tg, ok := v.(apis.Tagged)
	if !ok {
		// Zero value of an interface type: nothing to call.
		return "", false, nil
	}

	// A TypeTag that (directly or through its arguments) asks for its own
	// tag keeps re-entering and is cut off once nesting passes MaxDepth.
	limit := cfg.MaxDepth
	if limit <= 0 {
		limit = config.DefaultMaxDepth
	}
	if typeTagDepth(limit) >= limit {
		return "", true, &tag.Error{Subject: t.String(), Err: tag.ErrTooDeep}
	}

	name, err = callTypeTag(tg)
	if err != nil {
		return "", true, err
	}
	if name == "" {
		return "", true, &tag.Error{Subject: t.String(), Err: tag.ErrNoName}
	}
	return name, true, nil
}

// callTypeTag turns tag derivation panics raised inside TypeTag (for example
// by tagfx.Generic) back into errors.
func callTypeTag(tg apis.Tagged) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			var te *tag.Error
			if !ok || !errors.As(rerr, &te) {
				panic(r)
			}
			err = rerr
		}
	}()
	return tg.TypeTag(), nil
}

// typeTagDepth counts TypeTag calls active on the calling goroutine.
func typeTagDepth(limit int) int {
	pcs := make([]uintptr, max(512, limit*32))
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	depth := 0
	for {
		f, more := frames.Next()
		if f.Function == callTypeTagName {
			depth++
		}
		if !more {
			return depth
		}
	}
}
