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

	"go.uber.org/zap"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/registry"
)

// ErrNilValue is returned when encoding a nil interface value.
var ErrNilValue = errors.New("tagfx: cannot encode nil value")

// Encode frames v with its tag using c.
//
// The tag is the one v's concrete type is registered under for I. When
// only the other pointer form (T for *T, *T for T) is registered, its tag
// is used and a warning is logged: decoding yields the registered form.
// An unregistered type is tagged by derivation, and decoding it will fail
// with an unknown tag.
func Encode[I any](c apis.Codec, v I) ([]byte, error) {
	x := any(v)
	if x == nil {
		return nil, ErrNilValue
	}
	r, err := registryFor[I]()
	if err != nil {
		return nil, err
	}

	t := reflect.TypeOf(x)
	tg, ok := r.TagFor(t)
	if !ok {
		alt := otherForm(t)
		if tg, ok = r.TagFor(alt); ok {
			Logger().Warn("encoding the other pointer form of a registered type",
				zap.String("interface", r.Interface().String()),
				zap.String("tag", tg),
				zap.Stringer("type", t),
				zap.Stringer("registered", alt),
			)
		} else {
			if tg, err = TagType(t); err != nil {
				return nil, err
			}
			Logger().Debug("encoding unregistered type",
				zap.String("interface", r.Interface().String()),
				zap.String("tag", tg),
				zap.Stringer("type", t),
			)
		}
	}

	payload, err := c.Marshal(x)
	if err != nil {
		return nil, fmt.Errorf("tagfx: encode %q: %w", tg, err)
	}
	return c.Wrap(tg, payload)
}

// otherForm returns T for *T and *T for T.
func otherForm(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return reflect.PointerTo(t)
}

// Decode unwraps data with c and rebuilds the value bound to its tag in
// I's registry. Unknown tags yield a *registry.UnknownTagError; payload
// failures a *registry.DecodeError.
func Decode[I any](c apis.Codec, data []byte) (I, error) {
	var zero I
	r, err := registryFor[I]()
	if err != nil {
		return zero, err
	}
	tg, payload, err := c.Unwrap(data)
	if err != nil {
		return zero, err
	}
	return r.Decode(c, tg, payload)
}

// PeekTag returns the tag of a framed message without decoding its payload.
func PeekTag(c apis.Codec, data []byte) (string, error) {
	tg, _, err := c.Unwrap(data)
	return tg, err
}

// decodeFor adapts decodeAs to I.
func decodeFor[I, T any]() registry.DecodeFunc[I] {
	return func(c apis.Codec, payload []byte) (I, error) {
		v, err := decodeAs[T](c, payload)
		if err != nil {
			var zero I
			return zero, err
		}
		return any(v).(I), nil
	}
}

// decodeAs allocates exactly one T (or one pointee for pointer T) and
// unmarshals payload into it.
func decodeAs[T any](c apis.Codec, payload []byte) (T, error) {
	var v T
	if t := reflect.TypeFor[T](); t.Kind() == reflect.Pointer {
		p := reflect.New(t.Elem())
		if err := c.Unmarshal(payload, p.Interface()); err != nil {
			return v, err
		}
		return p.Convert(t).Interface().(T), nil
	}
	if err := c.Unmarshal(payload, &v); err != nil {
		return v, err
	}
	return v, nil
}
