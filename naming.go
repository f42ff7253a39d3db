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
	"reflect"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/tag"
	uref "dirpx.dev/tagfx/utils/reflect"
)

var constType = reflect.TypeFor[apis.Const]()

// Tag returns the tag of v's dynamic type using the global resolver.
func Tag(v any) (string, error) {
	s := st.Load()
	return s.res.Resolve(v, s.cfg)
}

// TagType returns the tag of t using the global resolver.
func TagType(t reflect.Type) (string, error) {
	s := st.Load()
	return s.res.ResolveType(t, s.cfg)
}

// TagOf returns the tag of T.
func TagOf[T any]() (string, error) {
	return TagType(reflect.TypeFor[T]())
}

// MustTagOf is like TagOf but panics on error.
func MustTagOf[T any]() string {
	s, err := TagOf[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// Rename pins the tag of T (and *T) to name in the global rename table.
// A rename wins over TypeTag and the reflected name.
func Rename[T any](name string) error {
	return Names().Register(reflect.TypeFor[T](), name)
}

// Generic renders the tag of a generic type from its base and arguments.
// It is meant to be called from TypeTag and panics with a *tag.Error when
// an argument has no tag; the panic is turned back into an error by the
// resolver.
//
//	func (Pair[A, B]) TypeTag() string {
//	    return tagfx.Generic("Pair", tagfx.Arg[A](), tagfx.Arg[B]())
//	}
func Generic(base string, args ...tag.Arg) string {
	s, err := tag.RenderDepth(tag.Named{Base: base, Args: args}, Config().MaxDepth)
	if err != nil {
		panic(err)
	}
	return s
}

// Arg returns the tag argument for type parameter T. Types implementing
// apis.Const render as their literal.
func Arg[T any]() tag.Arg {
	t := reflect.TypeFor[T]()
	if lit, ok := constLiteral(t); ok {
		return tag.Lit(lit)
	}
	s, err := TagType(t)
	if err != nil {
		return tag.Ref(tag.Invalid{Subject: t.String(), Err: err})
	}
	return tag.Ref(tag.Ident(s))
}

// ArgOr returns a defaulted tag argument: it is left out of the rendered
// tag whenever T's tag equals the tag of the default D.
//
//	type H[T any] struct{}  // T defaults to int
//
//	func (H[T]) TypeTag() string {
//	    return tagfx.Generic("H", tagfx.ArgOr[T, int]())
//	}
//
//	H[int]    -> "H"
//	H[string] -> "H<string>"
func ArgOr[T, D any]() tag.Arg {
	return tag.Defaulted(argType(Arg[T]()), argType(Arg[D]()))
}

// Delegate returns the tag of T unchanged. Blanket adapters use it so that
// wrapping a value does not change its wire identity:
//
//	func (Wrapper[T]) TypeTag() string { return tagfx.Delegate[T]() }
func Delegate[T any]() string {
	s, err := tag.RenderDepth(tag.Delegated{Inner: argType(Arg[T]())}, Config().MaxDepth)
	if err != nil {
		panic(err)
	}
	return s
}

// argType turns a into a tag node; literals become plain identifiers.
func argType(a tag.Arg) tag.Type {
	if a.IsLiteral() {
		return tag.Ident(a.Literal)
	}
	return a.Type
}

// constLiteral calls ConstLiteral on a fresh value of t when t or *t
// implements apis.Const.
func constLiteral(t reflect.Type) (string, bool) {
	impl, ok := uref.Implements(t, constType)
	if !ok {
		return "", false
	}
	var v any
	if impl == t {
		v = reflect.Zero(t).Interface()
	} else {
		v = reflect.New(t).Interface()
	}
	c, ok := v.(apis.Const)
	if !ok {
		return "", false
	}
	return c.ConstLiteral(), true
}
