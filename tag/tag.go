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

// Package tag renders canonical tag strings.
//
// A tag is described by a small tree:
//
//	Named{Base: "Pair", Args: []Arg{Ref(Ident("int")), Lit("4")}}  -> "Pair<int,4>"
//	Delegated{Inner: Ident("Point")}                                -> "Point"
//
// Rules:
//   - a Named node without rendered arguments is its base alone;
//   - rendered arguments are comma-joined inside "<" and ">", in order;
//   - a defaulted argument is elided when it renders equal to its default;
//   - a Delegated node renders its inner node with no wrapping.
//
// Rendering is pure and safe for concurrent use.
package tag

import (
	"errors"
	"strings"
)

// DefaultMaxDepth bounds nesting when no explicit limit is given.
const DefaultMaxDepth = 32

var (
	// ErrNoName indicates that a type has no derivable name and no explicit override.
	ErrNoName = errors.New("no derivable name")
	// ErrTooDeep indicates that a tag tree exceeds the nesting limit (usually a self-referential tag).
	ErrTooDeep = errors.New("tag nesting too deep")
)

// Type is a node of a tag tree.
type Type interface {
	render(b *strings.Builder, depth, max int) error
}

// Ident is a leaf holding an already rendered tag.
type Ident string

// Named is a (possibly generic) type identified by Base.
type Named struct {
	// Base is the type's own identifier, without arguments.
	Base string
	// Args are the type arguments in declaration order.
	Args []Arg
}

// Delegated is a blanket implementer whose tag is exactly the tag of Inner.
type Delegated struct {
	Inner Type
}

// Invalid is a node that failed to derive; rendering it returns Err.
type Invalid struct {
	Subject string
	Err     error
}

// Arg is a single type argument of a Named node.
type Arg struct {
	// Type is the argument's tag tree. Nil for literal arguments.
	Type Type
	// Literal is the textual value of a const argument.
	Literal string
	// Default, when set, marks the argument as defaulted: the argument
	// is elided whenever Type renders equal to Default.
	Default Type

	literal bool
}

// Ref returns an argument rendered as the tag of t.
func Ref(t Type) Arg { return Arg{Type: t} }

// Lit returns a const argument rendered as its literal text.
func Lit(s string) Arg { return Arg{Literal: s, literal: true} }

// Defaulted returns an argument that is elided when t renders as def.
func Defaulted(t, def Type) Arg { return Arg{Type: t, Default: def} }

// IsLiteral reports whether a is a const argument.
func (a Arg) IsLiteral() bool { return a.literal }

// Render returns the canonical tag for t using DefaultMaxDepth.
func Render(t Type) (string, error) {
	return RenderDepth(t, DefaultMaxDepth)
}

// RenderDepth returns the canonical tag for t, failing with ErrTooDeep when
// the tree nests deeper than max.
func RenderDepth(t Type, max int) (string, error) {
	if max <= 0 {
		max = DefaultMaxDepth
	}
	if t == nil {
		return "", &Error{Err: ErrNoName}
	}
	var b strings.Builder
	if err := t.render(&b, 0, max); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MustRender is like Render but panics on error.
func MustRender(t Type) string {
	s, err := Render(t)
	if err != nil {
		panic(err)
	}
	return s
}

func (i Ident) render(b *strings.Builder, depth, max int) error {
	if depth > max {
		return &Error{Subject: string(i), Err: ErrTooDeep}
	}
	if i == "" {
		return &Error{Err: ErrNoName}
	}
	b.WriteString(string(i))
	return nil
}

func (n Named) render(b *strings.Builder, depth, max int) error {
	if depth > max {
		return &Error{Subject: n.Base, Err: ErrTooDeep}
	}
	if n.Base == "" {
		return &Error{Err: ErrNoName}
	}

	// Render arguments first so elided defaults never leave "<>" behind.
	rendered := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		s, keep, err := a.render(depth+1, max)
		if err != nil {
			return wrapSubject(err, n.Base)
		}
		if keep {
			rendered = append(rendered, s)
		}
	}

	b.WriteString(n.Base)
	if len(rendered) == 0 {
		return nil
	}
	b.WriteByte('<')
	b.WriteString(strings.Join(rendered, ","))
	b.WriteByte('>')
	return nil
}

func (d Delegated) render(b *strings.Builder, depth, max int) error {
	if depth > max {
		return &Error{Err: ErrTooDeep}
	}
	if d.Inner == nil {
		return &Error{Err: ErrNoName}
	}
	return d.Inner.render(b, depth+1, max)
}

func (n Invalid) render(_ *strings.Builder, _, _ int) error {
	err := n.Err
	if err == nil {
		err = ErrNoName
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	return &Error{Subject: n.Subject, Err: err}
}

// render returns the argument's text and whether it survives default elision.
func (a Arg) render(depth, max int) (string, bool, error) {
	if a.literal {
		if a.Literal == "" {
			return "", false, &Error{Err: ErrNoName}
		}
		return a.Literal, true, nil
	}
	s, err := sub(a.Type, depth, max)
	if err != nil {
		return "", false, err
	}
	if a.Default == nil {
		return s, true, nil
	}
	def, err := sub(a.Default, depth, max)
	if err != nil {
		return "", false, err
	}
	return s, s != def, nil
}

func sub(t Type, depth, max int) (string, error) {
	if t == nil {
		return "", &Error{Err: ErrNoName}
	}
	var b strings.Builder
	if err := t.render(&b, depth, max); err != nil {
		return "", err
	}
	return b.String(), nil
}
