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

package tag_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"dirpx.dev/tagfx/tag"
)

func TestRender(t *testing.T) {
	cases := []struct {
		name string
		in   tag.Type
		want string
	}{
		{"ident", tag.Ident("Point"), "Point"},
		{"named no args", tag.Named{Base: "Circle"}, "Circle"},
		{"one arg", tag.Named{Base: "G", Args: []tag.Arg{tag.Ref(tag.Ident("int"))}}, "G<int>"},
		{"two args", tag.Named{Base: "Pair", Args: []tag.Arg{
			tag.Ref(tag.Ident("int")), tag.Ref(tag.Ident("string")),
		}}, "Pair<int,string>"},
		{"nested", tag.Named{Base: "Outer", Args: []tag.Arg{
			tag.Ref(tag.Named{Base: "Inner", Args: []tag.Arg{tag.Ref(tag.Ident("int"))}}),
		}}, "Outer<Inner<int>>"},
		{"const literal", tag.Named{Base: "Ring", Args: []tag.Arg{
			tag.Ref(tag.Ident("int")), tag.Lit("4"),
		}}, "Ring<int,4>"},
		{"default used", tag.Named{Base: "H", Args: []tag.Arg{
			tag.Defaulted(tag.Ident("int"), tag.Ident("int")),
		}}, "H"},
		{"default overridden", tag.Named{Base: "H", Args: []tag.Arg{
			tag.Defaulted(tag.Ident("string"), tag.Ident("int")),
		}}, "H<string>"},
		{"mixed defaults keep order", tag.Named{Base: "M", Args: []tag.Arg{
			tag.Ref(tag.Ident("a")),
			tag.Defaulted(tag.Ident("int"), tag.Ident("int")),
			tag.Ref(tag.Ident("b")),
		}}, "M<a,b>"},
		{"delegated", tag.Delegated{Inner: tag.Ident("Point")}, "Point"},
		{"delegated generic", tag.Delegated{Inner: tag.Named{Base: "G", Args: []tag.Arg{
			tag.Ref(tag.Ident("int")),
		}}}, "G<int>"},
		{"generic of delegated", tag.Named{Base: "Box", Args: []tag.Arg{
			tag.Ref(tag.Delegated{Inner: tag.Ident("Point")}),
		}}, "Box<Point>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tag.Render(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRender_NoName(t *testing.T) {
	cases := []struct {
		name string
		in   tag.Type
	}{
		{"nil", nil},
		{"empty ident", tag.Ident("")},
		{"empty base", tag.Named{}},
		{"empty arg", tag.Named{Base: "G", Args: []tag.Arg{tag.Ref(nil)}}},
		{"empty literal", tag.Named{Base: "G", Args: []tag.Arg{tag.Lit("")}}},
		{"invalid arg", tag.Named{Base: "G", Args: []tag.Arg{tag.Ref(tag.Invalid{Subject: "func()"})}}},
		{"empty delegate", tag.Delegated{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tag.Render(tc.in)
			require.ErrorIs(t, err, tag.ErrNoName)

			var te *tag.Error
			require.True(t, errors.As(err, &te))
		})
	}
}

func TestRender_SubjectPropagates(t *testing.T) {
	_, err := tag.Render(tag.Named{Base: "Pair", Args: []tag.Arg{tag.Ref(tag.Ident(""))}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Pair")

	_, err = tag.Render(tag.Named{Base: "Pair", Args: []tag.Arg{
		tag.Ref(tag.Invalid{Subject: "chan int"}),
	}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "chan int")
}

func TestRender_Invalid_WrapsCause(t *testing.T) {
	cause := errors.New("boom")
	_, err := tag.Render(tag.Invalid{Subject: "X", Err: cause})
	require.ErrorIs(t, err, cause)
}

func TestRenderDepth_TooDeep(t *testing.T) {
	var n tag.Type = tag.Ident("int")
	for i := 0; i < 10; i++ {
		n = tag.Named{Base: "L", Args: []tag.Arg{tag.Ref(n)}}
	}

	_, err := tag.RenderDepth(n, 4)
	require.ErrorIs(t, err, tag.ErrTooDeep)

	got, err := tag.RenderDepth(n, 32)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("L<", 10)+"int"+strings.Repeat(">", 10), got)
}

func TestMustRender_Panics(t *testing.T) {
	require.Panics(t, func() { tag.MustRender(tag.Named{}) })
	require.Equal(t, "A", tag.MustRender(tag.Ident("A")))
}

func TestArg_IsLiteral(t *testing.T) {
	require.True(t, tag.Lit("3").IsLiteral())
	require.False(t, tag.Ref(tag.Ident("x")).IsLiteral())
}

// ===========================================================================
// Property-Based Tests (using pgregory.net/rapid)
// ===========================================================================

var identGen = rapid.StringMatching(`[A-Za-z][A-Za-z0-9_]{0,8}`)

func TestProperty_NamedFormat(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := identGen.Draw(rt, "base")
		argNames := rapid.SliceOfN(identGen, 0, 6).Draw(rt, "args")

		args := make([]tag.Arg, 0, len(argNames))
		for _, a := range argNames {
			args = append(args, tag.Ref(tag.Ident(a)))
		}

		got, err := tag.Render(tag.Named{Base: base, Args: args})
		require.NoError(rt, err)

		if len(argNames) == 0 {
			require.Equal(rt, base, got)
			return
		}
		require.Equal(rt, base+"<"+strings.Join(argNames, ",")+">", got)
	})
}

func TestProperty_DefaultsNeverRender(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := identGen.Draw(rt, "base")
		def := identGen.Draw(rt, "default")
		n := rapid.IntRange(1, 5).Draw(rt, "n")

		args := make([]tag.Arg, n)
		for i := range args {
			args[i] = tag.Defaulted(tag.Ident(def), tag.Ident(def))
		}

		got, err := tag.Render(tag.Named{Base: base, Args: args})
		require.NoError(rt, err)
		require.Equal(rt, base, got)
	})
}

func TestProperty_DelegationIsTransparent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := identGen.Draw(rt, "base")
		depth := rapid.IntRange(1, 8).Draw(rt, "depth")

		var n tag.Type = tag.Ident(base)
		for i := 0; i < depth; i++ {
			n = tag.Delegated{Inner: n}
		}

		got, err := tag.Render(n)
		require.NoError(rt, err)
		require.Equal(rt, base, got)
	})
}
