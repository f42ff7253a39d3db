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

package codec_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"pgregory.net/rapid"

	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/codec"
)

type point struct {
	X int `json:"x" cbor:"x"`
	Y int `json:"y" cbor:"y"`
}

func TestJSONCodec(t *testing.T) {
	c := codec.JSON()
	require.Equal(t, "application/json", c.ContentType())

	b, err := c.Marshal(point{X: 1, Y: 2})
	require.NoError(t, err)

	framed, err := c.Wrap("Point", b)
	require.NoError(t, err)
	require.JSONEq(t, `{"Point":{"x":1,"y":2}}`, string(framed))

	tag, payload, err := c.Unwrap(framed)
	require.NoError(t, err)
	require.Equal(t, "Point", tag)

	var out point
	require.NoError(t, c.Unmarshal(payload, &out))
	require.Equal(t, point{X: 1, Y: 2}, out)
}

func TestJSONCodec_GenericTagIsAKey(t *testing.T) {
	c := codec.JSON()
	framed, err := c.Wrap("Outer<Inner<int>>", []byte(`7`))
	require.NoError(t, err)
	require.Equal(t, `{"Outer<Inner<int>>":7}`, string(framed))

	tag, payload, err := c.Unwrap(framed)
	require.NoError(t, err)
	require.Equal(t, "Outer<Inner<int>>", tag)
	require.Equal(t, "7", string(payload))
}

func TestCBORCodec(t *testing.T) {
	c, err := codec.CBOR()
	require.NoError(t, err)
	require.Equal(t, "application/cbor", c.ContentType())

	b, err := c.Marshal(point{X: 3, Y: 4})
	require.NoError(t, err)

	framed, err := c.Wrap("Point", b)
	require.NoError(t, err)

	tag, payload, err := c.Unwrap(framed)
	require.NoError(t, err)
	require.Equal(t, "Point", tag)

	var out point
	require.NoError(t, c.Unmarshal(payload, &out))
	require.Equal(t, point{X: 3, Y: 4}, out)
}

func TestCBORCodec_Deterministic(t *testing.T) {
	c := codec.MustCBOR()
	a, err := c.Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		b, err := c.Marshal(map[string]int{"c": 3, "a": 1, "b": 2})
		require.NoError(t, err)
		require.Equal(t, a, b)
	}
}

func TestProtoCodec(t *testing.T) {
	c := codec.Proto()
	require.Equal(t, "application/x-protobuf", c.ContentType())

	s, err := structpb.NewStruct(map[string]any{"k": "v"})
	require.NoError(t, err)
	b, err := c.Marshal(s)
	require.NoError(t, err)

	framed, err := c.Wrap("Settings", b)
	require.NoError(t, err)

	tag, payload, err := c.Unwrap(framed)
	require.NoError(t, err)
	require.Equal(t, "Settings", tag)

	var out structpb.Struct
	require.NoError(t, c.Unmarshal(payload, &out))
	require.Equal(t, "v", out.Fields["k"].GetStringValue())
}

func TestProtoCodec_RejectsNonMessages(t *testing.T) {
	c := codec.Proto()
	_, err := c.Marshal(point{})
	require.Error(t, err)

	var p point
	require.Error(t, c.Unmarshal(nil, &p))
}

func TestProtoCodec_WrapIsAny(t *testing.T) {
	c := codec.Proto()
	b, err := c.Marshal(wrapperspb.String("hi"))
	require.NoError(t, err)

	framed, err := c.Wrap("Name", b)
	require.NoError(t, err)

	// The frame is a plain google.protobuf.Any on the wire.
	var a anypb.Any
	require.NoError(t, proto.Unmarshal(framed, &a))
	require.Equal(t, "Name", a.GetTypeUrl())

	var sv wrapperspb.StringValue
	require.NoError(t, proto.Unmarshal(a.GetValue(), &sv))
	require.Equal(t, "hi", sv.GetValue())
}

func TestPrefixed(t *testing.T) {
	c := codec.Prefixed(codec.JSON())
	require.Equal(t, "application/json; framing=prefixed", c.ContentType())

	b, err := c.Marshal(point{X: 5})
	require.NoError(t, err)

	framed, err := c.Wrap("Point", b)
	require.NoError(t, err)
	require.Equal(t, byte(5), framed[0])
	require.Equal(t, "Point", string(framed[1:6]))

	tag, payload, err := c.Unwrap(framed)
	require.NoError(t, err)
	require.Equal(t, "Point", tag)

	var out point
	require.NoError(t, c.Unmarshal(payload, &out))
	require.Equal(t, point{X: 5}, out)
}

func TestUnwrap_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		codec apis.Codec
		data  []byte
	}{
		{"json not object", codec.JSON(), []byte(`[1]`)},
		{"json two keys", codec.JSON(), []byte(`{"a":1,"b":2}`)},
		{"json empty", codec.JSON(), []byte(`{}`)},
		{"cbor garbage", codec.MustCBOR(), []byte{0xff, 0x00}},
		{"proto garbage", codec.Proto(), []byte{0xff, 0xff, 0xff}},
		{"prefixed empty", codec.Prefixed(codec.JSON()), nil},
		{"prefixed short", codec.Prefixed(codec.JSON()), []byte{10, 'a', 'b'}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := tc.codec.Unwrap(tc.data)
			require.ErrorIs(t, err, codec.ErrMalformed)
		})
	}
}

func TestWrap_EmptyTag(t *testing.T) {
	for _, c := range []apis.Codec{
		codec.JSON(), codec.MustCBOR(), codec.Proto(), codec.Prefixed(codec.JSON()),
	} {
		_, err := c.Wrap("", []byte(`1`))
		require.ErrorIs(t, err, codec.ErrEmptyTag, c.ContentType())
	}
}

func TestRegistry(t *testing.T) {
	r := codec.NewRegistry()
	require.Equal(t, []string{"application/json", "application/x-protobuf"}, r.ContentTypes())

	_, ok := r.Get("application/cbor")
	require.False(t, ok)

	r.Register(codec.MustCBOR())
	c, ok := r.Get("application/cbor")
	require.True(t, ok)
	require.Equal(t, "application/cbor", c.ContentType())

	r.Register(nil)
	require.Len(t, r.ContentTypes(), 3)
}

// ===========================================================================
// Property-Based Tests (using pgregory.net/rapid)
// ===========================================================================

func TestProperty_FramingPreservesTagAndPayload(t *testing.T) {
	codecs := []apis.Codec{
		codec.Proto(),
		codec.Prefixed(codec.JSON()),
		codec.Prefixed(codec.MustCBOR()),
	}
	rapid.Check(t, func(rt *rapid.T) {
		c := rapid.SampledFrom(codecs).Draw(rt, "codec")
		tag := rapid.StringMatching(`[A-Za-z][A-Za-z0-9_<>,\[\]]{0,24}`).Draw(rt, "tag")
		payload := rapid.SliceOf(rapid.Byte()).Draw(rt, "payload")

		framed, err := c.Wrap(tag, payload)
		require.NoError(rt, err)

		gotTag, gotPayload, err := c.Unwrap(framed)
		require.NoError(rt, err)
		require.Equal(rt, tag, gotTag)
		require.Equal(rt, len(payload), len(gotPayload))
		if len(payload) > 0 {
			require.Equal(rt, payload, gotPayload)
		}
	})
}
