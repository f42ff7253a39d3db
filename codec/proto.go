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

package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"

	"dirpx.dev/tagfx/apis"
)

type protoCodec struct {
	mo proto.MarshalOptions
	uo proto.UnmarshalOptions
}

// Proto returns a Protocol Buffers codec with deterministic marshaling.
// Tagged values travel as google.protobuf.Any whose type_url is the tag.
// Content-Type: application/x-protobuf
func Proto() apis.Codec {
	return protoCodec{
		mo: proto.MarshalOptions{Deterministic: true},
		uo: proto.UnmarshalOptions{},
	}
}

func (p protoCodec) ContentType() string { return "application/x-protobuf" }

func (p protoCodec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("tagfx(codec): protobuf: value does not implement proto.Message: %T", v)
	}
	return p.mo.Marshal(msg)
}

func (p protoCodec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("tagfx(codec): protobuf: target does not implement proto.Message: %T", v)
	}
	return p.uo.Unmarshal(data, msg)
}

func (p protoCodec) Wrap(tag string, payload []byte) ([]byte, error) {
	if tag == "" {
		return nil, ErrEmptyTag
	}
	return p.mo.Marshal(&anypb.Any{TypeUrl: tag, Value: payload})
}

func (p protoCodec) Unwrap(data []byte) (string, []byte, error) {
	var a anypb.Any
	if err := p.uo.Unmarshal(data, &a); err != nil {
		return "", nil, malformed("protobuf: %v", err)
	}
	if a.GetTypeUrl() == "" {
		return "", nil, ErrEmptyTag
	}
	return a.GetTypeUrl(), a.GetValue(), nil
}
