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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrEmptyTag is returned when a binding carries an empty tag.
	ErrEmptyTag = errors.New("tagfx(registry): empty tag")
	// ErrNilType is returned when a binding carries a nil reflect.Type.
	ErrNilType = errors.New("tagfx(registry): nil reflect.Type provided")
	// ErrNilDecode is returned when a binding has no decode func.
	ErrNilDecode = errors.New("tagfx(registry): nil decode func")
	// ErrNotImplemented is returned when the bound type does not implement
	// the registry's interface.
	ErrNotImplemented = errors.New("tagfx(registry): type does not implement interface")
	// ErrDuplicateTag matches every *DuplicateTagError.
	ErrDuplicateTag = errors.New("tagfx(registry): duplicate tag")
	// ErrUnknownTag matches every *UnknownTagError.
	ErrUnknownTag = errors.New("tagfx(registry): unknown tag")
)

// DuplicateTagError reports two distinct Go types claiming one tag within
// the same interface registry.
type DuplicateTagError struct {
	Interface string
	Tag       string
	Existing  reflect.Type
	Incoming  reflect.Type
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("tagfx(registry): duplicate tag %q for %s: already bound to %s, cannot bind %s",
		e.Tag, e.Interface, e.Existing, e.Incoming)
}

func (e *DuplicateTagError) Is(target error) bool { return target == ErrDuplicateTag }

// UnknownTagError reports a decode request for a tag with no binding.
// Known lists registered tags (sorted, possibly truncated) for diagnostics;
// Omitted counts the tags left out of Known.
type UnknownTagError struct {
	Interface string
	Tag       string
	Known     []string
	Omitted   int
}

func (e *UnknownTagError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tagfx(registry): unknown tag %q for %s", e.Tag, e.Interface)
	switch {
	case len(e.Known) > 0:
		b.WriteString(" (known: ")
		b.WriteString(strings.Join(e.Known, ", "))
		if e.Omitted > 0 {
			fmt.Fprintf(&b, ", and %d more", e.Omitted)
		}
		b.WriteByte(')')
	case e.Omitted > 0:
		fmt.Fprintf(&b, " (%d tags registered)", e.Omitted)
	default:
		b.WriteString(" (no tags registered)")
	}
	return b.String()
}

func (e *UnknownTagError) Is(target error) bool { return target == ErrUnknownTag }

// DecodeError wraps a payload decoding failure for a known tag.
type DecodeError struct {
	Tag string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tagfx(registry): decode %q: %v", e.Tag, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
