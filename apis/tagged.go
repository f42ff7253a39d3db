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

package apis

// Tagged is implemented by types that describe their own tag.
//
// Monomorphic types usually return a constant:
//
//	func (Circle) TypeTag() string { return "Circle" }
//
// Generic types build their tag from their type arguments so that every
// instantiation gets its own identity:
//
//	func (Pair[A, B]) TypeTag() string {
//	    return tagfx.Generic("Pair", tagfx.Arg[A](), tagfx.Arg[B]())
//	}
//
// TypeTag is called on the zero value (or a freshly allocated pointer for
// pointer receivers) and must not depend on instance state.
type Tagged interface {
	TypeTag() string
}

// Const is implemented by phantom types that stand in for a constant
// generic argument. Such arguments render as their literal value:
//
//	type Four struct{}
//	func (Four) ConstLiteral() string { return "4" }
//
//	Ring[int, Four] -> "Ring<int,4>"
type Const interface {
	ConstLiteral() string
}
