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

// Package tagfx serializes values of an interface type through a stable,
// per-type tag, without a closed list of implementers.
//
// Every concrete type that implements an interface gets a tag: a string such
// as "Circle", "G<int>" or "Outer<Inner<int>>". A process-wide registry per
// interface maps tags back to the code that rebuilds a value from its
// payload, so
//
//	data, _ := tagfx.Encode[Shape](codec.JSON(), Circle{R: 1}) // {"Circle":{"r":1}}
//	s, _ := tagfx.Decode[Shape](codec.JSON(), data)            // Circle{R: 1}
//
// round-trips through the interface.
//
// # Tags
//
// A type's tag comes from, in order:
//
//  1. an explicit rename (Rename, or Register with WithName);
//  2. its TypeTag method (apis.Tagged);
//  3. its Go type name ("Circle"; "shapes.Circle" with QualifyNames).
//
// Generic types must implement TypeTag, because reflection cannot recover
// type arguments. Generic, Arg, ArgOr and Delegate build such tags:
//
//	func (Pair[A, B]) TypeTag() string {
//	    return tagfx.Generic("Pair", tagfx.Arg[A](), tagfx.Arg[B]())  // "Pair<int,string>"
//	}
//
//	func (H[T]) TypeTag() string {
//	    return tagfx.Generic("H", tagfx.ArgOr[T, int]())  // H[int] -> "H", H[string] -> "H<string>"
//	}
//
//	func (Wrapper[T]) TypeTag() string {
//	    return tagfx.Delegate[T]()  // Wrapper[Point] -> "Point"
//	}
//
// Type parameters implementing apis.Const render as their literal value.
// Pointers share the tag of their pointee. Unnamed slices, arrays and maps
// render in Go syntax over their element tags ("[]Point").
//
// # Registration
//
// Non-generic implementers register once, typically from init():
//
//	func init() {
//	    tagfx.MustRegister[Shape, Circle]()
//	    tagfx.MustRegister[Shape, *Square](tagfx.WithName("square"))
//	}
//
// Instantiations of generic implementers are registered through a helper:
//
//	var gShapes = tagfx.Deferred[Shape]("G")
//
//	func init() {
//	    gShapes.MustRegister(tagfx.Of[G[int]](), tagfx.Of[G[string]]())
//	}
//
// Registrations are collected (package collector) and drained into the
// interface's registry the first time RegistryFor, Encode or Decode needs
// it. Tags are computed at registration, so a type without a derivable tag
// fails in init(). Two types claiming one tag for the same interface are a
// *registry.DuplicateTagError; Seal reports every such conflict at once.
// Registration after the registry exists goes straight into it.
//
// # Wire formats
//
// Package codec provides JSON and CBOR (externally tagged, {"tag": payload}),
// Protobuf (google.protobuf.Any with the tag as type_url) and Prefixed,
// a uvarint length-prefixed tag in front of any codec's payload.
//
// # Global state
//
// Configuration, rename table, resolver, builder and logger live in one
// immutable snapshot published through an atomic pointer. Reads are
// lock-free; writers (SetConfig, SetBuilder, SetExt, SetNames, SetResolver,
// SetLogger, SetAll) take a short build mutex, assemble a new snapshot and
// swap it in.
//
// SetNames and SetResolver pin their layer: it is no longer rebuilt when the
// configuration, builder or extension changes, until UnpinNames or
// UnpinResolver. The extension value (SetExt, ExtAs) is opaque to tagfx and
// handed to the builder on every rebuild.
//
// Configure loads a file and TAGFX_* environment variables (config.Load),
// builds a zap.Logger from its log section (package log) and installs both.
package tagfx
