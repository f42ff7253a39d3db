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

import "reflect"

// Names maps Go types to explicit, human-chosen tags. It overrides every
// other derivation strategy and is how a type is renamed without touching
// its declaration.
type Names interface {
	// Register associates a (nearest named) reflect.Type with a fixed name.
	// Re-registering the same pair is a no-op; a different name is a conflict.
	Register(t reflect.Type, name string) error
	// Lookup returns the name registered for a type.
	Lookup(t reflect.Type) (name string, ok bool)
	// Entries returns a snapshot for diagnostics (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Registry is the type-erased view of a per-interface tag registry,
// used for diagnostics and startup validation.
type Registry interface {
	// Interface returns the interface type the registry serves.
	Interface() reflect.Type
	// Tags returns all registered tags, sorted.
	Tags() []string
	// TagFor returns the tag bound to the concrete type t.
	TagFor(t reflect.Type) (tag string, ok bool)
	// Entries returns a snapshot of (type, tag) bindings, sorted by tag.
	Entries() []Entry
	// Count returns the number of bindings.
	Count() int
}

// Entry is a single (type, name) association in a snapshot.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type
	// Name is the associated name or tag.
	Name string
}
