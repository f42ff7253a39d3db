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

// Builder composes the rename table and Resolver from a Config.
// Implementations may reuse state from previous instances, or ignore it.
type Builder interface {
	// BuildNames constructs a rename table for Config, carrying over the
	// entries of prev when it is non-nil.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildNames(cfg Config, prev Names, ext any) Names

	// BuildResolver constructs a Resolver for Config over the rename table names.
	BuildResolver(cfg Config, names Names, prev Resolver, ext any) Resolver
}
