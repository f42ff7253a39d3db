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

import (
	"reflect"
)

// Strategy is a pluggable derivation step for named types. A Resolver chains
// strategies in order (e.g., Names -> Tagged -> Reflect); pointers and
// unnamed composites are handled by the Resolver before strategies run.
type Strategy interface {
	// TryResolveType attempts to derive the tag of the named type t.
	// It returns (tag, true, nil) if handled, ("", false, nil) to fall through,
	// and a non-nil error to abort the chain.
	TryResolveType(t reflect.Type, cfg Config) (tag string, handled bool, err error)
}
