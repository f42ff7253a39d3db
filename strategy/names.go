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

package strategy

import (
	"reflect"

	"dirpx.dev/tagfx/apis"
)

// NewNamesStrategy creates an apis.Strategy that consults explicit renames.
func NewNamesStrategy(names apis.Names) apis.Strategy {
	return &namesStrategy{names: names}
}

// namesStrategy consults a provided apis.Names table (reflection-free lookup).
type namesStrategy struct {
	names apis.Names
}

// Ensure namesStrategy implements apis.Strategy.
var _ apis.Strategy = (*namesStrategy)(nil)

// TryResolveType looks up t in the rename table.
func (s *namesStrategy) TryResolveType(t reflect.Type, _ apis.Config) (string, bool, error) {
	if t == nil || s.names == nil {
		return "", false, nil
	}
	name, ok := s.names.Lookup(t)
	return name, ok, nil
}
