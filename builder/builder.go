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

package builder

import (
	"dirpx.dev/tagfx/apis"
	"dirpx.dev/tagfx/names"
	"dirpx.dev/tagfx/resolver"
	"dirpx.dev/tagfx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildNames builds a new rename table for cfg. If a previous table is
// provided, its entries are copied into the new one.
func (b *builder) BuildNames(cfg apis.Config, prev apis.Names, _ any) apis.Names {
	n := names.New(cfg)
	if prev != nil {
		for _, e := range prev.Entries() {
			_ = n.Register(e.Type, e.Name)
		}
	}
	return n
}

// BuildResolver builds the default chain: explicit renames, then TypeTag,
// then the reflected type name.
func (b *builder) BuildResolver(_ apis.Config, n apis.Names, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(
		strategy.NewNamesStrategy(n),
		strategy.NewTaggedStrategy(),
		strategy.NewReflectStrategy(),
	)
}
