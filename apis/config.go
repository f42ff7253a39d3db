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

// Config carries read-only tag derivation knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// QualifyNames controls whether reflection-derived names carry their
	// package ("shapes.Circle") or only the type identifier ("Circle").
	// Names supplied through Tagged or an explicit rename are never qualified.
	QualifyNames bool

	// MaxDepth limits pointer unwrapping and tag nesting.
	// Acts as a safety guard against self-referential tags.
	MaxDepth int

	// MaxKnownTags caps how many registered tags an unknown-tag error lists
	// for diagnostics. Zero disables the listing.
	MaxKnownTags int
}

// LogConfig describes the structured logger used by tagfx.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string
	// Format: console or json.
	Format string
	// Output: stdout or stderr.
	Output string
	// Development toggles development-friendly logging options.
	Development bool
}
