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

package config

import (
	"dirpx.dev/tagfx/apis"
)

const (
	// DefaultQualifyNames represents the default for QualifyNames.
	// Bare identifiers keep tags short and independent of package layout.
	DefaultQualifyNames = false
	// DefaultMaxDepth represents the default for MaxDepth.
	// A value of 16 should be sufficient for all practical purposes.
	DefaultMaxDepth = 16
	// DefaultMaxKnownTags represents the default for MaxKnownTags.
	DefaultMaxKnownTags = 32
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxDepth and MaxKnownTags are valid.
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.MaxKnownTags < 0 {
		cfg.MaxKnownTags = DefaultMaxKnownTags
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		QualifyNames: DefaultQualifyNames,
		MaxDepth:     DefaultMaxDepth,
		MaxKnownTags: DefaultMaxKnownTags,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithQualifyNames sets the QualifyNames option.
func WithQualifyNames(qualify bool) Option {
	return func(c *apis.Config) {
		c.QualifyNames = qualify
	}
}

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = max
	}
}

// WithMaxKnownTags sets the MaxKnownTags option.
// Zero disables the listing; a negative value resets to the default.
func WithMaxKnownTags(n int) Option {
	return func(c *apis.Config) {
		if n < 0 {
			c.MaxKnownTags = DefaultMaxKnownTags
			return
		}
		c.MaxKnownTags = n
	}
}
