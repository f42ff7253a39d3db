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
package tagfx

import (
	"fmt"

	"go.uber.org/zap"

	"dirpx.dev/tagfx/config"
	"dirpx.dev/tagfx/log"
)

// Configure loads settings from path (see config.Load) and installs them
// globally: derivation knobs through SetConfig and a logger built from the
// log section through SetLogger. An empty path uses defaults and TAGFX_*
// environment variables only.
//
// Registries materialized before Configure keep the logger and
// MaxKnownTags they were created with.
func Configure(path string) error {
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	l, err := log.New(f.Log)
	if err != nil {
		return fmt.Errorf("tagfx: configure: %w", err)
	}
	SetConfig(f.Tags)
	SetLogger(l)
	l.Debug("configured",
		zap.String("path", path),
		zap.Bool("qualify_names", f.Tags.QualifyNames),
		zap.Int("max_depth", f.Tags.MaxDepth),
		zap.Int("max_known_tags", f.Tags.MaxKnownTags),
	)
	return nil
}

// MustConfigure is like Configure but panics on error.
func MustConfigure(path string) {
	if err := Configure(path); err != nil {
		panic(err)
	}
}
