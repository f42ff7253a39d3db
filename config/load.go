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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"dirpx.dev/tagfx/apis"
)

// EnvPrefix is the prefix of environment variables read by Load.
// TAGFX_MAX_DEPTH overrides max_depth, TAGFX_LOG_LEVEL overrides log.level, etc.
const EnvPrefix = "TAGFX"

// File is the on-disk configuration of a process embedding tagfx.
type File struct {
	// Tags holds the derivation knobs.
	Tags apis.Config
	// Log holds logger settings.
	Log apis.LogConfig
}

// fileConfig mirrors File with mapstructure keys.
type fileConfig struct {
	QualifyNames bool `mapstructure:"qualify_names"`
	MaxDepth     int  `mapstructure:"max_depth"`
	MaxKnownTags int  `mapstructure:"max_known_tags"`
	Log          struct {
		Level       string `mapstructure:"level"`
		Format      string `mapstructure:"format"`
		Output      string `mapstructure:"output"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
}

// Load reads configuration from path (YAML, JSON or TOML, chosen by
// extension) layered over defaults and TAGFX_* environment variables.
// An empty path reads defaults and the environment only.
func Load(path string) (File, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if errors.As(err, &nf) {
				return File{}, fmt.Errorf("tagfx(config): config file not found: %s", path)
			}
			return File{}, fmt.Errorf("tagfx(config): read %s: %w", path, err)
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return File{}, fmt.Errorf("tagfx(config): decode: %w", err)
	}

	return File{
		Tags: NewConfig(
			WithQualifyNames(fc.QualifyNames),
			WithMaxDepth(fc.MaxDepth),
			WithMaxKnownTags(fc.MaxKnownTags),
		),
		Log: apis.LogConfig{
			Level:       fc.Log.Level,
			Format:      fc.Log.Format,
			Output:      fc.Log.Output,
			Development: fc.Log.Development,
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("qualify_names", DefaultQualifyNames)
	v.SetDefault("max_depth", DefaultMaxDepth)
	v.SetDefault("max_known_tags", DefaultMaxKnownTags)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.development", false)
}
