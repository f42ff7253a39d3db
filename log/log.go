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

// Package log builds the structured logger used by tagfx.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dirpx.dev/tagfx/apis"
)

// New builds a zap.Logger from the provided configuration.
// Output is "stdout" or "stderr" (the default). Unlike an application
// logger it is never installed globally. The caller should defer
// logger.Sync().
func New(c apis.LogConfig) (*zap.Logger, error) {
	var ws zapcore.WriteSyncer
	switch strings.ToLower(c.Output) {
	case "stdout":
		ws = zapcore.AddSync(os.Stdout)
	case "stderr", "":
		ws = zapcore.AddSync(os.Stderr)
	default:
		return nil, fmt.Errorf("tagfx(log): unsupported output %q", c.Output)
	}
	return build(c, ws), nil
}

// NewTo is like New but writes to w regardless of c.Output.
func NewTo(c apis.LogConfig, w io.Writer) *zap.Logger {
	return build(c, zapcore.AddSync(w))
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }

func build(c apis.LogConfig, ws zapcore.WriteSyncer) *zap.Logger {
	encCfg := defaultEncoderConfig(c.Development)
	var encoder zapcore.Encoder
	if strings.ToLower(c.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, ws, ParseLevel(c.Level))
	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	}
	if c.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...).Named("tagfx")
}

// ParseLevel maps a level name to a zap level; unknown names map to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func defaultEncoderConfig(dev bool) zapcore.EncoderConfig {
	if dev {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return cfg
	}
	return zap.NewProductionEncoderConfig()
}
