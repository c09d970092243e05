// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads lark.toml configuration files.
//
// A configuration file looks like:
//
//	[compile]
//	optimize = true
//
//	[run]
//	trace = false
//	max_steps = 100000
//
//	[log]
//	verbosity = 1
//
// Keys missing from the file keep their default value.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gx-org/lark/build/builder"
	"github.com/gx-org/lark/interp"
	"github.com/pkg/errors"
)

// Filename of the configuration file looked up by Find.
const Filename = "lark.toml"

type (
	// Config is the configuration of the lark command.
	Config struct {
		Compile Compile `toml:"compile"`
		Run     Run     `toml:"run"`
		Log     Log     `toml:"log"`

		// Path of the file from which the configuration has been loaded.
		// Empty for the default configuration.
		Path string `toml:"-"`
	}

	// Compile configures the compiler.
	Compile struct {
		Optimize bool `toml:"optimize"`
	}

	// Run configures the interpreter.
	Run struct {
		Trace    bool `toml:"trace"`
		MaxSteps int  `toml:"max_steps"`
	}

	// Log configures logging.
	Log struct {
		// Verbosity given to commonlog.Configure. Higher values log more.
		Verbosity int `toml:"verbosity"`
	}
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Compile: Compile{Optimize: builder.DefaultOptions().Optimize},
	}
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read configuration")
	}
	cfg := Default()
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, errors.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Run.MaxSteps < 0 {
		return nil, errors.Errorf("%s: run.max_steps must be positive or 0 (no limit), got %d", path, cfg.Run.MaxSteps)
	}
	cfg.Path = path
	return cfg, nil
}

// Find walks up from dir to find a lark.toml file and loads it.
// It returns the default configuration if no file is found.
func Find(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for {
		path := filepath.Join(dir, Filename)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// BuilderOptions returns the options of the builder.
func (cfg *Config) BuilderOptions() builder.Options {
	return builder.Options{Optimize: cfg.Compile.Optimize}
}

// InterpOptions returns the options of the interpreter.
func (cfg *Config) InterpOptions() interp.Options {
	return interp.Options{
		Trace:    cfg.Run.Trace,
		MaxSteps: cfg.Run.MaxSteps,
	}
}
