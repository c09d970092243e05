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

// Package cli implements the commands of the lark tool.
package cli

import (
	"github.com/gx-org/lark/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	// Log to the standard error.
	_ "github.com/tliron/commonlog/simple"
)

// debugVerbosity is the commonlog verbosity at which debug messages are logged.
const debugVerbosity = 2

// RootOptions are the flags shared by all the commands.
type RootOptions struct {
	ConfigPath string
	Verbose    int
	NoOptimize bool
	Trace      bool

	// cfg is the configuration loaded before running a command.
	cfg *config.Config
}

// NewRootCommand returns the lark command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:   "lark",
		Short: "lark compiles and runs Starlark modules",
		Long: `lark compiles a subset of Starlark into bytecode and runs it.

The configuration is read from the file given by --config or, if not set,
from the first lark.toml found in the current directory or its parents.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path of the configuration file")
	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "log more (repeat to increase)")
	cmd.PersistentFlags().BoolVar(&opts.NoOptimize, "no-optimize", false, "do not simplify boolean expressions")
	cmd.PersistentFlags().BoolVar(&opts.Trace, "trace", false, "log every instruction executed")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewDisasmCommand(opts))
	cmd.AddCommand(NewIRCommand(opts))
	return cmd
}

// load reads the configuration, applies the flags, and configures logging.
func (opts *RootOptions) load() error {
	var err error
	if opts.ConfigPath != "" {
		opts.cfg, err = config.Load(opts.ConfigPath)
	} else {
		opts.cfg, err = config.Find(".")
	}
	if err != nil {
		return err
	}
	if opts.NoOptimize {
		opts.cfg.Compile.Optimize = false
	}
	if opts.Trace {
		opts.cfg.Run.Trace = true
	}
	verbosity := opts.cfg.Log.Verbosity + opts.Verbose
	if opts.cfg.Run.Trace {
		verbosity = max(verbosity, debugVerbosity)
	}
	commonlog.Configure(verbosity, nil)
	return nil
}

// Config returns the configuration used by the commands.
func (opts *RootOptions) Config() *config.Config {
	if opts.cfg == nil {
		return config.Default()
	}
	return opts.cfg
}
