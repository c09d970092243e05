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

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/gx-org/lark/bc"
	"github.com/gx-org/lark/bc/image"
	"github.com/gx-org/lark/config"
	"github.com/gx-org/lark/interp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.starlark.net/starlark"
)

// NewRunCommand returns the command running a source file or an image.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Run a Starlark source file or a compiled image",
		Long: `Run a Starlark source file or a compiled image (` + ImageExt + `).

The global variables of the module are printed once the module has been executed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts.Config(), args[0], cmd.OutOrStdout())
		},
	}
}

func runRun(cfg *config.Config, path string, w io.Writer) error {
	prog, err := loadProgram(path, cfg)
	if err != nil {
		return err
	}
	itrpOpts := cfg.InterpOptions()
	itrpOpts.Print = func(_ *starlark.Thread, msg string) {
		fmt.Fprintln(w, msg)
	}
	globals, err := interp.New(itrpOpts).Run(prog)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, globals.String())
	return err
}

// NewCompileCommand returns the command compiling a source file into an image.
func NewCompileCommand(opts *RootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a Starlark source file into an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "path of the image (default: the source path with the "+ImageExt+" extension)")
	return cmd
}

func runCompile(opts *RootOptions, path, output string, w io.Writer) error {
	if isImage(path) {
		return errors.Errorf("%s is already a compiled image", path)
	}
	prog, err := loadProgram(path, opts.Config())
	if err != nil {
		return err
	}
	data, err := image.Encode(prog)
	if err != nil {
		return err
	}
	if output == "" {
		output = imagePath(path)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.WithStack(err)
	}
	log.Infof("%s: %d instructions written to %s", path, len(prog.Code), output)
	_, err = fmt.Fprintf(w, "%s\n", output)
	return err
}

// NewDisasmCommand returns the command printing the bytecode of a source file or an image.
func NewDisasmCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <file>",
		Short: "Print the bytecode of a Starlark source file or a compiled image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(args[0], opts.Config())
			if err != nil {
				return err
			}
			return writeDisasm(cmd.OutOrStdout(), prog)
		},
	}
}

func writeDisasm(w io.Writer, prog *bc.Program) error {
	_, err := io.WriteString(w, prog.String())
	return err
}

// NewIRCommand returns the command printing the IR of a source file.
func NewIRCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ir <file>",
		Short: "Print the intermediate representation of a Starlark source file",
		Long: `Print the intermediate representation of a Starlark source file.

Boolean expressions are printed once simplified, unless --no-optimize is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, err := buildModule(args[0], opts.Config())
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), mod.String())
			return err
		},
	}
}
