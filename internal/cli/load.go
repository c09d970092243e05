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
	"os"
	"path/filepath"
	"strings"

	"github.com/gx-org/lark/bc"
	"github.com/gx-org/lark/bc/image"
	"github.com/gx-org/lark/build/builder"
	"github.com/gx-org/lark/build/ir"
	"github.com/gx-org/lark/config"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// ImageExt is the extension of compiled images.
const ImageExt = ".larkc"

var log = commonlog.GetLogger("lark.cli")

func isImage(path string) bool {
	return filepath.Ext(path) == ImageExt
}

// imagePath returns the default path of the image compiled from a source file.
func imagePath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ImageExt
}

func buildModule(path string, cfg *config.Config) (*ir.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	log.Debugf("building %s (optimize: %t)", path, cfg.Compile.Optimize)
	return builder.Build(path, src, cfg.BuilderOptions())
}

// loadProgram compiles a source file or decodes an image.
func loadProgram(path string, cfg *config.Config) (*bc.Program, error) {
	if isImage(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		log.Debugf("decoding image %s", path)
		prog, err := image.Decode(data)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
		return prog, nil
	}
	mod, err := buildModule(path, cfg)
	if err != nil {
		return nil, err
	}
	return bc.Compile(mod)
}
