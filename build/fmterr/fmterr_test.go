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

package fmterr_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gx-org/lark/build/fmterr"
	"github.com/pkg/errors"
	"go.starlark.net/syntax"
)

func TestErrorf(t *testing.T) {
	file := "test.star"
	pos := syntax.MakePosition(&file, 3, 5)
	err := fmterr.Errorf(pos, "undefined: %s", "x")
	if got, want := err.Error(), "test.star:3:5: undefined: x"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	var withPos fmterr.ErrorWithPos
	if !errors.As(err, &withPos) {
		t.Fatalf("%T does not implement ErrorWithPos", err)
	}
	if withPos.Pos() != pos {
		t.Errorf("got position %v but want %v", withPos.Pos(), pos)
	}
	if fmterr.IsInternal(err) {
		t.Errorf("error %q reported as internal", err)
	}
}

func TestErrorWithoutPosition(t *testing.T) {
	err := fmterr.Errorf(syntax.Position{}, "no position")
	if got, want := err.Error(), "no position"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
}

func TestInternal(t *testing.T) {
	err := fmterr.Internal(errors.New("bad call shape"))
	if !fmterr.IsInternal(err) {
		t.Errorf("error %q not reported as internal", err)
	}
	if !strings.Contains(err.Error(), "bug in lark") {
		t.Errorf("internal error %q does not say it is a bug", err)
	}
	if !strings.HasSuffix(err.Error(), "bad call shape") {
		t.Errorf("internal error %q does not contain its cause", err)
	}
	verbose := fmt.Sprintf("%+v", err)
	if !strings.Contains(verbose, "Error generated at:") {
		t.Errorf("verbose formatting does not contain a stack trace:\n%s", verbose)
	}
	wrapped := fmt.Errorf("compiling: %w", err)
	if !fmterr.IsInternal(wrapped) {
		t.Errorf("wrapped error %q not reported as internal", wrapped)
	}
}

func TestAppender(t *testing.T) {
	file := "a.star"
	var app fmterr.Appender
	if !app.Empty() || app.Err() != nil {
		t.Fatalf("new appender is not empty")
	}
	if app.Appendf(syntax.MakePosition(&file, 1, 1), "first") {
		t.Errorf("Appendf returned true")
	}
	app.Appendf(syntax.MakePosition(&file, 2, 1), "second")
	app.AppendInternalf(syntax.MakePosition(&file, 3, 1), "third")
	if app.Empty() {
		t.Fatalf("appender is empty after appending errors")
	}
	errs := app.Errors()
	if len(errs) != 3 {
		t.Fatalf("got %d errors but want 3: %v", len(errs), errs)
	}
	if got, want := errs[1].Error(), "a.star:2:1: second"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	if !fmterr.IsInternal(errs[2]) {
		t.Errorf("error %q not reported as internal", errs[2])
	}
	if !strings.Contains(app.Err().Error(), "first") {
		t.Errorf("combined error %q does not contain the first error", app.Err())
	}
}
