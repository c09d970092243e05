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

package fmterr

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// StackTrace returns the stack trace recorded by the first error in the chain
// created with github.com/pkg/errors, or nil if there is none.
func StackTrace(err error) errors.StackTrace {
	var withSt stackTracer
	if !errors.As(err, &withSt) {
		return nil
	}
	return withSt.StackTrace()
}

// format implements fmt.Formatter for the errors of this package.
// %+v appends the stack trace at which the error has been created.
func format(err error, s fmt.State, verb rune) {
	switch verb {
	case 'v':
		io.WriteString(s, err.Error())
		if !s.Flag('+') {
			return
		}
		if st := StackTrace(err); st != nil {
			fmt.Fprintf(s, "\nError generated at:%+v\n", st)
		}
	case 's':
		io.WriteString(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}
