// Copyright 2025 walteh LLC
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

// Package convert holds the core of the converter: the per-file
// conversion task, the bounded-parallel dispatcher, and the outcome model
// tying the two to a reporter.
package convert

import "context"

// 📊 Kind classifies a finished conversion.
type Kind int

const (
	Success            Kind = iota
	SuccessWithWarning      // converted, but with informational warnings
	Failure                 // this file was not converted
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case SuccessWithWarning:
		return "warning"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// 📄 Outcome is the result of converting one source file. Exactly one is
// produced per file, created when the task finishes and consumed once by
// the reporter; it is never mutated afterwards.
type Outcome struct {
	Source   string   // source file path
	Dest     string   // derived destination path
	Warnings []string // informational warnings, printed but non-fatal
	Err      error    // non-nil when the file was not converted
}

// 🎯 Kind derives the classification from the recorded fields.
func (o Outcome) Kind() Kind {
	switch {
	case o.Err != nil:
		return Failure
	case len(o.Warnings) > 0:
		return SuccessWithWarning
	default:
		return Success
	}
}

// 📈 Reporter consumes the outcome stream. Report is called once per
// completed task, from a single goroutine, in completion order; Done is
// called exactly once after every task has finished.
type Reporter interface {
	// Begin announces the total number of tasks before any runs.
	Begin(ctx context.Context, total int)
	// Report consumes one outcome.
	Report(ctx context.Context, outcome Outcome)
	// Done signals that the outcome stream is complete.
	Done(ctx context.Context)
}
