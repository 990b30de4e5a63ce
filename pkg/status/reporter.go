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

package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/imgconv/pkg/convert"
	"github.com/walteh/imgconv/pkg/log"
)

// interface guard
var _ convert.Reporter = (*ConsoleReporter)(nil)

// 📈 ConsoleReporter renders a run on the terminal: a pterm progress bar
// advanced once per outcome, warning/failure lines through pkg/log, and a
// summary on Done.
type ConsoleReporter struct {
	logger *log.Logger
	writer io.Writer

	mu        sync.Mutex
	bar       *pterm.ProgressbarPrinter
	total     int
	converted int
	warned    int
	failed    int
}

// 🏭 NewConsoleReporter creates a reporter writing its progress bar to w
// (nil means stdout) and its message lines through logger.
func NewConsoleReporter(logger *log.Logger, w io.Writer) *ConsoleReporter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleReporter{logger: logger, writer: w}
}

// 🎬 Begin starts the progress bar.
func (r *ConsoleReporter) Begin(ctx context.Context, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = total
	if total == 0 {
		return
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("converting").
		WithWriter(r.writer).
		Start()
	if err != nil {
		// Degrade to line output only.
		zerolog.Ctx(ctx).Warn().Err(err).Msg("progress bar unavailable")
		return
	}
	r.bar = bar
}

// 📄 Report consumes one outcome: count it, print its warning/failure
// lines, advance the bar. Plain successes print nothing.
func (r *ConsoleReporter) Report(ctx context.Context, o convert.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	details := make([]string, 0, len(o.Warnings)+1)
	for _, w := range o.Warnings {
		details = append(details, "Warning: "+w)
	}

	switch o.Kind() {
	case convert.Failure:
		r.failed++
		details = append(details, fmt.Sprintf("Error: file: %s, message: %v", o.Source, o.Err))
	case convert.SuccessWithWarning:
		r.converted++
		r.warned++
	default:
		r.converted++
	}

	if o.Kind() != convert.Success {
		r.logger.LogConversion(ctx, log.ConversionLine{
			Source:  o.Source,
			Dest:    o.Dest,
			Kind:    o.Kind().String(),
			Details: details,
		})
	}

	if r.bar != nil {
		r.bar.Increment()
	}
}

// 🏁 Done stops the bar and prints the run summary.
func (r *ConsoleReporter) Done(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		if _, err := r.bar.Stop(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("stopping progress bar")
		}
		r.bar = nil
	}

	summary := fmt.Sprintf("Done. %d/%d converted, %d warnings, %d errors",
		r.converted, r.total, r.warned, r.failed)
	if r.failed > 0 {
		r.logger.Warning(summary)
		return
	}
	r.logger.Success(summary)
}

// 📊 Counts reports the totals accumulated so far.
func (r *ConsoleReporter) Counts() (converted, warned, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.converted, r.warned, r.failed
}
