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

package convert

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/imgconv/pkg/config"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 TaskFunc converts one source file and returns its outcome. Failures
// are carried inside the Outcome, never returned out-of-band.
type TaskFunc func(ctx context.Context, source string, cfg *config.Config) Outcome

// 🏃 Dispatcher fans conversion tasks out over a bounded worker pool and
// fans their outcomes in to a single reporter.
type Dispatcher struct {
	workers int
	task    TaskFunc
}

// 🏗️ NewDispatcher creates a dispatcher running at most workers tasks
// concurrently. A nil task means the real converter.
func NewDispatcher(workers int, task TaskFunc) (*Dispatcher, error) {
	if workers < 1 {
		return nil, errors.Errorf("worker pool needs a positive size, got %d", workers)
	}
	if task == nil {
		task = Convert
	}
	return &Dispatcher{workers: workers, task: task}, nil
}

// 🏃 Run converts every file and blocks until all tasks have completed.
// Outcomes reach the reporter in completion order, from one goroutine.
// Individual task outcomes never fail the run; the only error Run returns
// is a cancelled context, checked at each dispatch boundary (in-flight
// tasks still finish and are reported).
func (d *Dispatcher) Run(ctx context.Context, cfg *config.Config, files []string, reporter Reporter) error {
	logger := zerolog.Ctx(ctx)

	reporter.Begin(ctx, len(files))
	if len(files) == 0 {
		logger.Debug().Msg("no files to convert")
		reporter.Done(ctx)
		return nil
	}

	outcomes := make(chan Outcome)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for o := range outcomes {
			reporter.Report(ctx, o)
		}
	}()

	var g errgroup.Group
	g.SetLimit(d.workers)

	var dispatchErr error
	for _, source := range files {
		source := source
		if err := ctx.Err(); err != nil {
			dispatchErr = errors.Errorf("dispatch cancelled: %w", err)
			break
		}
		g.Go(func() error {
			outcomes <- d.runTask(ctx, source, cfg)
			return nil
		})
	}

	_ = g.Wait()
	close(outcomes)
	<-collected

	reporter.Done(ctx)

	logger.Debug().Int("files", len(files)).Msg("dispatch complete")
	return dispatchErr
}

// runTask shields the pool from a panicking task: the worker must always
// produce an outcome.
func (d *Dispatcher) runTask(ctx context.Context, source string, cfg *config.Config) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Source: source,
				Dest:   DestinationPath(source, cfg),
				Err:    errors.Errorf("converting %s: panic: %v", source, r),
			}
		}
	}()
	return d.task(ctx, source, cfg)
}
