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

// Package runner sequences patch jobs and aggregates their per-file results.
package runner

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/txn"
	"gitlab.com/tozd/go/errors"
)

// 📋 Job pairs one file with the ordered patches to apply to it.
type Job struct {
	Path    string
	Patches []*patch.Spec
}

// 📊 Report is the ordered sequence of per-file results for one run.
type Report struct {
	Results []txn.Result

	Applied  int
	Skipped  int
	NotFound int
	Errored  int
}

// Failed reports whether the run as a whole should exit non-zero. Skipped and
// NotFound are steady-state outcomes of an idempotent tool, not failures.
func (r *Report) Failed() bool {
	return r.Errored > 0
}

// 🔧 Options configures a run.
type Options struct {
	DryRun bool

	// OnResult, if set, is called with each file result as it is produced,
	// in job order. Used by the CLI for per-file status lines.
	OnResult func(txn.Result)
}

// 🏃 Run executes jobs strictly in order, one file transaction each.
//
// Every spec of every job is validated before any file is touched: a
// malformed spec means the refactor definition itself is broken and no
// partial result can be trusted, so it aborts the run with an error. After
// that point nothing aborts: a file that cannot be read or written is
// recorded as an IOError result and the remaining jobs still run, since no
// single file's failure should block edits to unrelated files.
func Run(ctx context.Context, jobs []Job, opts Options) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	for _, job := range jobs {
		if job.Path == "" {
			return nil, errors.Errorf("job with empty file path")
		}
		if len(job.Patches) == 0 {
			return nil, errors.Errorf("job %s: no patches", job.Path)
		}
		for _, spec := range job.Patches {
			if err := spec.Validate(); err != nil {
				return nil, errors.Errorf("job %s: %w", job.Path, err)
			}
		}
	}

	tx := txn.New(txn.Options{DryRun: opts.DryRun})

	report := &Report{Results: make([]txn.Result, 0, len(jobs))}
	for _, job := range jobs {
		logger.Debug().Str("path", job.Path).Int("patches", len(job.Patches)).Msg("processing job")

		result := tx.Apply(ctx, job.Path, job.Patches)
		report.Results = append(report.Results, result)

		switch result.Outcome {
		case txn.OutcomeApplied:
			report.Applied++
		case txn.OutcomeSkipped:
			report.Skipped++
		case txn.OutcomeNotFound:
			report.NotFound++
		case txn.OutcomeIOError:
			report.Errored++
			logger.Error().Err(result.Err).Str("path", job.Path).Msg("job failed, continuing with remaining jobs")
		}

		if opts.OnResult != nil {
			opts.OnResult(result)
		}
	}

	return report, nil
}
