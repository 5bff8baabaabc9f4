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

// Package txn owns the read-modify-write lifecycle of a single patched file.
package txn

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/textutil"
	"gitlab.com/tozd/go/errors"
)

// content previews in debug logs are capped to this many bytes
const previewBytes = 64

// 📊 Outcome is the file-level result of one transaction.
type Outcome int

const (
	OutcomeUnknown  Outcome = iota
	OutcomeApplied          // at least one patch changed the file
	OutcomeSkipped          // every patch was already in effect
	OutcomeNotFound         // no patch applied and at least one anchor was missing
	OutcomeIOError          // the file could not be read, decoded, or written
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeIOError:
		return "io_error"
	default:
		return "unknown"
	}
}

// 📄 Result reports what happened to one file in one run.
type Result struct {
	Path           string
	Outcome        Outcome
	PatchesApplied int
	PerPatch       []patch.Outcome // aligned with the input spec order; nil on IOError
	Err            error           // set only when Outcome is OutcomeIOError
}

// fileState is the in-memory transaction, local to one call of Apply. It is
// never shared across files or runs.
type fileState struct {
	path     string
	original []byte
	current  []byte
}

func (s *fileState) dirty() bool {
	return !bytes.Equal(s.original, s.current)
}

// 🔧 Options configures a Runner.
type Options struct {
	// DryRun evaluates guards and anchors but never writes the file back.
	DryRun bool
}

// 💾 Runner applies ordered patch specs to single files, one transaction per
// call.
type Runner struct {
	opts Options
}

// 🏭 New creates a new transaction runner.
func New(opts Options) *Runner {
	return &Runner{opts: opts}
}

// 🏃 Apply reads path, threads its content through every spec in order, and
// writes the result back only if the buffer changed. All I/O failures are
// captured in the Result rather than returned: one broken file must not take
// down the rest of the run.
func (r *Runner) Apply(ctx context.Context, path string, specs []*patch.Spec) Result {
	logger := zerolog.Ctx(ctx)

	original, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Outcome: OutcomeIOError, Err: errors.Errorf("reading file: %w", err)}
	}

	if !utf8.Valid(original) {
		return Result{Path: path, Outcome: OutcomeIOError, Err: errors.Errorf("file %s is not valid UTF-8", path)}
	}

	state := &fileState{path: path, original: original, current: original}

	perPatch := make([]patch.Outcome, 0, len(specs))
	applied := 0
	notFound := 0
	for _, spec := range specs {
		next, outcome := patch.Apply(ctx, state.current, spec)
		perPatch = append(perPatch, outcome)
		switch outcome {
		case patch.OutcomeApplied:
			applied++
		case patch.OutcomeNotFound:
			notFound++
		}
		state.current = next
	}

	result := Result{
		Path:           path,
		PatchesApplied: applied,
		PerPatch:       perPatch,
	}

	switch {
	case applied > 0:
		result.Outcome = OutcomeApplied
	case notFound > 0:
		result.Outcome = OutcomeNotFound
	default:
		result.Outcome = OutcomeSkipped
	}

	if !state.dirty() {
		logger.Debug().Str("path", path).Msg("buffer unchanged, skipping write")
		return result
	}

	if r.opts.DryRun {
		logger.Debug().Str("path", path).Int("patches", applied).Msg("dry run, not writing")
		return result
	}

	if err := writeFileAtomic(path, state.current); err != nil {
		result.Outcome = OutcomeIOError
		result.Err = err
		return result
	}

	logger.Debug().
		Str("path", path).
		Int("patches", applied).
		Bytes("head", textutil.TruncateBytes(state.current, previewBytes)).
		Msg("file written")
	return result
}

// writeFileAtomic writes content to a temp file in the same directory and
// renames it over path, preserving the original file mode.
func writeFileAtomic(path string, content []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tempPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")

	if err := os.WriteFile(tempPath, content, mode); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
