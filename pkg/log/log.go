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

// Package log renders per-file patch outcomes and run summaries for humans,
// mirroring everything into zerolog for debugging.
package log

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/runner"
	"github.com/walteh/patchrc/pkg/textutil"
	"github.com/walteh/patchrc/pkg/txn"
)

// error detail lines are capped so one unreadable path cannot flood the console
const maxDetailBytes = 200

// 📢 UserLogger provides user-friendly feedback about patch outcomes.
type UserLogger struct {
	log    zerolog.Logger // for debug/error logging
	dryRun bool
}

// 🎯 NewUserLogger creates a new user logger.
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 🎯 NewDryRunLogger creates a user logger that labels output as a plan.
func NewDryRunLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log:    *zerolog.Ctx(ctx),
		dryRun: true,
	}
}

// formatResult builds the human status line for one file transaction.
func formatResult(result txn.Result, dryRun bool) string {
	var action string
	switch result.Outcome {
	case txn.OutcomeApplied:
		action = "Updated"
		if dryRun {
			action = "Would update"
		}
	case txn.OutcomeSkipped:
		action = "Skipped"
	case txn.OutcomeNotFound:
		action = "No anchor in"
	case txn.OutcomeIOError:
		action = "Error"
	default:
		action = "Unknown"
	}

	msg := fmt.Sprintf("%s %s", action, result.Path)
	if result.PatchesApplied > 0 {
		msg += fmt.Sprintf(" (%d patches)", result.PatchesApplied)
	}
	return msg
}

// 📝 LogFileResult prints one status line for a finished file transaction.
func (u *UserLogger) LogFileResult(result txn.Result) {
	var printer *pterm.PrefixPrinter
	switch result.Outcome {
	case txn.OutcomeApplied:
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✓"})
	case txn.OutcomeSkipped:
		// Info, not Debug: every file gets its status line even on quiet runs.
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "•"})
	case txn.OutcomeNotFound:
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "?"})
	case txn.OutcomeIOError:
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "✗"})
	default:
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "?"})
	}

	msg := formatResult(result, u.dryRun)
	printer.Println(msg)
	if result.Err != nil {
		pterm.Error.Println(textutil.Truncate(result.Err.Error(), maxDetailBytes))
		u.log.Error().Err(result.Err).Str("path", result.Path).Msg(msg)
		return
	}
	u.log.Info().
		Str("path", result.Path).
		Str("outcome", result.Outcome.String()).
		Int("patches_applied", result.PatchesApplied).
		Msg(msg)
}

// 📊 LogSummary prints the final run summary.
func (u *UserLogger) LogSummary(report *runner.Report) {
	line := fmt.Sprintf("%d updated, %d skipped, %d without anchor, %d failed",
		report.Applied, report.Skipped, report.NotFound, report.Errored)

	if report.Failed() {
		fmt.Println(color.New(color.FgRed, color.Bold).Sprint(line))
	} else {
		fmt.Println(color.New(color.FgGreen).Sprint(line))
	}

	u.log.Info().
		Int("applied", report.Applied).
		Int("skipped", report.Skipped).
		Int("not_found", report.NotFound).
		Int("errored", report.Errored).
		Bool("failed", report.Failed()).
		Msg("run complete")
}

// 🔍 LogValidation reports a startup or configuration check: config loading,
// job compilation, command failure. The error detail is capped like file
// results; the full error stays on the zerolog side for --debug runs.
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✓"}).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "✗"}).Println(description)
		pterm.Error.Println(textutil.Truncate(err.Error(), maxDetailBytes))
		u.log.Error().Err(err).Msg(description)
		return
	}
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "!"}).Println(description)
	u.log.Warn().Msg(description)
}
