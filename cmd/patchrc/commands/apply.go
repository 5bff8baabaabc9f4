package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/runner"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the configured patches to the source tree",
		Long: `Apply runs every job in the config, in order. It will:
1. Load and compile the patch configuration
2. Read each target file and apply its patches in order
3. Write back only the files whose content changed
4. Print one status line per file and a final summary

Already-patched files are skipped, so apply is safe to re-run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			return runJobs(ctx, o, false)
		},
	}

	return cmd
}

// runJobs is shared between apply and plan: the only difference is whether
// the transaction layer writes anything back.
func runJobs(ctx context.Context, o *opts.RootOpts, dryRun bool) error {
	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return err
	}

	jobs, err := cfg.Compile()
	if err != nil {
		return errors.Errorf("compiling patches: %w", err)
	}

	userLogger := log.NewUserLogger(ctx)
	if dryRun {
		userLogger = log.NewDryRunLogger(ctx)
	}

	report, err := runner.Run(ctx, jobs, runner.Options{
		DryRun:   dryRun,
		OnResult: userLogger.LogFileResult,
	})
	if err != nil {
		return errors.Errorf("running patches: %w", err)
	}

	userLogger.LogSummary(report)

	if report.Failed() {
		return errors.Errorf("%d of %d files failed", report.Errored, len(report.Results))
	}
	return nil
}
