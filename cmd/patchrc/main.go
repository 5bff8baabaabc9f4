package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
)

func main() {
	// Setup logging
	logger := setupLogging()
	ctx := logger.WithContext(context.Background())
	userLogger := log.NewUserLogger(ctx)

	rootOpts := &opts.RootOpts{}

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "patchrc",
		Short: "A tool for applying idempotent, pattern-anchored patches to source trees",
		Long: `patchrc applies a declared sequence of guarded text patches to files in a
source tree. Every patch carries a guard predicate, so re-running the same
run on an already-patched tree is a byte-for-byte no-op.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if rootOpts.Debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	// Add shared flags
	addRootFlags(rootCmd, rootOpts)

	// Add commands
	rootCmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewPlanCmd(rootOpts),
		commands.NewReportCmd(rootOpts),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
