package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
)

// NewPlanCmd creates a new plan command
func NewPlanCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what apply would change, without writing anything",
		Long: `Plan evaluates every guard and anchor exactly like apply, but never
writes a file back. Use it to preview a refactor or to verify that a
previous apply left nothing to do.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "plan").Logger().WithContext(ctx)

			return runJobs(ctx, o, true)
		},
	}

	return cmd
}
