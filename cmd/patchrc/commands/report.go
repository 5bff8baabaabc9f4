package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// topImports caps how many import counts each section of the report prints
const topImports = 20

// NewReportCmd creates the report command group
func NewReportCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Read-only source tree reports",
		Long: `Report commands scan the tree and print statistics. They never modify
files; they exist to find candidates for the next refactor.`,
	}

	cmd.AddCommand(
		newDuplicatesCmd(),
		newImportsCmd(),
		newUnusedCmd(),
	)

	return cmd
}

func newDuplicatesCmd() *cobra.Command {
	var root string
	var include, exclude []string

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "List file names that exist in more than one directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "report.duplicates").Logger().WithContext(ctx)

			rep, err := report.Duplicates(ctx, root, include, exclude)
			if err != nil {
				return errors.Errorf("scanning duplicates: %w", err)
			}

			fmt.Printf("%d duplicated file names (%d copies total)\n", len(rep.Groups), rep.TotalCopies)
			for _, group := range rep.Groups {
				fmt.Printf("\n%s: %d copies\n", color.New(color.Bold).Sprint(group.Name), len(group.Paths))
				for _, path := range group.Paths {
					fmt.Printf("  - %s\n", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "src", "directory to scan")
	cmd.Flags().StringSliceVar(&include, "include", []string{"**/*.{ts,tsx}"}, "include glob patterns")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "exclude glob patterns")

	return cmd
}

func newImportsCmd() *cobra.Command {
	var root, pattern string
	var include, exclude []string

	cmd := &cobra.Command{
		Use:   "imports",
		Short: "Count import path usage across the tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "report.imports").Logger().WithContext(ctx)

			rep, err := report.Imports(ctx, root, pattern, include, exclude)
			if err != nil {
				return errors.Errorf("scanning imports: %w", err)
			}

			fmt.Printf("%d imports matched\n\n", rep.Total)
			fmt.Println(color.New(color.Bold).Sprint("By segment:"))
			for _, c := range rep.BySegment {
				fmt.Printf("  %s: %d\n", c.Name, c.N)
			}
			fmt.Println()
			fmt.Println(color.New(color.Bold).Sprintf("Top %d paths:", topImports))
			for i, c := range rep.ByFullPath {
				if i >= topImports {
					break
				}
				fmt.Printf("  %s: %d\n", c.Name, c.N)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "src", "directory to scan")
	cmd.Flags().StringVar(&pattern, "pattern", `from\s+["']@/([^"']+)["']`, "import regexp; group 1 is the counted path")
	cmd.Flags().StringSliceVar(&include, "include", []string{"**/*.{ts,tsx}"}, "include glob patterns")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "exclude glob patterns")

	return cmd
}

func newUnusedCmd() *cobra.Command {
	var root string
	var symbols, include, exclude []string

	cmd := &cobra.Command{
		Use:   "unused",
		Short: "Check whether candidate symbols are still referenced",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "report.unused").Logger().WithContext(ctx)

			usages, err := report.Unused(ctx, root, symbols, include, exclude)
			if err != nil {
				return errors.Errorf("scanning usage: %w", err)
			}

			for _, usage := range usages {
				switch {
				case usage.Unused:
					fmt.Printf("%s %s\n", color.New(color.FgRed).Sprint("[UNUSED]"), usage.Name)
				case usage.LowUse:
					fmt.Printf("%s %s: %d refs\n", color.New(color.FgYellow).Sprint("[LOW-USE]"), usage.Name, usage.Refs)
					for _, file := range usage.Files {
						fmt.Printf("  - %s\n", file)
					}
				default:
					fmt.Printf("%s %s: %d refs\n", color.New(color.FgGreen).Sprint("[USED]"), usage.Name, usage.Refs)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "src", "directory to scan")
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "symbol names to check (required)")
	cmd.Flags().StringSliceVar(&include, "include", []string{"**/*.{ts,tsx}"}, "include glob patterns")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "exclude glob patterns")
	cmd.MarkFlagRequired("symbols")

	return cmd
}
