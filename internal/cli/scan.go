package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cps/internal/scanner"
	"github.com/aidanlsb/cps/internal/ui"
)

var (
	scanDepth          int
	scanAdd            bool
	scanHidden         bool
	scanFollowSymlinks bool
	scanJobs           int
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Find git repositories under a directory",
	Long: `Walks path (default: the current directory) looking for git repositories.
Repositories are not descended into. With --add every repository found is
registered; already registered projects keep their names and history.

Defaults for the flags can be set in the [scan] section of the config file.

Examples:
  cps scan ~/code
  cps scan ~/code --depth 3 --add
  cps scan . --hidden --follow-symlinks -j 8`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		opts := scanOptions(cmd)
		if opts.MaxDepth < 0 {
			return handleErrorMsg(ErrInvalidInput, "--depth must not be negative", "")
		}

		svc, err := mustOpenService()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var spin *ui.Spinner
		if !isJSONOutput() {
			spin = ui.NewSpinner(cmd.ErrOrStderr(), "Scanning "+root)
			spin.Start()
		}
		found, err := svc.Scan(ctx, root, opts)
		if spin != nil {
			spin.Stop()
		}
		if err != nil {
			return handleServiceError(err)
		}
		getLogger().Debug("scan finished", "root", root, "found", len(found))

		added, updated := 0, 0
		if scanAdd {
			added, updated, err = svc.AddAll(found)
			if err != nil {
				return handleError(ErrStoreError, err, "")
			}
		}

		if isJSONOutput() {
			data := map[string]interface{}{"projects": found}
			if scanAdd {
				data["added"] = added
				data["updated"] = updated
			}
			outputSuccess(data, &Meta{Count: len(found)})
			return nil
		}

		if len(found) == 0 {
			outln("No git repositories found.")
			outln(ui.Hint("Try a larger --depth or --hidden"))
			return nil
		}

		outf("%s %s\n\n", ui.Header("Found repositories"), ui.Count(len(found), "repository", "repositories"))
		outf("%s", projectTable(found, false))
		if scanAdd {
			outln()
			outln(ui.Successf("Added %d, updated %d", added, updated))
		} else {
			outln()
			outln(ui.Hint("Run again with --add to register them"))
		}
		return nil
	},
}

// scanOptions layers config defaults under explicitly set flags.
func scanOptions(cmd *cobra.Command) scanner.Options {
	depth, hidden, follow, jobs := getConfig().ScanDefaults(scanner.DefaultMaxDepth, 1)
	flags := cmd.Flags()
	if flags.Changed("depth") {
		depth = scanDepth
	}
	if flags.Changed("hidden") {
		hidden = scanHidden
	}
	if flags.Changed("follow-symlinks") {
		follow = scanFollowSymlinks
	}
	if flags.Changed("jobs") {
		jobs = scanJobs
	}
	return scanner.Options{
		MaxDepth:       depth,
		IncludeHidden:  hidden,
		FollowSymlinks: follow,
		Concurrency:    jobs,
	}
}

func init() {
	scanCmd.Flags().IntVarP(&scanDepth, "depth", "d", scanner.DefaultMaxDepth, "Maximum directory depth below path")
	scanCmd.Flags().BoolVarP(&scanAdd, "add", "a", false, "Register every repository found")
	scanCmd.Flags().BoolVar(&scanHidden, "hidden", false, "Descend into hidden directories")
	scanCmd.Flags().BoolVar(&scanFollowSymlinks, "follow-symlinks", false, "Follow symlinked directories")
	scanCmd.Flags().IntVarP(&scanJobs, "jobs", "j", 1, "Directories read in parallel")
	rootCmd.AddCommand(scanCmd)
}
