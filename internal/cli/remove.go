package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/picker"
	"github.com/aidanlsb/cps/internal/ui"
)

var (
	removeForce bool
	removeFZF   bool
)

var removeCmd = &cobra.Command{
	Use:     "remove <name|id>...",
	Aliases: []string{"rm"},
	Short:   "Stop tracking one or more projects",
	Long: `Removes projects from the registry. Nothing on disk is touched.

Examples:
  cps remove api
  cps rm 3f2a9c01d4e5b6a7 --force
  cps remove --fzf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := mustOpenService()
		if err != nil {
			return err
		}

		var targets []model.Project
		switch {
		case len(args) > 0:
			for _, ref := range args {
				p, err := resolveProject(svc, ref)
				if err != nil {
					return handleServiceError(err)
				}
				targets = append(targets, p)
			}
		case removeFZF:
			targets, err = pickProjects(cmd.Context(), svc.ListAll(), "Remove projects (tab to mark)")
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				return nil
			}
		default:
			return handleErrorMsg(ErrMissingArgument, "requires a project name or id", "Usage: cps remove <name|id> or cps remove --fzf")
		}

		if !removeForce && shouldPromptForConfirm() {
			outln(ui.Warningf("About to stop tracking %s:", ui.Count(len(targets), "project", "projects")))
			for _, p := range targets {
				outf("  %s %s\n", ui.Name(p.Name), ui.Hint(p.Path))
			}
			if !promptForConfirm("Remove?") {
				outln("Cancelled.")
				return nil
			}
		}

		removed := make([]model.Project, 0, len(targets))
		for _, p := range targets {
			ok, err := svc.Remove(p.ID)
			if err != nil {
				return handleError(ErrStoreError, err, "")
			}
			if ok {
				removed = append(removed, p)
			}
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"removed": removed}, &Meta{Count: len(removed)})
			return nil
		}
		for _, p := range removed {
			outln(ui.Successf("Removed project: %s", ui.Name(p.Name)))
		}
		return nil
	},
}

// pickProjects runs the multi-select picker over candidates.
func pickProjects(ctx context.Context, candidates []model.Project, header string) ([]model.Project, error) {
	if len(candidates) == 0 {
		return nil, handleErrorMsg(ErrProjectNotFound, "no projects registered", "")
	}
	pk := newPicker()
	if !pk.Available() {
		return nil, handleServiceError(picker.ErrNotInstalled)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	selected, err := pk.SelectMultiple(ctx, candidates, pickerOptions(header))
	if err != nil {
		return nil, handleServiceError(err)
	}
	return selected, nil
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "y", false, "Skip confirmation")
	removeCmd.Flags().BoolVarP(&removeFZF, "fzf", "f", false, "Pick projects to remove with fzf")
	rootCmd.AddCommand(removeCmd)
}
