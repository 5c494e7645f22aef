package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/paths"
	"github.com/aidanlsb/cps/internal/picker"
	"github.com/aidanlsb/cps/internal/project"
	"github.com/aidanlsb/cps/internal/shellquote"
	"github.com/aidanlsb/cps/internal/ui"
)

const switchListLimit = 10

var (
	switchFZF    bool
	switchRecent bool
	switchCd     bool
)

var switchCmd = &cobra.Command{
	Use:     "switch [name]",
	Aliases: []string{"s"},
	Short:   "Switch to a project",
	Long: `Looks up a project by id or name and prints the command to change into it.
A process cannot change its parent shell's directory, so use --cd with the
shell function from 'cps shell-init' to actually move.

Without a name, --fzf opens an interactive picker; otherwise the most recent
projects are listed.

Examples:
  cps switch api
  cps s api --cd
  cps switch --fzf
  cps switch --fzf --recent`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := mustOpenService()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			p, err := resolveProject(svc, args[0])
			if err != nil {
				return handleServiceError(err)
			}
			return switchTo(svc, p)
		}

		if switchFZF {
			p, ok, err := pickProject(cmd.Context(), svc, switchRecent, "Switch to project")
			if err != nil {
				return err
			}
			if !ok {
				// Cancelled picker: nothing to do.
				return nil
			}
			return switchTo(svc, p)
		}

		return listSwitchCandidates(svc)
	},
}

// pickProject runs the picker over all projects, or recent ones when recent
// is set. ok is false when the user made no selection.
func pickProject(ctx context.Context, svc *project.Service, recent bool, header string) (model.Project, bool, error) {
	candidates := svc.ListAll()
	if recent {
		candidates = svc.ListRecent(len(candidates))
	}
	if len(candidates) == 0 {
		return model.Project{}, false, handleErrorMsg(ErrProjectNotFound, "no projects registered", "Add a project with: cps add [path]")
	}

	pk := newPicker()
	if !pk.Available() {
		return model.Project{}, false, handleServiceError(picker.ErrNotInstalled)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	p, ok, err := pk.Select(ctx, candidates, pickerOptions(header))
	if err != nil {
		return model.Project{}, false, handleServiceError(err)
	}
	return p, ok, nil
}

func switchTo(svc *project.Service, p model.Project) error {
	if !paths.IsDir(p.Path) {
		return handleErrorMsg(ErrDirectoryNotFound, "project directory no longer exists: "+p.Path,
			"Remove it with: cps remove "+p.ID)
	}
	if err := svc.RecordAccess(p.ID); err != nil {
		return handleError(ErrStoreError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"project": p,
			"command": shellquote.Cd(p.Path),
		}, nil)
		return nil
	}
	if switchCd {
		outln(shellquote.Cd(p.Path))
		return nil
	}

	outln(ui.Successf("Switching to %s", ui.Name(p.Name)))
	outln(ui.Hint("To switch to this project, run:"))
	outf("  %s\n", shellquote.Cd(p.Path))
	return nil
}

func listSwitchCandidates(svc *project.Service) error {
	projects := svc.ListAll()
	if switchRecent {
		projects = svc.ListRecent(switchListLimit)
	} else if len(projects) > switchListLimit {
		projects = projects[:switchListLimit]
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"projects": projects}, &Meta{Count: len(projects)})
		return nil
	}
	if len(projects) == 0 {
		outln("No projects found.")
		outln(ui.Hint("Add a project with: cps add [path]"))
		return nil
	}

	title := "Projects"
	if switchRecent {
		title = "Recent projects"
	}
	outf("%s\n\n", ui.Header(title))
	outf("%s\n", projectTable(projects, true))
	outln(ui.Hint("Usage: cps switch <name>"))
	outln(ui.Hint("   or: cps switch --fzf"))
	return nil
}

func init() {
	switchCmd.Flags().BoolVarP(&switchFZF, "fzf", "f", false, "Pick a project with fzf")
	switchCmd.Flags().BoolVarP(&switchRecent, "recent", "r", false, "Offer recently accessed projects first")
	switchCmd.Flags().BoolVarP(&switchCd, "cd", "c", false, "Print only the cd command (for shell integration)")
	rootCmd.AddCommand(switchCmd)
}
