package cli

import (
	"github.com/spf13/cobra"

	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/project"
	"github.com/aidanlsb/cps/internal/ui"
)

const defaultRecentLimit = 10

var (
	listRecent bool
	listGroup  string
	listTag    string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered projects",
	Long: `Lists registered projects in the order they were added, or by most
recent access with --recent.

Examples:
  cps list
  cps list --recent --limit 5
  cps list -g work -t go
  cps list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := mustOpenService()
		if err != nil {
			return err
		}
		if listLimit < 0 {
			return handleErrorMsg(ErrInvalidInput, "--limit must not be negative", "")
		}

		filter := project.Filter{Group: listGroup, Tag: listTag}
		var projects []model.Project
		if listRecent {
			limit := listLimit
			if limit == 0 {
				limit = defaultRecentLimit
			}
			// Filter before truncating so a filter never hides matches
			// beyond the first limit entries.
			projects = filter.Apply(svc.ListRecent(len(svc.ListAll())))
			if len(projects) > limit {
				projects = projects[:limit]
			}
		} else {
			projects = filter.Apply(svc.ListAll())
			if listLimit > 0 && len(projects) > listLimit {
				projects = projects[:listLimit]
			}
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
		if listRecent {
			title = "Recent projects"
		}
		outf("%s %s\n\n", ui.Header(title), ui.Count(len(projects), "project", "projects"))
		outf("%s", projectTable(projects, false))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listRecent, "recent", "r", false, "Sort by most recently accessed")
	listCmd.Flags().StringVarP(&listGroup, "group", "g", "", "Only projects in this group")
	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "Only projects with this tag")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "Maximum number of projects (default 10 with --recent)")
	rootCmd.AddCommand(listCmd)
}
