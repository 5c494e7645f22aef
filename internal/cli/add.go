package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/paths"
	"github.com/aidanlsb/cps/internal/project"
	"github.com/aidanlsb/cps/internal/ui"
)

var (
	addName        string
	addDescription string
	addTags        []string
	addGroup       string
)

var addCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Register a git repository as a project",
	Long: `Registers the git repository containing path (or the current directory)
as a project. The repository root is stored, not the directory you pass.

Adding a project that is already registered updates it in place and keeps
its access history.

Examples:
  cps add
  cps add ~/code/api -g work -t go,backend
  cps add . -n "API server" -d "public REST API"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := mustOpenService()
		if err != nil {
			return err
		}

		overrides := project.Overrides{
			Name:        strings.TrimSpace(addName),
			Description: strings.TrimSpace(addDescription),
			Tags:        cleanTags(addTags),
			Group:       strings.TrimSpace(addGroup),
		}

		var p model.Project
		if len(args) == 0 {
			p, err = svc.AddCurrent(overrides)
		} else {
			p, err = svc.AddByPath(args[0], overrides)
		}
		if err != nil {
			return handleServiceError(err)
		}
		getLogger().Debug("project added", "id", p.ID, "path", p.Path)

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"project": p}, nil)
			return nil
		}

		outln(ui.Successf("Added project: %s", ui.Name(p.Name)))
		outf("  Path: %s\n", paths.Shorten(p.Path))
		if p.Description != "" {
			outf("  Description: %s\n", p.Description)
		}
		if len(p.Tags) > 0 {
			outf("  Tags: %s\n", strings.Join(p.Tags, ", "))
		}
		if p.Group != "" {
			outf("  Group: %s\n", p.Group)
		}
		return nil
	},
}

// cleanTags trims entries and drops empty ones.
func cleanTags(raw []string) []string {
	var tags []string
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func init() {
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "Project name (defaults to the directory name)")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Project description")
	addCmd.Flags().StringSliceVarP(&addTags, "tags", "t", nil, "Comma-separated tags")
	addCmd.Flags().StringVarP(&addGroup, "group", "g", "", "Project group")
	rootCmd.AddCommand(addCmd)
}
