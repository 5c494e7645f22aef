package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cps/internal/ui"
)

type groupSummary struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Projects []string `json:"projects"`
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List project groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := mustOpenService()
		if err != nil {
			return err
		}

		names := make(map[string]string)
		for _, p := range svc.ListAll() {
			names[p.ID] = p.Name
		}

		groups := svc.Groups()
		summaries := make([]groupSummary, 0, len(groups))
		for name, ids := range groups {
			s := groupSummary{Name: name, Count: len(ids), Projects: make([]string, 0, len(ids))}
			for _, id := range ids {
				s.Projects = append(s.Projects, names[id])
			}
			summaries = append(summaries, s)
		}
		sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"groups": summaries}, &Meta{Count: len(summaries)})
			return nil
		}

		if len(summaries) == 0 {
			outln("No groups defined.")
			outln(ui.Hint("Set one with: cps add [path] --group <name>"))
			return nil
		}

		tbl := ui.NewTable(3)
		if d := display(); d.IsTTY {
			tbl.SetMaxWidth(d.TermWidth)
		}
		for _, s := range summaries {
			tbl.AddRow(ui.Name(s.Name), ui.Count(s.Count, "project", "projects"), strings.Join(s.Projects, ", "))
		}
		outf("%s\n\n", ui.Header("Groups"))
		outf("%s", tbl.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}
