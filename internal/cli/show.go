package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cps/internal/gitrepo"
	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/paths"
	"github.com/aidanlsb/cps/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <name|id>",
	Short: "Show details for a project",
	Long: `Prints everything cps knows about a project, including the current branch
of its repository.

Examples:
  cps show api
  cps show api --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := mustOpenService()
		if err != nil {
			return err
		}
		p, err := resolveProject(svc, args[0])
		if err != nil {
			return handleServiceError(err)
		}
		branch := gitrepo.NewDetector(getLogger()).Branch(p.Path)

		if isJSONOutput() {
			data := map[string]interface{}{"project": p}
			if branch != "" {
				data["branch"] = branch
			}
			outputSuccess(data, nil)
			return nil
		}

		card := projectCard(p, branch)
		d := display()
		rendered, err := ui.RenderMarkdown(card, d.AvailableWidth(0))
		if err != nil {
			getLogger().Debug("markdown render failed", "error", err)
			outln(card)
			return nil
		}
		outf("%s", rendered)
		return nil
	},
}

// projectCard describes p as a markdown document.
func projectCard(p model.Project, branch string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}

	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", label, value)
		}
	}
	row("Path", "`"+paths.Shorten(p.Path)+"`")
	row("ID", "`"+p.ID+"`")
	row("Group", p.Group)
	if len(p.Tags) > 0 {
		row("Tags", strings.Join(p.Tags, ", "))
	}
	row("Branch", branch)
	if md := p.Metadata; md != nil {
		lang := md.Language
		if md.Framework != "" {
			lang += " (" + md.Framework + ")"
		}
		row("Language", lang)
		row("Remote", md.GitRemote)
	}
	row("Added", time.UnixMilli(p.CreatedAt).Format("2006-01-02 15:04"))
	row("Last used", lastUsed(p))
	row("Opened", fmt.Sprintf("%d times", p.AccessCount))
	return b.String()
}

func init() {
	rootCmd.AddCommand(showCmd)
}
