package cli

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cps/internal/atomicfile"
	"github.com/aidanlsb/cps/internal/export"
	"github.com/aidanlsb/cps/internal/paths"
	"github.com/aidanlsb/cps/internal/project"
	"github.com/aidanlsb/cps/internal/ui"
)

var (
	exportFormat string
	exportOutput string
	exportGroup  string
	exportTag    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export projects as JSON, YAML, Markdown or HTML",
	Long: `Writes the registered projects to stdout or a file.

Formats: json (default), yaml, markdown (md), html.

Examples:
  cps export
  cps export -f yaml -o projects.yaml
  cps export -f markdown -g work > work.md`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		svc, err := mustOpenService()
		if err != nil {
			return err
		}
		projects := project.Filter{Group: exportGroup, Tag: exportTag}.Apply(svc.ListAll())

		var buf bytes.Buffer
		if err := export.Write(&buf, format, export.NewDocument(projects)); err != nil {
			return handleError(ErrInternal, err, "")
		}

		if exportOutput == "" {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{
					"format":  format,
					"content": buf.String(),
				}, &Meta{Count: len(projects)})
				return nil
			}
			outf("%s", buf.String())
			return nil
		}

		dest, err := paths.Absolute(exportOutput)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		if err := atomicfile.WriteFile(dest, buf.Bytes(), 0); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"format": format,
				"path":   dest,
			}, &Meta{Count: len(projects)})
			return nil
		}
		outln(ui.Successf("Exported %s to %s", ui.Count(len(projects), "project", "projects"), paths.Shorten(dest)))
		return nil
	},
}

func formatNames() string {
	names := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(export.JSON), "Output format: "+formatNames())
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().StringVarP(&exportGroup, "group", "g", "", "Only projects in this group")
	exportCmd.Flags().StringVarP(&exportTag, "tag", "t", "", "Only projects with this tag")
	rootCmd.AddCommand(exportCmd)
}
