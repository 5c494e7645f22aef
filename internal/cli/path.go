package cli

import (
	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path <name|id>",
	Short: "Print a project's directory",
	Long: `Prints the root directory of a project and nothing else.

Useful for shell integration:
  cd "$(cps path api)"`,
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

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"id": p.ID, "path": p.Path}, nil)
			return nil
		}
		outln(p.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
}
