package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const posixShellFunction = `# cps shell integration
%[1]s() {
  if [ $# -eq 0 ]; then
    set -- --fzf
  fi
  local target
  target="$(command cps switch --cd "$@")" || return
  [ -n "$target" ] && eval "$target"
}
`

const fishShellFunction = `# cps shell integration
function %[1]s
    if test (count $argv) -eq 0
        set argv --fzf
    end
    set -l target (command cps switch --cd $argv); or return
    test -n "$target"; and eval $target
end
`

var shellInitName string

var shellInitCmd = &cobra.Command{
	Use:   "shell-init [bash|zsh|fish]",
	Short: "Print a shell function that changes into projects",
	Long: `Prints a shell function wrapping 'cps switch --cd' so picking a project
actually changes the current directory.

Add to ~/.bashrc or ~/.zshrc:
  eval "$(cps shell-init)"

Or for fish, in ~/.config/fish/config.fish:
  cps shell-init fish | source`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish"},
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := "bash"
		if len(args) == 1 {
			shell = args[0]
		}

		var tmpl string
		switch shell {
		case "bash", "zsh", "sh":
			tmpl = posixShellFunction
		case "fish":
			tmpl = fishShellFunction
		default:
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unsupported shell %q", shell), "Supported shells: bash, zsh, fish")
		}

		script := fmt.Sprintf(tmpl, shellInitName)
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"shell": shell, "script": script}, nil)
			return nil
		}
		outf("%s", script)
		return nil
	},
}

func init() {
	shellInitCmd.Flags().StringVar(&shellInitName, "name", "p", "Name of the shell function")
	rootCmd.AddCommand(shellInitCmd)
}
