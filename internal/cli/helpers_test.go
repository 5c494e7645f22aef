package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/picker"
	"github.com/aidanlsb/cps/internal/testutil"
)

// cliEnv is an isolated config + store pair for running commands in-process.
type cliEnv struct {
	t          *testing.T
	configPath string
	storePath  string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	return &cliEnv{
		t:          t,
		configPath: filepath.Join(dir, "config.toml"),
		storePath:  filepath.Join(dir, "store", "projects.json"),
	}
}

// run executes the root command with args plus the env's --config and
// --store flags. It returns stdout, stderr and the command error.
func (e *cliEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	resetCommandFlags(rootCmd)
	t := e.t
	prevStdout := stdout
	t.Cleanup(func() { stdout = prevStdout })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", e.configPath, "--store", e.storePath}, args...))
	err := Execute()
	return out.String(), errOut.String(), err
}

// runJSON runs args with --json and decodes the envelope.
func (e *cliEnv) runJSON(args ...string) *testutil.CLIResult {
	e.t.Helper()
	out, _, _ := e.run(append(args, "--json")...)
	return testutil.ParseCLIResult(out)
}

// resetCommandFlags restores every flag in the tree to its default so
// state from one in-process run does not leak into the next.
func resetCommandFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCommandFlags(sub)
	}
}

type fakePicker struct {
	available bool
	pick      func([]model.Project) []model.Project
	err       error

	offered [][]model.Project
	opts    []picker.Options
}

func (f *fakePicker) Available() bool { return f.available }

func (f *fakePicker) Select(_ context.Context, ps []model.Project, opts picker.Options) (model.Project, bool, error) {
	chosen, err := f.SelectMultiple(context.Background(), ps, opts)
	if err != nil || len(chosen) == 0 {
		return model.Project{}, false, err
	}
	return chosen[0], true, nil
}

func (f *fakePicker) SelectMultiple(_ context.Context, ps []model.Project, opts picker.Options) ([]model.Project, error) {
	f.offered = append(f.offered, ps)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	if f.pick == nil {
		return nil, nil
	}
	return f.pick(ps), nil
}

func useFakePicker(t *testing.T, f *fakePicker) {
	t.Helper()
	prev := newPicker
	newPicker = func() projectPicker { return f }
	t.Cleanup(func() { newPicker = prev })
}

// pickNamed chooses the projects whose names are listed.
func pickNamed(names ...string) func([]model.Project) []model.Project {
	return func(ps []model.Project) []model.Project {
		var out []model.Project
		for _, p := range ps {
			for _, n := range names {
				if p.Name == n {
					out = append(out, p)
				}
			}
		}
		return out
	}
}

func canonical(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve %s: %v", path, err)
	}
	return resolved
}
