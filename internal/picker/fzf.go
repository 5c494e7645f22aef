// Package picker runs fzf as an external process to let the user choose
// projects interactively.
package picker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/aidanlsb/cps/internal/model"
)

// ErrNotInstalled is returned when the fzf executable cannot be found.
var ErrNotInstalled = errors.New("fzf is not installed (see https://github.com/junegunn/fzf)")

// errNoSelection marks an fzf exit that means "nothing chosen".
var errNoSelection = errors.New("no selection")

const binary = "fzf"

// Options tune the fzf invocation.
type Options struct {
	Prompt string
	Header string
	// Height is an fzf height spec such as "80%" or "20".
	Height string
}

// runFunc executes bin with args, feeding input on stdin, and returns
// stdout. It returns errNoSelection when the user made no choice.
type runFunc func(ctx context.Context, bin string, args []string, input string) (string, error)

// Picker selects projects with fzf.
type Picker struct {
	lookPath func(string) (string, error)
	run      runFunc
	stderr   io.Writer
}

// Option configures a Picker.
type Option func(*Picker)

// WithStderr sets where fzf draws its interface.
func WithStderr(w io.Writer) Option {
	return func(p *Picker) { p.stderr = w }
}

// New returns a Picker that runs the fzf found on PATH.
func New(opts ...Option) *Picker {
	p := &Picker{
		lookPath: exec.LookPath,
		stderr:   os.Stderr,
	}
	p.run = p.runFZF
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Available reports whether fzf can be found.
func (p *Picker) Available() bool {
	_, err := p.lookPath(binary)
	return err == nil
}

// Select lets the user pick one project. It reports false with a nil error
// when the list is empty or the user cancels.
func (p *Picker) Select(ctx context.Context, projects []model.Project, opts Options) (model.Project, bool, error) {
	chosen, err := p.pick(ctx, projects, opts, false)
	if err != nil || len(chosen) == 0 {
		return model.Project{}, false, err
	}
	return chosen[0], true, nil
}

// SelectMultiple lets the user pick any number of projects. Cancelling
// returns an empty result and a nil error.
func (p *Picker) SelectMultiple(ctx context.Context, projects []model.Project, opts Options) ([]model.Project, error) {
	return p.pick(ctx, projects, opts, true)
}

func (p *Picker) pick(ctx context.Context, projects []model.Project, opts Options, multi bool) ([]model.Project, error) {
	bin, err := p.lookPath(binary)
	if err != nil {
		return nil, ErrNotInstalled
	}
	if len(projects) == 0 {
		return nil, nil
	}

	byID := make(map[string]model.Project, len(projects))
	lines := make([]string, 0, len(projects))
	for _, proj := range projects {
		byID[proj.ID] = proj
		lines = append(lines, FormatLine(proj))
	}

	out, err := p.run(ctx, bin, buildArgs(opts, multi), strings.Join(lines, "\n")+"\n")
	if errors.Is(err, errNoSelection) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("run fzf selector: %w", err)
	}

	var chosen []model.Project
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if proj, ok := byID[ParseID(line)]; ok {
			chosen = append(chosen, proj)
		}
	}
	return chosen, nil
}

func buildArgs(opts Options, multi bool) []string {
	height := opts.Height
	if strings.TrimSpace(height) == "" {
		height = "80%"
	}
	args := []string{
		"--layout=reverse",
		"--height=" + height,
		"--border",
		"--delimiter=\t",
		"--with-nth=1,2,3",
		"--exit-0",
	}
	if multi {
		args = append(args, "--multi")
	} else {
		args = append(args, "--select-1")
	}
	if strings.TrimSpace(opts.Prompt) != "" {
		args = append(args, "--prompt", opts.Prompt)
	}
	if strings.TrimSpace(opts.Header) != "" {
		args = append(args, "--header", opts.Header)
	}
	return args
}

func (p *Picker) runFZF(ctx context.Context, bin string, args []string, input string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = strings.NewReader(input)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = p.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// 1: no match, 130: interrupted.
			if code := exitErr.ExitCode(); code == 1 || code == 130 {
				return "", errNoSelection
			}
		}
		return "", err
	}
	return stdout.String(), nil
}

// FormatLine renders a project as "name<TAB>path<TAB>meta<TAB>id". Tabs
// and newlines inside fields become spaces so the id always parses back.
func FormatLine(p model.Project) string {
	var meta []string
	if len(p.Tags) > 0 {
		meta = append(meta, "["+strings.Join(p.Tags, ",")+"]")
	}
	if p.Group != "" {
		meta = append(meta, "@"+p.Group)
	}
	fields := []string{p.Name, p.Path, strings.Join(meta, " "), p.ID}
	for i, f := range fields {
		fields[i] = sanitize(f)
	}
	return strings.Join(fields, "\t")
}

// ParseID returns the id field of a line produced by FormatLine.
func ParseID(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if i := strings.LastIndexByte(line, '\t'); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line)
}

var fieldReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func sanitize(s string) string { return fieldReplacer.Replace(s) }
