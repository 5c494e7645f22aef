package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/paths"
	"github.com/aidanlsb/cps/internal/ui"
)

// now is swapped in tests.
var now = time.Now

// projectMeta renders tags and group as "[a, b] @group".
func projectMeta(p model.Project) string {
	var parts []string
	if len(p.Tags) > 0 {
		parts = append(parts, "["+strings.Join(p.Tags, ", ")+"]")
	}
	if p.Group != "" {
		parts = append(parts, "@"+p.Group)
	}
	return strings.Join(parts, " ")
}

// lastUsed describes when a project was last accessed.
func lastUsed(p model.Project) string {
	if p.AccessCount == 0 {
		return "never opened"
	}
	return humanize.RelTime(time.UnixMilli(p.LastAccessed), now(), "ago", "from now")
}

// projectTable lays projects out one per line.
func projectTable(ps []model.Project, numbered bool) string {
	cols := 4
	if numbered {
		cols = 5
	}
	tbl := ui.NewTable(cols)
	if d := display(); d.IsTTY {
		tbl.SetMaxWidth(d.TermWidth)
	}
	for i, p := range ps {
		cells := []string{
			ui.Name(p.Name),
			projectMeta(p),
			ui.Hint(paths.Shorten(p.Path)),
			ui.Hint(lastUsed(p)),
		}
		if numbered {
			cells = append([]string{ui.Hint(fmt.Sprintf("%d.", i+1))}, cells...)
		}
		tbl.AddRow(cells...)
	}
	return tbl.String()
}

// display describes stdout when it is the process's terminal.
func display() *ui.DisplayContext {
	if f, ok := stdout.(*os.File); ok {
		return ui.NewDisplayContext(f)
	}
	return ui.NewDisplayContextWithWidth(ui.DefaultTermWidth, false)
}

func outf(format string, args ...interface{}) {
	fmt.Fprintf(stdout, format, args...)
}

func outln(args ...interface{}) {
	fmt.Fprintln(stdout, args...)
}
