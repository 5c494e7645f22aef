package cli

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/testutil"
)

func projectFromData(t *testing.T, raw interface{}) model.Project {
	t.Helper()
	b, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to re-encode project: %v", err)
	}
	var p model.Project
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatalf("failed to decode project: %v", err)
	}
	return p
}

func readStore(t *testing.T, path string) model.ProjectConfig {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read store: %v", err)
	}
	var doc model.ProjectConfig
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("failed to parse store: %v", err)
	}
	return doc
}

func TestAddRegistersRepositoryRoot(t *testing.T) {
	ws := testutil.NewWorkspace(t).
		WithRemoteRepo("code/api", "git@github.com:me/api.git").
		WithFile("code/api/go.mod", "module example.com/api\n").
		WithDir("code/api/internal/server").
		Build()
	env := newCLIEnv(t)

	result := env.runJSON("add", ws.Join("code/api/internal/server"), "-t", "go,backend", "-g", "work", "-d", "public API")
	result.MustSucceed(t)

	p := projectFromData(t, result.Data["project"])
	if want := canonical(t, ws.Join("code/api")); p.Path != want {
		t.Fatalf("path = %q, want repository root %q", p.Path, want)
	}
	if p.Name != "api" || p.Group != "work" || p.Description != "public API" {
		t.Fatalf("unexpected project fields: %+v", p)
	}
	if strings.Join(p.Tags, ",") != "go,backend" {
		t.Fatalf("tags = %v, want [go backend]", p.Tags)
	}
	if p.Remote() != "git@github.com:me/api.git" {
		t.Fatalf("remote = %q", p.Remote())
	}
	if p.Metadata == nil || p.Metadata.Language != "go" {
		t.Fatalf("expected go language metadata, got %+v", p.Metadata)
	}

	doc := readStore(t, env.storePath)
	if len(doc.Projects) != 1 || doc.Projects[0].ID != p.ID {
		t.Fatalf("store does not contain the added project: %+v", doc.Projects)
	}
	if ids := doc.Groups["work"]; len(ids) != 1 || ids[0] != p.ID {
		t.Fatalf("groups index = %v", doc.Groups)
	}
}

func TestAddTextOutput(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("web").Build()
	env := newCLIEnv(t)

	out, _, err := env.run("add", ws.Join("web"), "-n", "website", "-t", "frontend")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	for _, want := range []string{"Added project: website", "Path:", "Tags: frontend"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAddErrors(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithDir("plain").Build()
	env := newCLIEnv(t)

	env.runJSON("add", ws.Join("plain")).MustFail(t, ErrNotAProject)
	env.runJSON("add", ws.Join("missing")).MustFail(t, ErrDirectoryNotFound)

	_, stderr, err := env.run("add", ws.Join("missing"))
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if !strings.Contains(stderr, "directory does not exist") {
		t.Fatalf("expected message on stderr, got %q", stderr)
	}

	_, _, err = env.run("add", ws.Join("plain"), "--json")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported in JSON mode, got %v", err)
	}
}

func TestReAddKeepsAccessHistory(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("api").Build()
	env := newCLIEnv(t)

	env.runJSON("add", ws.Join("api"), "-g", "work").MustSucceed(t)
	env.runJSON("switch", "api").MustSucceed(t)
	env.runJSON("switch", "api").MustSucceed(t)

	result := env.runJSON("add", ws.Join("api"), "-d", "now with a description").MustSucceed(t)
	p := projectFromData(t, result.Data["project"])
	if p.AccessCount != 2 {
		t.Fatalf("accessCount = %d after re-add, want 2", p.AccessCount)
	}
	if p.Group != "work" || p.Description != "now with a description" {
		t.Fatalf("expected stored group kept and description overridden: %+v", p)
	}
	if n := len(readStore(t, env.storePath).Projects); n != 1 {
		t.Fatalf("re-add created a duplicate: %d projects", n)
	}
}

func TestListFiltersAndEmptyState(t *testing.T) {
	ws := testutil.NewWorkspace(t).
		WithRepo("api").
		WithRepo("web").
		WithRepo("tools").
		Build()
	env := newCLIEnv(t)

	out, _, err := env.run("list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No projects found.") {
		t.Fatalf("expected empty state, got:\n%s", out)
	}

	env.runJSON("add", ws.Join("api"), "-g", "work", "-t", "go").MustSucceed(t)
	env.runJSON("add", ws.Join("web"), "-g", "work", "-t", "js").MustSucceed(t)
	env.runJSON("add", ws.Join("tools"), "-t", "go").MustSucceed(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"all in insertion order", []string{"list"}, []string{"api", "web", "tools"}},
		{"by group", []string{"list", "-g", "work"}, []string{"api", "web"}},
		{"by tag", []string{"list", "-t", "go"}, []string{"api", "tools"}},
		{"group and tag", []string{"list", "-g", "work", "-t", "go"}, []string{"api"}},
		{"limit", []string{"list", "-l", "2"}, []string{"api", "web"}},
		{"no match", []string{"list", "-g", "home"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := env.runJSON(tc.args...).MustSucceed(t)
			var got []string
			for _, raw := range result.DataList("projects") {
				got = append(got, projectFromData(t, raw).Name)
			}
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			if result.Meta == nil || result.Meta.Count != len(tc.want) {
				t.Fatalf("meta = %+v, want count %d", result.Meta, len(tc.want))
			}
		})
	}

	out, _, err = env.run("list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"api", "web", "tools", "never opened", "@work"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in list output:\n%s", want, out)
		}
	}
}

func TestListRecentOrdersByAccess(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("a").WithRepo("b").WithRepo("c").Build()
	env := newCLIEnv(t)
	for _, name := range []string{"a", "b", "c"} {
		env.runJSON("add", ws.Join(name)).MustSucceed(t)
	}
	// Distinct millisecond timestamps keep the expected order unambiguous.
	time.Sleep(2 * time.Millisecond)
	env.runJSON("switch", "a").MustSucceed(t)
	time.Sleep(2 * time.Millisecond)
	env.runJSON("switch", "c").MustSucceed(t)

	result := env.runJSON("list", "--recent", "-l", "2").MustSucceed(t)
	list := result.DataList("projects")
	if len(list) != 2 {
		t.Fatalf("expected 2 recent projects, got %d", len(list))
	}
	first := projectFromData(t, list[0])
	second := projectFromData(t, list[1])
	if first.Name != "c" || second.Name != "a" {
		t.Fatalf("recent = [%s %s], want [c a]", first.Name, second.Name)
	}
}

func TestListRejectsNegativeLimit(t *testing.T) {
	env := newCLIEnv(t)
	env.runJSON("list", "-l", "-1").MustFail(t, ErrInvalidInput)
}

func TestMalformedStoreIsFatal(t *testing.T) {
	env := newCLIEnv(t)
	testutil.WriteFile(t, env.storePath, "{not json")

	env.runJSON("list").MustFail(t, ErrStoreError)

	b, err := os.ReadFile(env.storePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{not json" {
		t.Fatalf("malformed store was overwritten: %q", b)
	}
}
