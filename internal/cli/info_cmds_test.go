package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/cps/internal/config"
	"github.com/aidanlsb/cps/internal/export"
	"github.com/aidanlsb/cps/internal/testutil"
)

func TestShow(t *testing.T) {
	ws := testutil.NewWorkspace(t).
		WithRemoteRepo("api", "https://example.com/api.git").
		WithFile("api/package.json", `{"dependencies":{"next":"14.0.0"}}`).
		Build()
	env := newCLIEnv(t)
	env.runJSON("add", ws.Join("api"), "-d", "storefront").MustSucceed(t)

	result := env.runJSON("show", "api").MustSucceed(t)
	if result.DataString("branch") != "main" {
		t.Fatalf("branch = %q, want main", result.DataString("branch"))
	}

	out, _, err := env.run("show", "api")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"api", "storefront", "javascript"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in card:\n%s", want, out)
		}
	}

	env.runJSON("show", "nope").MustFail(t, ErrProjectNotFound)
}

func TestProjectCardOmitsEmptyFields(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("bare").Build()
	env := newCLIEnv(t)
	result := env.runJSON("add", ws.Join("bare")).MustSucceed(t)
	p := projectFromData(t, result.Data["project"])

	card := projectCard(p, "")
	for _, absent := range []string{"Group", "Tags", "Branch", "Remote", "Language"} {
		if strings.Contains(card, absent) {
			t.Fatalf("expected %q to be omitted:\n%s", absent, card)
		}
	}
	if !strings.Contains(card, "never opened") {
		t.Fatalf("expected last-used line:\n%s", card)
	}
}

func TestPath(t *testing.T) {
	env, ws := setupProjects(t, "api")

	out, _, err := env.run("path", "api")
	if err != nil {
		t.Fatalf("path failed: %v", err)
	}
	if want := canonical(t, ws.Join("api")) + "\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
	env.runJSON("path", "nope").MustFail(t, ErrProjectNotFound)
}

func TestGroups(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("api").WithRepo("web").WithRepo("dots").Build()
	env := newCLIEnv(t)
	env.runJSON("add", ws.Join("api"), "-g", "work").MustSucceed(t)
	env.runJSON("add", ws.Join("web"), "-g", "work").MustSucceed(t)
	env.runJSON("add", ws.Join("dots"), "-g", "home").MustSucceed(t)

	result := env.runJSON("groups").MustSucceed(t)
	groups := result.DataList("groups")
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %v", groups)
	}
	first, _ := groups[0].(map[string]interface{})
	if first["name"] != "home" || first["count"] != float64(1) {
		t.Fatalf("groups not sorted by name: %v", groups)
	}
	second, _ := groups[1].(map[string]interface{})
	if second["count"] != float64(2) {
		t.Fatalf("expected two projects in work, got %v", second)
	}

	out, _, err := env.run("groups")
	if err != nil {
		t.Fatalf("groups failed: %v", err)
	}
	if !strings.Contains(out, "api, web") {
		t.Fatalf("expected member names in output:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("api").WithRepo("web").Build()
	env := newCLIEnv(t)
	env.runJSON("add", ws.Join("api"), "-g", "work").MustSucceed(t)
	env.runJSON("add", ws.Join("web")).MustSucceed(t)

	dest := filepath.Join(t.TempDir(), "out", "projects.yaml")
	result := env.runJSON("export", "-f", "yml", "-o", dest).MustSucceed(t)
	if result.Meta == nil || result.Meta.Count != 2 {
		t.Fatalf("meta = %+v", result.Meta)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("export file not written: %v", err)
	}
	var doc export.Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if len(doc.Projects) != 2 || doc.Projects[0].Name != "api" {
		t.Fatalf("unexpected export document: %+v", doc)
	}

	out, _, err := env.run("export", "--format", "markdown", "-g", "work")
	if err != nil {
		t.Fatalf("markdown export failed: %v", err)
	}
	if !strings.Contains(out, "# Projects") || !strings.Contains(out, "api") || strings.Contains(out, "web") {
		t.Fatalf("unexpected markdown:\n%s", out)
	}

	env.runJSON("export", "-f", "csv").MustFail(t, ErrInvalidInput)
}

func TestConfigCommands(t *testing.T) {
	env := newCLIEnv(t)

	result := env.runJSON("config", "init").MustSucceed(t)
	if result.Data["created"] != true {
		t.Fatalf("expected config to be created: %v", result.Data)
	}
	result = env.runJSON("config", "init").MustSucceed(t)
	if result.Data["created"] != false {
		t.Fatalf("second init should not overwrite: %v", result.Data)
	}

	env.runJSON("config", "set", "scan.max_depth", "3").MustSucceed(t)
	env.runJSON("config", "set", "picker.prompt", "> ").MustSucceed(t)
	env.runJSON("config", "set", "scan.max_depth", "deep").MustFail(t, ErrInvalidInput)
	env.runJSON("config", "set", "nope", "1").MustFail(t, ErrInvalidInput)

	loaded, err := config.LoadFrom(env.configPath)
	if err != nil {
		t.Fatalf("config not loadable after set: %v", err)
	}
	if loaded.Scan.MaxDepth == nil || *loaded.Scan.MaxDepth != 3 || loaded.Picker.Prompt != "> " {
		t.Fatalf("unexpected config: %+v", loaded)
	}

	result = env.runJSON("config", "path").MustSucceed(t)
	if result.DataString("config") != env.configPath || result.DataString("store") != env.storePath {
		t.Fatalf("unexpected paths: %v", result.Data)
	}
}

func TestStoreFromConfig(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("api").Build()
	env := newCLIEnv(t)
	custom := filepath.Join(t.TempDir(), "custom.json")
	testutil.WriteFile(t, env.configPath, "projects_file = \""+filepath.ToSlash(custom)+"\"\n")

	// Without --store the config location applies.
	resetCommandFlags(rootCmd)
	var out strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&strings.Builder{})
	rootCmd.SetArgs([]string{"--config", env.configPath, "add", ws.Join("api"), "--json"})
	if err := Execute(); err != nil {
		t.Fatalf("add failed: %v\n%s", err, out.String())
	}
	if n := len(readStore(t, custom).Projects); n != 1 {
		t.Fatalf("expected project in configured store, got %d", n)
	}
}

func TestInvalidConfigReported(t *testing.T) {
	env := newCLIEnv(t)
	testutil.WriteFile(t, env.configPath, "[scan\n")
	env.runJSON("list").MustFail(t, ErrConfigInvalid)
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	result := env.runJSON("version").MustSucceed(t)
	if result.DataString("version") == "" || result.DataString("go_version") == "" {
		t.Fatalf("missing version fields: %v", result.Data)
	}
}

func TestShellInit(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run("shell-init", "zsh", "--name", "j")
	if err != nil {
		t.Fatalf("shell-init failed: %v", err)
	}
	if !strings.Contains(out, "j() {") || !strings.Contains(out, "cps switch --cd") {
		t.Fatalf("unexpected script:\n%s", out)
	}

	out, _, err = env.run("shell-init", "fish")
	if err != nil {
		t.Fatalf("shell-init fish failed: %v", err)
	}
	if !strings.Contains(out, "function p") {
		t.Fatalf("unexpected fish script:\n%s", out)
	}

	env.runJSON("shell-init", "tcsh").MustFail(t, ErrInvalidInput)
}
