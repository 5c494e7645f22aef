package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/aidanlsb/cps/internal/identity"
	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/testutil"
)

func fixedClock() time.Time { return time.UnixMilli(1_700_000_000_000) }

func names(ps []model.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	sort.Strings(out)
	return out
}

func equalNames(t *testing.T, got []model.Project, want ...string) {
	t.Helper()
	g := names(got)
	sort.Strings(want)
	if len(g) != len(want) {
		t.Fatalf("expected %v, got %v", want, g)
	}
	for i := range g {
		if g[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, g)
		}
	}
}

func TestScanAtBuildsProject(t *testing.T) {
	ws := testutil.NewWorkspace(t).
		WithRemoteRepo("myrepo", "git@github.com:me/myrepo.git").
		WithFile("myrepo/go.mod", "module example.com/myrepo\n").
		WithDir("myrepo/internal/deep").
		Build()

	s := New(WithClock(fixedClock))
	p, ok := s.ScanAt(ws.Join("myrepo/internal/deep"))
	if !ok {
		t.Fatalf("expected repository to be detected")
	}

	root, _ := filepath.EvalSymlinks(ws.Join("myrepo"))
	if p.Path != root {
		t.Fatalf("expected path %q, got %q", root, p.Path)
	}
	if p.ID != identity.DeriveID(root) {
		t.Fatalf("expected id derived from root path, got %q", p.ID)
	}
	if p.Name != "myrepo" {
		t.Fatalf("expected name myrepo, got %q", p.Name)
	}
	if p.Tags == nil || len(p.Tags) != 0 {
		t.Fatalf("expected empty non-nil tags, got %#v", p.Tags)
	}
	if p.AccessCount != 0 || p.CreatedAt != fixedClock().UnixMilli() || p.LastAccessed != p.CreatedAt {
		t.Fatalf("unexpected timestamps/count: %+v", p)
	}
	if p.Remote() != "git@github.com:me/myrepo.git" {
		t.Fatalf("expected remote, got %q", p.Remote())
	}
	if p.Metadata.Language != "go" {
		t.Fatalf("expected go language, got %q", p.Metadata.Language)
	}
}

func TestScanAtNotARepo(t *testing.T) {
	dir := t.TempDir()
	s := New()
	if p, ok := s.ScanAt(dir); ok {
		t.Fatalf("did not expect a project, got %+v", p)
	}
}

func TestScanAtIsStable(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("a").Build()
	s := New()

	first, ok1 := s.ScanAt(ws.Join("a"))
	second, ok2 := s.ScanAt(ws.Join("a"))
	if !ok1 || !ok2 || first.ID != second.ID {
		t.Fatalf("expected stable id, got %q and %q", first.ID, second.ID)
	}
}

func TestScanCurrentUsesWorkingDir(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("here").Build()
	s := New(WithWorkingDir(func() (string, error) { return ws.Join("here"), nil }))

	p, ok := s.ScanCurrent()
	if !ok || p.Name != "here" {
		t.Fatalf("expected project 'here', got %+v (%v)", p, ok)
	}
}

func TestScanTreeFindsReposAndStopsAtRoots(t *testing.T) {
	ws := testutil.NewWorkspace(t).
		WithRepo("a").
		WithRepo("a/nested").
		WithRepo("group/b").
		WithDir("group/notrepo/x").
		WithFile("file.txt", "x").
		Build()

	got, err := New().ScanTree(context.Background(), ws.Path, DefaultOptions())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	equalNames(t, got, "a", "b")
}

func TestScanTreeDepthBound(t *testing.T) {
	ws := testutil.NewWorkspace(t).
		WithRepo("d1").
		WithRepo("x/d2").
		WithRepo("x/y/d3").
		WithRepo("x/y/z/d4").
		Build()

	tests := []struct {
		depth int
		want  []string
	}{
		{0, []string{"d1"}},
		{1, []string{"d1", "d2"}},
		{2, []string{"d1", "d2", "d3"}},
		{3, []string{"d1", "d2", "d3", "d4"}},
	}
	for _, tc := range tests {
		opts := DefaultOptions()
		opts.MaxDepth = tc.depth
		got, err := New().ScanTree(context.Background(), ws.Path, opts)
		if err != nil {
			t.Fatalf("depth %d: %v", tc.depth, err)
		}
		equalNames(t, got, tc.want...)
	}
}

func TestScanTreeRootNeverEmitted(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("child").Build()
	testutil.MakeRepo(t, ws.Path, "", "main")

	opts := DefaultOptions()
	opts.MaxDepth = 0
	got, err := New().ScanTree(context.Background(), ws.Path, opts)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	equalNames(t, got, "child")
}

func TestScanTreeHiddenDirectories(t *testing.T) {
	ws := testutil.NewWorkspace(t).
		WithRepo(".hidden").
		WithRepo(".config/tool").
		WithRepo("visible").
		Build()

	got, err := New().ScanTree(context.Background(), ws.Path, DefaultOptions())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	equalNames(t, got, "visible")

	opts := DefaultOptions()
	opts.IncludeHidden = true
	got, err = New().ScanTree(context.Background(), ws.Path, opts)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	equalNames(t, got, ".hidden", "tool", "visible")
}

func TestScanTreeSymlinks(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("real/repo").Build()
	other := t.TempDir()
	testutil.MakeRepo(t, filepath.Join(other, "linked"), "", "main")
	if err := os.Symlink(filepath.Join(other, "linked"), ws.Join("link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(ws.Join("real"), ws.Join("alias")); err != nil {
		t.Fatal(err)
	}

	got, err := New().ScanTree(context.Background(), ws.Path, DefaultOptions())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	equalNames(t, got, "repo")

	opts := DefaultOptions()
	opts.FollowSymlinks = true
	got, err = New().ScanTree(context.Background(), ws.Path, opts)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	// real/repo is reachable twice but reported once; the followed link
	// keeps its own name rather than its target's.
	equalNames(t, got, "link", "repo")
	for _, p := range got {
		if p.Name == "link" {
			want, _ := filepath.EvalSymlinks(filepath.Join(other, "linked"))
			if p.Path != want {
				t.Fatalf("expected link to resolve to %q, got %q", want, p.Path)
			}
		}
	}
}

func TestScanTreeConcurrentMatchesSequential(t *testing.T) {
	b := testutil.NewWorkspace(t)
	for _, rel := range []string{"a/r1", "a/r2", "b/r3", "b/c/r4", "r5", "d/e/r6"} {
		b.WithRepo(rel)
	}
	ws := b.Build()

	seq, err := New().ScanTree(context.Background(), ws.Path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Concurrency = 4
	par, err := New().ScanTree(context.Background(), ws.Path, opts)
	if err != nil {
		t.Fatal(err)
	}
	equalNames(t, par, names(seq)...)
	if len(par) != 6 {
		t.Fatalf("expected 6 repositories, got %v", names(par))
	}
}

func TestScanTreeRootErrors(t *testing.T) {
	_, err := New().ScanTree(context.Background(), filepath.Join(t.TempDir(), "missing"), DefaultOptions())
	if err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestScanTreeCanceled(t *testing.T) {
	ws := testutil.NewWorkspace(t).WithRepo("a").Build()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().ScanTree(ctx, ws.Path, DefaultOptions()); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestScanTreeSkipsUnreadableSubdirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	ws := testutil.NewWorkspace(t).WithRepo("ok").WithDir("locked/inner").Build()
	if err := os.Chmod(ws.Join("locked"), 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(ws.Join("locked"), 0o755) })

	got, err := New().ScanTree(context.Background(), ws.Path, DefaultOptions())
	if err != nil {
		t.Fatalf("expected unreadable subdirectory to be skipped, got %v", err)
	}
	equalNames(t, got, "ok")
}
