// Package testutil builds throwaway directory trees containing git
// repositories for cps tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Workspace is a temporary directory tree populated with fake repositories.
type Workspace struct {
	Path  string
	t     *testing.T
	repos []repoSpec
	files map[string]string
}

type repoSpec struct {
	rel    string
	remote string
	branch string
}

// NewWorkspace creates a workspace builder. Call Build to create it on disk.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{
		t:     t,
		files: make(map[string]string),
	}
}

// WithRepo adds a repository at rel with no remote, on branch main.
func (w *Workspace) WithRepo(rel string) *Workspace {
	return w.WithRemoteRepo(rel, "")
}

// WithRemoteRepo adds a repository at rel whose origin points at remote.
func (w *Workspace) WithRemoteRepo(rel, remote string) *Workspace {
	w.repos = append(w.repos, repoSpec{rel: rel, remote: remote, branch: "main"})
	return w
}

// WithFile adds a file at rel with the given content.
func (w *Workspace) WithFile(rel, content string) *Workspace {
	w.files[rel] = content
	return w
}

// WithDir adds an empty directory at rel.
func (w *Workspace) WithDir(rel string) *Workspace {
	w.files[strings.TrimSuffix(rel, "/")+"/"] = ""
	return w
}

// Build creates the workspace under t.TempDir().
func (w *Workspace) Build() *Workspace {
	w.t.Helper()
	w.Path = w.t.TempDir()

	for _, r := range w.repos {
		MakeRepo(w.t, filepath.Join(w.Path, r.rel), r.remote, r.branch)
	}
	for rel, content := range w.files {
		full := filepath.Join(w.Path, rel)
		if strings.HasSuffix(rel, "/") {
			mustMkdir(w.t, full)
			continue
		}
		WriteFile(w.t, full, content)
	}
	return w
}

// Join returns the absolute path of rel inside the workspace.
func (w *Workspace) Join(rel string) string {
	return filepath.Join(w.Path, rel)
}

// MakeRepo creates dir with a .git directory containing HEAD and, when
// remote is non-empty, a config with an origin remote.
func MakeRepo(t *testing.T, dir, remote, branch string) {
	t.Helper()
	gitDir := filepath.Join(dir, ".git")
	mustMkdir(t, gitDir)

	head := "0123456789abcdef0123456789abcdef01234567\n"
	if branch != "" {
		head = "ref: refs/heads/" + branch + "\n"
	}
	WriteFile(t, filepath.Join(gitDir, "HEAD"), head)

	var cfg strings.Builder
	cfg.WriteString("[core]\n\trepositoryformatversion = 0\n\tbare = false\n")
	if remote != "" {
		fmt.Fprintf(&cfg, "[remote \"origin\"]\n\turl = %s\n\tfetch = +refs/heads/*:refs/remotes/origin/*\n", remote)
	}
	WriteFile(t, filepath.Join(gitDir, "config"), cfg.String())
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	mustMkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}
}
