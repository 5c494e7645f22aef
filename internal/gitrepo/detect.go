// Package gitrepo classifies directories as git repository roots and reads
// the small amount of repository state cps records.
package gitrepo

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	format "github.com/go-git/go-git/v5/plumbing/format/config"

	"github.com/aidanlsb/cps/internal/logger"
	"github.com/aidanlsb/cps/internal/model"
)

// DetachedHead is reported by Branch when HEAD does not name a branch.
const DetachedHead = "detached"

const headRefPrefix = "ref: refs/heads/"

// Detector inspects directories for git metadata. Filesystem errors are
// treated as "not present"; nothing it does returns an error.
type Detector struct {
	logger *slog.Logger
}

// NewDetector returns a Detector that reports skipped reads to logger.
// A nil logger discards output.
func NewDetector(l *slog.Logger) *Detector {
	return &Detector{logger: logger.OrNop(l)}
}

// IsRepoRoot reports whether dir directly contains a .git directory.
// A .git file (worktree or submodule pointer) does not count.
func (d *Detector) IsRepoRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// FindRepoRoot returns the nearest repo root at or above start.
func (d *Detector) FindRepoRoot(start string) (string, bool) {
	cur := filepath.Clean(start)
	for {
		if d.IsRepoRoot(cur) {
			return cur, true
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}

// Remote returns the first url option in root's .git/config, in document
// order.
func (d *Detector) Remote(root string) (string, bool) {
	path := filepath.Join(root, ".git", "config")
	f, err := os.Open(path)
	if err != nil {
		d.logger.Debug("git config unreadable", "path", path, "error", err)
		return "", false
	}
	defer f.Close()

	cfg := format.New()
	if err := format.NewDecoder(f).Decode(cfg); err != nil {
		d.logger.Debug("git config unparsable", "path", path, "error", err)
		return "", false
	}

	for _, section := range cfg.Sections {
		if url, ok := firstURL(section.Options); ok {
			return url, true
		}
		for _, sub := range section.Subsections {
			if url, ok := firstURL(sub.Options); ok {
				return url, true
			}
		}
	}
	return "", false
}

func firstURL(opts format.Options) (string, bool) {
	for _, opt := range opts {
		if !opt.IsKey("url") {
			continue
		}
		if v := strings.TrimSpace(opt.Value); v != "" {
			return v, true
		}
	}
	return "", false
}

// Branch reads .git/HEAD under root. It returns the branch name, DetachedHead
// when HEAD holds a commit, or "" when HEAD cannot be read.
func (d *Detector) Branch(root string) string {
	content, err := os.ReadFile(filepath.Join(root, ".git", "HEAD"))
	if err != nil {
		return ""
	}
	head := strings.TrimSpace(string(content))
	if head == "" {
		return ""
	}
	if strings.HasPrefix(head, headRefPrefix) {
		return strings.TrimPrefix(head, headRefPrefix)
	}
	return DetachedHead
}

// Detect locates the repository containing dir and collects its remote and
// branch.
func (d *Detector) Detect(dir string) (model.GitInfo, bool) {
	root, ok := d.FindRepoRoot(dir)
	if !ok {
		return model.GitInfo{}, false
	}
	info := model.GitInfo{Root: root, Branch: d.Branch(root)}
	if remote, ok := d.Remote(root); ok {
		info.Remote = remote
	}
	return info, true
}
