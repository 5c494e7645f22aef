// Package scanner discovers git repositories and turns them into project
// records.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/cps/internal/gitrepo"
	"github.com/aidanlsb/cps/internal/identity"
	"github.com/aidanlsb/cps/internal/logger"
	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/paths"
)

// DefaultMaxDepth is the directory depth ScanTree descends to by default.
const DefaultMaxDepth = 2

// Options controls a ScanTree walk.
type Options struct {
	// MaxDepth bounds recursion. The root is depth 0 and its direct
	// children are always examined.
	MaxDepth int

	// IncludeHidden also walks entries whose names start with ".".
	IncludeHidden bool

	// FollowSymlinks treats symlinks to directories as directories.
	FollowSymlinks bool

	// Concurrency is the number of directories read in parallel.
	// Values below 2 walk sequentially.
	Concurrency int
}

// DefaultOptions returns the options used when the caller sets none.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth, Concurrency: 1}
}

// Scanner builds project records from directories on disk.
type Scanner struct {
	detector *gitrepo.Detector
	logger   *slog.Logger
	now      func() time.Time
	getwd    func() (string, error)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for skipped directories.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) { s.logger = logger.OrNop(l) }
}

// WithClock overrides the time source for createdAt and lastAccessed.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithWorkingDir overrides how ScanCurrent finds the working directory.
func WithWorkingDir(getwd func() (string, error)) Option {
	return func(s *Scanner) { s.getwd = getwd }
}

// New returns a Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		logger: logger.Nop(),
		now:    time.Now,
		getwd:  os.Getwd,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.detector = gitrepo.NewDetector(s.logger)
	return s
}

// ScanAt builds a project for the repository containing dir. It reports
// false when dir is not inside a git repository.
func (s *Scanner) ScanAt(dir string) (model.Project, bool) {
	info, ok := s.detector.Detect(paths.Canonical(dir))
	if !ok {
		return model.Project{}, false
	}
	return s.build(info), true
}

// ScanCurrent is ScanAt for the process working directory.
func (s *Scanner) ScanCurrent() (model.Project, bool) {
	wd, err := s.getwd()
	if err != nil {
		s.logger.Debug("working directory unavailable", "error", err)
		return model.Project{}, false
	}
	return s.ScanAt(wd)
}

func (s *Scanner) build(info model.GitInfo) model.Project {
	now := s.now().UnixMilli()
	p := model.Project{
		ID:           identity.DeriveID(info.Root),
		Name:         filepath.Base(info.Root),
		Path:         info.Root,
		Tags:         []string{},
		CreatedAt:    now,
		LastAccessed: now,
	}

	lang, framework := DetectLanguage(info.Root)
	if info.Remote != "" || lang != "" {
		p.Metadata = &model.Metadata{
			Language:  lang,
			Framework: framework,
			GitRemote: info.Remote,
		}
	}
	return p
}

// ScanTree walks root looking for repository roots. A directory that is a
// repository root is reported and not descended into. Unreadable
// subdirectories are skipped; only a failure to read root itself is an
// error.
func (s *Scanner) ScanTree(ctx context.Context, root string, opts Options) ([]model.Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read scan root: %w", err)
	}

	w := &walk{
		scanner: s,
		ctx:     ctx,
		opts:    opts,
		seen:    make(map[string]bool),
	}
	if opts.Concurrency > 1 {
		w.group = &errgroup.Group{}
		w.group.SetLimit(opts.Concurrency)
	}

	w.visitEntries(abs, entries, 0)
	if w.group != nil {
		_ = w.group.Wait()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("scan complete", "root", abs, "found", len(w.found))
	return w.found, nil
}

type walk struct {
	scanner *Scanner
	ctx     context.Context
	opts    Options
	group   *errgroup.Group

	mu    sync.Mutex
	seen  map[string]bool
	found []model.Project
}

func (w *walk) visit(dir string, depth int) {
	if w.ctx.Err() != nil {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.scanner.logger.Debug("skipping unreadable directory", "path", dir, "error", err)
		return
	}
	w.visitEntries(dir, entries, depth)
}

func (w *walk) visitEntries(dir string, entries []os.DirEntry, depth int) {
	for _, entry := range entries {
		if w.ctx.Err() != nil {
			return
		}
		name := entry.Name()
		if !w.opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		child := filepath.Join(dir, name)
		if !w.isDir(child, entry) {
			continue
		}

		if w.scanner.detector.IsRepoRoot(child) {
			w.record(child, name)
			continue
		}
		if depth >= w.opts.MaxDepth {
			continue
		}
		next := depth + 1
		w.spawn(func() { w.visit(child, next) })
	}
}

func (w *walk) isDir(path string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 || !w.opts.FollowSymlinks {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// spawn runs fn on the errgroup when a slot is free and inline otherwise,
// so a saturated group never blocks a recursive walk.
func (w *walk) spawn(fn func()) {
	if w.group == nil || !w.group.TryGo(func() error { fn(); return nil }) {
		fn()
	}
}

// record adds the repository at root once per canonical path. The project
// is named after the directory entry that reached it, so a followed
// symlink keeps the link's name.
func (w *walk) record(root, name string) {
	canonical := paths.Canonical(root)

	w.mu.Lock()
	if w.seen[canonical] {
		w.mu.Unlock()
		return
	}
	w.seen[canonical] = true
	w.mu.Unlock()

	info := model.GitInfo{Root: canonical, Branch: w.scanner.detector.Branch(canonical)}
	if remote, ok := w.scanner.detector.Remote(canonical); ok {
		info.Remote = remote
	}
	p := w.scanner.build(info)
	p.Name = name

	w.mu.Lock()
	w.found = append(w.found, p)
	w.mu.Unlock()
}
