// Package registry persists the project collection as a single JSON
// document and tracks project access.
//
// A Registry is always loaded: Open reads the store, or creates and writes
// the default document when none exists. Every mutation rewrites the whole
// file. Concurrent invocations are not coordinated; the last write wins.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/aidanlsb/cps/internal/atomicfile"
	"github.com/aidanlsb/cps/internal/logger"
	"github.com/aidanlsb/cps/internal/model"
)

// Registry is an open project store.
type Registry struct {
	path   string
	doc    model.ProjectConfig
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source used by TouchAccess.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger.OrNop(l) }
}

// Open loads the store at path. A missing file is created with the default
// document. Any other read or parse failure is returned.
func Open(path string, opts ...Option) (*Registry, error) {
	if path == "" {
		return nil, errors.New("registry path is empty")
	}

	r := &Registry{
		path:   path,
		now:    time.Now,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		r.doc = model.DefaultConfig()
		r.logger.Debug("creating project store", "path", path)
		if err := r.Save(); err != nil {
			return nil, err
		}
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read project store: %w", err)
	}

	var doc model.ProjectConfig
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse project store %s: %w", path, err)
	}
	r.doc = normalize(doc)
	r.logger.Debug("loaded project store", "path", path, "projects", len(r.doc.Projects))
	return r, nil
}

// normalize fills fields an older or hand-edited document may lack.
func normalize(doc model.ProjectConfig) model.ProjectConfig {
	if doc.Version == "" {
		doc.Version = model.ConfigVersion
	}
	if doc.Projects == nil {
		doc.Projects = []model.Project{}
	}
	for i := range doc.Projects {
		if doc.Projects[i].Tags == nil {
			doc.Projects[i].Tags = []string{}
		}
	}
	doc.Groups = deriveGroups(doc.Projects)
	return doc
}

// deriveGroups maps each group label to the ids of its projects in
// collection order.
func deriveGroups(projects []model.Project) map[string][]string {
	groups := make(map[string][]string)
	for _, p := range projects {
		if p.Group == "" {
			continue
		}
		groups[p.Group] = append(groups[p.Group], p.ID)
	}
	return groups
}

// Path returns the store location.
func (r *Registry) Path() string { return r.path }

// Save rewrites the whole document.
func (r *Registry) Save() error {
	r.doc.Groups = deriveGroups(r.doc.Projects)
	if err := atomicfile.WriteJSON(r.path, r.doc, 0o644); err != nil {
		return fmt.Errorf("save project store: %w", err)
	}
	return nil
}

// All returns a copy of every project in insertion order.
func (r *Registry) All() []model.Project {
	out := make([]model.Project, len(r.doc.Projects))
	for i, p := range r.doc.Projects {
		out[i] = p.Clone()
	}
	return out
}

// Get returns the project with id.
func (r *Registry) Get(id string) (model.Project, bool) {
	if i := r.index(id); i >= 0 {
		return r.doc.Projects[i].Clone(), true
	}
	return model.Project{}, false
}

func (r *Registry) index(id string) int {
	for i := range r.doc.Projects {
		if r.doc.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

// Upsert replaces the project with the same id in place, or appends it,
// then saves.
func (r *Registry) Upsert(p model.Project) error {
	next := r.projectsCopy()
	if i := r.index(p.ID); i >= 0 {
		next[i] = p.Clone()
	} else {
		next = append(next, p.Clone())
	}
	return r.commit(next)
}

// TouchAccess stamps the project with the current time and increments its
// access count. It reports false, without writing, when id is unknown.
func (r *Registry) TouchAccess(id string) (bool, error) {
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	next := r.projectsCopy()
	next[i].LastAccessed = r.now().UnixMilli()
	next[i].AccessCount++
	return true, r.commit(next)
}

// Recent returns up to limit projects, most recently accessed first. Ties
// keep collection order.
func (r *Registry) Recent(limit int) []model.Project {
	if limit <= 0 {
		return []model.Project{}
	}
	ps := r.All()
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].LastAccessed > ps[j].LastAccessed
	})
	if len(ps) > limit {
		ps = ps[:limit]
	}
	return ps
}

// ReplaceAll swaps in a new collection and saves.
func (r *Registry) ReplaceAll(ps []model.Project) error {
	next := make([]model.Project, len(ps))
	for i, p := range ps {
		next[i] = p.Clone()
	}
	return r.commit(next)
}

// commit installs next and saves it. A failed write restores the previous
// document so memory never runs ahead of the file.
func (r *Registry) commit(next []model.Project) error {
	prev := r.doc
	r.doc.Projects = next
	if err := r.Save(); err != nil {
		r.doc = prev
		return err
	}
	return nil
}

func (r *Registry) projectsCopy() []model.Project {
	return append(make([]model.Project, 0, len(r.doc.Projects)+1), r.doc.Projects...)
}

// Settings returns the stored preferences.
func (r *Registry) Settings() model.Settings { return r.doc.Settings }

// Groups returns the derived group index.
func (r *Registry) Groups() map[string][]string {
	out := make(map[string][]string, len(r.doc.Groups))
	for g, ids := range r.doc.Groups {
		out[g] = append([]string(nil), ids...)
	}
	return out
}
