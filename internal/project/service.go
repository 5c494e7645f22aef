// Package project implements the user-facing project operations on top of
// the registry and the repository scanner.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aidanlsb/cps/internal/logger"
	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/paths"
	"github.com/aidanlsb/cps/internal/registry"
	"github.com/aidanlsb/cps/internal/scanner"
)

// Overrides replace scanned values when a project is added. Empty fields
// leave the scanned (or previously stored) value in place.
type Overrides struct {
	Name        string
	Description string
	Tags        []string
	Group       string
}

// Service composes the registry and the scanner.
type Service struct {
	reg     *registry.Registry
	scanner *scanner.Scanner
	logger  *slog.Logger
	getwd   func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = logger.OrNop(l) }
}

// WithWorkingDir overrides how AddCurrent finds the working directory.
func WithWorkingDir(getwd func() (string, error)) Option {
	return func(s *Service) { s.getwd = getwd }
}

// New returns a Service over an open registry.
func New(reg *registry.Registry, sc *scanner.Scanner, opts ...Option) *Service {
	s := &Service{
		reg:     reg,
		scanner: sc,
		logger:  logger.Nop(),
		getwd:   os.Getwd,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCurrent registers the repository containing the working directory.
func (s *Service) AddCurrent(o Overrides) (model.Project, error) {
	wd, err := s.getwd()
	if err != nil {
		return model.Project{}, fmt.Errorf("get working directory: %w", err)
	}
	p, ok := s.scanner.ScanAt(wd)
	if !ok {
		return model.Project{}, fmt.Errorf("%w: %s", ErrNotProject, wd)
	}
	return s.save(p, o)
}

// AddByPath registers the repository containing path. A leading "~" is
// expanded to the home directory.
func (s *Service) AddByPath(path string, o Overrides) (model.Project, error) {
	dir, err := s.resolveDir(path)
	if err != nil {
		return model.Project{}, err
	}
	p, ok := s.scanner.ScanAt(dir)
	if !ok {
		return model.Project{}, fmt.Errorf("%w: %s", ErrNotProject, dir)
	}
	return s.save(p, o)
}

func (s *Service) resolveDir(path string) (string, error) {
	dir, err := paths.Absolute(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if !paths.IsDir(dir) {
		return "", fmt.Errorf("%w: %s", ErrDirectoryNotFound, path)
	}
	return dir, nil
}

// save merges a freshly scanned project with overrides and any stored
// entry of the same id, then upserts it.
func (s *Service) save(p model.Project, o Overrides) (model.Project, error) {
	existing, found := s.reg.Get(p.ID)
	if found {
		p.Name = existing.Name
		p.Description = existing.Description
		p.Tags = existing.Tags
		p.Group = existing.Group
		p.CreatedAt = existing.CreatedAt
		p.LastAccessed = existing.LastAccessed
		p.AccessCount = existing.AccessCount
	} else if o.Group == "" {
		p.Group = s.reg.Settings().DefaultGroup
	}

	if o.Name != "" {
		p.Name = o.Name
	}
	if o.Description != "" {
		p.Description = o.Description
	}
	if len(o.Tags) > 0 {
		p.Tags = append([]string{}, o.Tags...)
	}
	if o.Group != "" {
		p.Group = o.Group
	}

	if err := s.reg.Upsert(p); err != nil {
		return model.Project{}, err
	}
	s.logger.Debug("project saved", "id", p.ID, "path", p.Path, "updated", found)
	return p, nil
}

// ListAll returns every project in insertion order.
func (s *Service) ListAll() []model.Project { return s.reg.All() }

// ListRecent returns up to limit projects, most recently accessed first.
func (s *Service) ListRecent(limit int) []model.Project { return s.reg.Recent(limit) }

// Get returns the project with id.
func (s *Service) Get(id string) (model.Project, bool) { return s.reg.Get(id) }

// ProjectPath returns the stored path of the project with id.
func (s *Service) ProjectPath(id string) (string, bool) {
	p, ok := s.reg.Get(id)
	if !ok {
		return "", false
	}
	return p.Path, true
}

// Remove deletes the project with id. It reports false, without writing,
// when no project has that id.
func (s *Service) Remove(id string) (bool, error) {
	all := s.reg.All()
	kept := make([]model.Project, 0, len(all))
	for _, p := range all {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(all) {
		return false, nil
	}
	if err := s.reg.ReplaceAll(kept); err != nil {
		return false, err
	}
	return true, nil
}

// FindByName returns the first project whose name equals name, or failing
// that the first whose name contains it.
func (s *Service) FindByName(name string) (model.Project, bool) {
	all := s.reg.All()
	for _, p := range all {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range all {
		if strings.Contains(p.Name, name) {
			return p, true
		}
	}
	return model.Project{}, false
}

// Resolve looks a project up by id, then by name.
func (s *Service) Resolve(ref string) (model.Project, bool) {
	if p, ok := s.reg.Get(ref); ok {
		return p, true
	}
	return s.FindByName(ref)
}

// RecordAccess marks the project as accessed now.
func (s *Service) RecordAccess(id string) error {
	ok, err := s.reg.TouchAccess(id)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("access not recorded for unknown project", "id", id)
	}
	return nil
}

// Groups returns the group index derived from the stored projects.
func (s *Service) Groups() map[string][]string { return s.reg.Groups() }

// Settings returns the stored preferences.
func (s *Service) Settings() model.Settings { return s.reg.Settings() }

// Scan walks root for repositories without saving them.
func (s *Service) Scan(ctx context.Context, root string, opts scanner.Options) ([]model.Project, error) {
	dir, err := s.resolveDir(root)
	if err != nil {
		return nil, err
	}
	return s.scanner.ScanTree(ctx, dir, opts)
}

// AddAll saves scanned projects, keeping the stored history of any that
// are already registered.
func (s *Service) AddAll(ps []model.Project) (added, updated int, err error) {
	for _, p := range ps {
		_, exists := s.reg.Get(p.ID)
		if _, err := s.save(p, Overrides{}); err != nil {
			return added, updated, err
		}
		if exists {
			updated++
		} else {
			added++
		}
	}
	return added, updated, nil
}
