// Package model defines the data types persisted in the project store.
package model

import "slices"

// ConfigVersion is the schema version written to new project stores.
const ConfigVersion = "0.1.0"

// Project represents a tracked directory.
type Project struct {
	// ID is derived from the canonical root path and is unique in the store.
	ID string `json:"id" yaml:"id"`

	// Name is the display label. Defaults to the base name of the root.
	Name string `json:"name" yaml:"name"`

	// Path is the absolute path to the detected repository root.
	Path string `json:"path" yaml:"path"`

	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags" yaml:"tags"`
	Group       string   `json:"group,omitempty" yaml:"group,omitempty"`

	// CreatedAt and LastAccessed are milliseconds since the Unix epoch.
	CreatedAt    int64 `json:"createdAt" yaml:"createdAt"`
	LastAccessed int64 `json:"lastAccessed" yaml:"lastAccessed"`
	AccessCount  int   `json:"accessCount" yaml:"accessCount"`

	Metadata *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Metadata holds detected facts about a project.
type Metadata struct {
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`
	Framework string `json:"framework,omitempty" yaml:"framework,omitempty"`
	GitRemote string `json:"gitRemote,omitempty" yaml:"gitRemote,omitempty"`
}

// Remote returns the detected git remote, or "" when none was recorded.
func (p Project) Remote() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata.GitRemote
}

// HasTag reports whether the project carries tag exactly.
func (p Project) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// Clone returns a deep copy so callers can mutate it without touching
// the stored entry.
func (p Project) Clone() Project {
	out := p
	out.Tags = append([]string{}, p.Tags...)
	if p.Metadata != nil {
		md := *p.Metadata
		out.Metadata = &md
	}
	return out
}

// ProjectConfig is the root document of the project store.
type ProjectConfig struct {
	Version  string              `json:"version"`
	Projects []Project           `json:"projects"`
	Groups   map[string][]string `json:"groups"`
	Settings Settings            `json:"settings"`
}

// Settings are user preferences stored alongside the projects.
type Settings struct {
	// MaxHistorySize is advisory; nothing truncates the store to it.
	MaxHistorySize int  `json:"maxHistorySize"`
	AutoDetectGit  bool `json:"autoDetectGit"`

	DefaultGroup string `json:"defaultGroup,omitempty"`
}

// DefaultConfig returns the document materialized on first use.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		Version:  ConfigVersion,
		Projects: []Project{},
		Groups:   map[string][]string{},
		Settings: Settings{
			MaxHistorySize: 50,
			AutoDetectGit:  true,
		},
	}
}

// GitInfo is the transient result of repository detection.
type GitInfo struct {
	Root   string
	Remote string
	Branch string
}
