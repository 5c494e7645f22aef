package project

import "github.com/aidanlsb/cps/internal/model"

// Filter narrows a project list. Empty fields match everything.
type Filter struct {
	Group string
	Tag   string
}

// Matches reports whether p passes the filter.
func (f Filter) Matches(p model.Project) bool {
	if f.Group != "" && p.Group != f.Group {
		return false
	}
	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}
	return true
}

// Apply returns the projects in ps that match, preserving order.
func (f Filter) Apply(ps []model.Project) []model.Project {
	out := make([]model.Project, 0, len(ps))
	for _, p := range ps {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
