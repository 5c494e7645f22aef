// Package slugs normalizes project names for loose matching.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// Name converts a project name or query to its slug, e.g. "My API (v2)"
// becomes "my-api-v2". Names with nothing sluggable fall back to a
// lowercased, dash-joined form.
func Name(s string) string {
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.Join(strings.Fields(s), "-"))
	}
	return slugged
}

// Equal reports whether a and b have the same non-empty slug.
func Equal(a, b string) bool {
	sa := Name(a)
	return sa != "" && sa == Name(b)
}
