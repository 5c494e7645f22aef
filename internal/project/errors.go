package project

import "errors"

var (
	// ErrDirectoryNotFound is returned when an add or scan path does not
	// name an existing directory.
	ErrDirectoryNotFound = errors.New("directory does not exist")

	// ErrNotProject is returned when a directory is not inside a git
	// repository.
	ErrNotProject = errors.New("not a git repository")

	// ErrProjectNotFound is returned when a reference matches no project.
	ErrProjectNotFound = errors.New("project not found")
)
