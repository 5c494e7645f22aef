package cli

import (
	"errors"

	"github.com/aidanlsb/cps/internal/picker"
	"github.com/aidanlsb/cps/internal/project"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	ErrDirectoryNotFound = "DIRECTORY_NOT_FOUND"
	ErrNotAProject       = "NOT_A_PROJECT"
	ErrProjectNotFound   = "PROJECT_NOT_FOUND"

	ErrConfigInvalid = "CONFIG_INVALID"
	ErrStoreError    = "STORE_ERROR"
	ErrFZFMissing    = "FZF_NOT_INSTALLED"

	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrFileWriteError  = "FILE_WRITE_ERROR"
	ErrInternal        = "INTERNAL_ERROR"
)

// errorCode maps a service error to its stable code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, project.ErrDirectoryNotFound):
		return ErrDirectoryNotFound
	case errors.Is(err, project.ErrNotProject):
		return ErrNotAProject
	case errors.Is(err, project.ErrProjectNotFound):
		return ErrProjectNotFound
	case errors.Is(err, picker.ErrNotInstalled):
		return ErrFZFMissing
	}
	return ErrInternal
}

// handleServiceError reports err under the code errorCode assigns it.
func handleServiceError(err error) error {
	code := errorCode(err)
	suggestion := ""
	switch code {
	case ErrNotAProject:
		suggestion = "cps tracks git repositories; run 'git init' first or pass a path inside a repository"
	case ErrProjectNotFound:
		suggestion = "Run 'cps list' to see registered projects"
	case ErrFZFMissing:
		suggestion = "Install fzf or pass a project name"
	}
	return handleError(code, err, suggestion)
}
