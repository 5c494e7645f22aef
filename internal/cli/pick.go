package cli

import (
	"context"
	"os"

	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/picker"
)

// projectPicker is the interactive selector used by switch and remove.
type projectPicker interface {
	Available() bool
	Select(ctx context.Context, projects []model.Project, opts picker.Options) (model.Project, bool, error)
	SelectMultiple(ctx context.Context, projects []model.Project, opts picker.Options) ([]model.Project, error)
}

// newPicker is swapped in tests.
var newPicker = func() projectPicker {
	return picker.New(picker.WithStderr(os.Stderr))
}

func pickerOptions(header string) picker.Options {
	c := getConfig()
	prompt := c.Picker.Prompt
	if prompt == "" {
		prompt = "project> "
	}
	return picker.Options{
		Prompt: prompt,
		Header: header,
		Height: c.Picker.Height,
	}
}
