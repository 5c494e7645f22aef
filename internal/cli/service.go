package cli

import (
	"fmt"

	"github.com/aidanlsb/cps/internal/model"
	"github.com/aidanlsb/cps/internal/project"
	"github.com/aidanlsb/cps/internal/registry"
	"github.com/aidanlsb/cps/internal/scanner"
	"github.com/aidanlsb/cps/internal/slugs"
)

// openService opens the resolved store and wires the project service.
func openService() (*project.Service, error) {
	if resolvedStorePath == "" {
		return nil, fmt.Errorf("project store path is not resolved")
	}
	log := getLogger()
	reg, err := registry.Open(resolvedStorePath, registry.WithLogger(log))
	if err != nil {
		return nil, err
	}
	sc := scanner.New(scanner.WithLogger(log))
	return project.New(reg, sc, project.WithLogger(log)), nil
}

// mustOpenService is openService with the error already reported.
func mustOpenService() (*project.Service, error) {
	svc, err := openService()
	if err != nil {
		return nil, handleError(ErrStoreError, err, "Check the file or pass --store to use another location")
	}
	return svc, nil
}

// resolveProject finds a project by id, then name, then slug.
func resolveProject(svc *project.Service, ref string) (model.Project, error) {
	if p, ok := svc.Resolve(ref); ok {
		return p, nil
	}
	for _, p := range svc.ListAll() {
		if slugs.Equal(ref, p.Name) {
			return p, nil
		}
	}
	return model.Project{}, fmt.Errorf("%w: %s", project.ErrProjectNotFound, ref)
}
