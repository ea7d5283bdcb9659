package cli

import (
	"fmt"

	"github.com/alexanderramin/saad/internal/domain"
)

// resolveProject turns a full ID or unique ID prefix into a project copy.
func resolveProject(app *App, ref string) (*domain.Project, error) {
	if ref == "" {
		return nil, fmt.Errorf("project ID is required")
	}
	id, err := app.Workspace.ResolveProject(ref)
	if err != nil {
		return nil, err
	}
	return app.Workspace.Project(id)
}

// resolveTask accepts a task ID prefix or a task code within the project.
func resolveTask(app *App, projectID, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("task ID or code is required")
	}
	return app.Workspace.ResolveTask(projectID, ref)
}
