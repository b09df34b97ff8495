package redmine

import (
	"context"
	"fmt"
)

type projectEnvelope struct {
	Project *ProjectRequest `json:"project"`
}

// GetProject retrieves a project by numeric id or string identifier.
func (c *Client) GetProject(ctx context.Context, idOrIdentifier string) (*Project, error) {
	if idOrIdentifier == "" {
		return nil, ErrProjectRequired
	}
	var env struct {
		Project Project `json:"project"`
	}
	path := fmt.Sprintf("/projects/%s.json", idOrIdentifier)
	if err := c.http.Get(ctx, path, &env); err != nil {
		return nil, err
	}
	return &env.Project, nil
}

// ListProjects retrieves all projects visible to the authenticated user,
// following pagination until the server-reported total is reached.
func (c *Client) ListProjects(ctx context.Context, filter *ProjectFilter) ([]Project, error) {
	values, err := filterValues(filter)
	if err != nil {
		return nil, err
	}
	return listAll[Project](ctx, c, "/projects.json", values, "projects")
}

// CreateProject creates a new project and returns the created entity.
func (c *Client) CreateProject(ctx context.Context, req *ProjectRequest) (*Project, error) {
	var env struct {
		Project Project `json:"project"`
	}
	if err := c.http.Post(ctx, "/projects.json", &projectEnvelope{Project: req}, &env); err != nil {
		return nil, err
	}
	return &env.Project, nil
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, idOrIdentifier string, req *ProjectRequest) error {
	if idOrIdentifier == "" {
		return ErrProjectRequired
	}
	path := fmt.Sprintf("/projects/%s.json", idOrIdentifier)
	return c.http.Put(ctx, path, &projectEnvelope{Project: req}, nil)
}

// DeleteProject deletes a project and everything it contains.
func (c *Client) DeleteProject(ctx context.Context, idOrIdentifier string) error {
	if idOrIdentifier == "" {
		return ErrProjectRequired
	}
	return c.http.Delete(ctx, fmt.Sprintf("/projects/%s.json", idOrIdentifier))
}
