package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
)

// ProjectsClient implements aot.ProjectsClient.
type ProjectsClient struct {
	executor *Executor
}

// NewProjectsClient creates a new project client.
func NewProjectsClient(executor *Executor) *ProjectsClient {
	return &ProjectsClient{
		executor: executor,
	}
}

// List implements aot.ProjectsClient.List.
func (c *ProjectsClient) List(ctx context.Context, filters *aot.FilterSet) (*aot.Page, error) {
	page, err := c.executor.listPage(ctx, "/projects", filters)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	return page, nil
}

// Get implements aot.ProjectsClient.Get.
func (c *ProjectsClient) Get(ctx context.Context, slug string) (*aot.Response, error) {
	resp, err := c.executor.detail(ctx, "/projects/"+url.PathEscape(slug))
	if err != nil {
		return nil, fmt.Errorf("getting project %q: %w", slug, err)
	}

	return resp, nil
}
