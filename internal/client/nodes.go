package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
)

// NodesClient implements aot.NodesClient.
type NodesClient struct {
	executor *Executor
}

// NewNodesClient creates a new node client.
func NewNodesClient(executor *Executor) *NodesClient {
	return &NodesClient{
		executor: executor,
	}
}

// List implements aot.NodesClient.List.
func (c *NodesClient) List(ctx context.Context, filters *aot.FilterSet) (*aot.Page, error) {
	page, err := c.executor.listPage(ctx, "/nodes", filters)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	return page, nil
}

// Get implements aot.NodesClient.Get.
func (c *NodesClient) Get(ctx context.Context, vsn string) (*aot.Response, error) {
	resp, err := c.executor.detail(ctx, "/nodes/"+url.PathEscape(vsn))
	if err != nil {
		return nil, fmt.Errorf("getting node %q: %w", vsn, err)
	}

	return resp, nil
}
