package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
)

// SensorsClient implements aot.SensorsClient.
type SensorsClient struct {
	executor *Executor
}

// NewSensorsClient creates a new sensor client.
func NewSensorsClient(executor *Executor) *SensorsClient {
	return &SensorsClient{
		executor: executor,
	}
}

// List implements aot.SensorsClient.List.
func (c *SensorsClient) List(ctx context.Context, filters *aot.FilterSet) (*aot.Page, error) {
	page, err := c.executor.listPage(ctx, "/sensors", filters)
	if err != nil {
		return nil, fmt.Errorf("listing sensors: %w", err)
	}

	return page, nil
}

// Get implements aot.SensorsClient.Get.
func (c *SensorsClient) Get(ctx context.Context, path string) (*aot.Response, error) {
	resp, err := c.executor.detail(ctx, "/sensors/"+url.PathEscape(path))
	if err != nil {
		return nil, fmt.Errorf("getting sensor %q: %w", path, err)
	}

	return resp, nil
}
