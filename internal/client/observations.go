package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
)

// ObservationsClient implements aot.ObservationsClient.
type ObservationsClient struct {
	executor *Executor
}

// NewObservationsClient creates a new observations client.
func NewObservationsClient(executor *Executor) *ObservationsClient {
	return &ObservationsClient{
		executor: executor,
	}
}

// List implements aot.ObservationsClient.List.
func (c *ObservationsClient) List(ctx context.Context, filters *aot.FilterSet) (*aot.Page, error) {
	page, err := c.executor.listPage(ctx, "/observations", filters)
	if err != nil {
		return nil, fmt.Errorf("listing observations: %w", err)
	}

	return page, nil
}

// MetricsClient implements aot.MetricsClient.
type MetricsClient struct {
	executor *Executor
}

// NewMetricsClient creates a new metrics client.
func NewMetricsClient(executor *Executor) *MetricsClient {
	return &MetricsClient{
		executor: executor,
	}
}

// List implements aot.MetricsClient.List.
func (c *MetricsClient) List(ctx context.Context, filters *aot.FilterSet) (*aot.Page, error) {
	page, err := c.executor.listPage(ctx, "/metrics", filters)
	if err != nil {
		return nil, fmt.Errorf("listing metrics: %w", err)
	}

	return page, nil
}
