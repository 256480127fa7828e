package client

import (
	"context"

	"github.com/fivetwenty-io/aot-client/internal/http"
	"github.com/fivetwenty-io/aot-client/pkg/aot"
)

// Executor implements aot.Executor on top of the HTTP client. It is bound to
// the client's host so relative links resolve the same way as the request
// that produced them.
type Executor struct {
	httpClient *http.Client
}

// NewExecutor creates a new executor.
func NewExecutor(httpClient *http.Client) *Executor {
	return &Executor{httpClient: httpClient}
}

// Get implements aot.Executor.Get.
func (e *Executor) Get(ctx context.Context, url string, params []aot.QueryParam) ([]byte, error) {
	resp, err := e.httpClient.Get(ctx, url, params)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// listPage fetches a listing endpoint and wraps it as the first page.
func (e *Executor) listPage(ctx context.Context, path string, filters *aot.FilterSet) (*aot.Page, error) {
	payload, err := e.Get(ctx, path, filters.QueryParams())
	if err != nil {
		return nil, err
	}

	return aot.NewPage(payload, e)
}

// detail fetches a detail endpoint.
func (e *Executor) detail(ctx context.Context, path string) (*aot.Response, error) {
	payload, err := e.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	return aot.NewResponse(payload)
}
