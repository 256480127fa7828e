package aotclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/aot-client/internal/client"
	"github.com/fivetwenty-io/aot-client/internal/constants"
	"github.com/fivetwenty-io/aot-client/pkg/aot"
)

// New creates a new Array of Things API client. The caller's config is not
// modified.
func New(ctx context.Context, config *aot.Config) (aot.Client, error) {
	if config == nil {
		return nil, aot.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, aot.ErrAPIEndpointRequired
	}

	normalized := *config
	normalized.APIEndpoint = NormalizeEndpoint(config.APIEndpoint)

	client, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// NewWithEndpoint creates a client for endpoint with default settings.
func NewWithEndpoint(ctx context.Context, endpoint string) (aot.Client, error) {
	return New(ctx, &aot.Config{
		APIEndpoint: endpoint,
	})
}

// NewDefault creates a client for the public Array of Things API.
func NewDefault(ctx context.Context) (aot.Client, error) {
	return NewWithEndpoint(ctx, constants.DefaultHostname)
}

// NormalizeEndpoint trims trailing slashes and adds "https://" when no scheme
// is present.
func NormalizeEndpoint(endpoint string) string {
	normalized := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}

	return normalized
}
