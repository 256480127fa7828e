package commands

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/aot-client/internal/constants"
	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/fivetwenty-io/aot-client/pkg/aotclient"
	"github.com/spf13/viper"
)

// CreateClient creates an API client from the global flags and configuration.
func CreateClient(ctx context.Context) (aot.Client, error) {
	endpoint := viper.GetString("api")
	if endpoint == "" {
		endpoint = constants.DefaultHostname
	}

	verbose := viper.GetBool("verbose")

	config := &aot.Config{
		APIEndpoint: endpoint,
		HTTPTimeout: viper.GetDuration("timeout"),
		RetryMax:    viper.GetInt("retries"),
		Debug:       verbose,
		Logger:      NewZerologAdapter(cliLogger()),
		UserAgent:   constants.DefaultUserAgent + "-cli",
	}

	client, err := aotclient.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
