package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/aot-client/internal/constants"
	"github.com/fivetwenty-io/aot-client/internal/http"
	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/go-playground/validator/v10"
)

// Client implements the aot.Client interface.
type Client struct {
	httpClient *http.Client
	executor   *Executor
	baseURL    string
	logger     aot.Logger

	// Resource clients
	projects     aot.ProjectsClient
	nodes        aot.NodesClient
	sensors      aot.SensorsClient
	observations aot.ObservationsClient
	metrics      aot.MetricsClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *aot.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// ValidateConfig checks the config's struct constraints.
func ValidateConfig(config *aot.Config) error {
	if config == nil {
		return aot.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return aot.ErrAPIEndpointRequired
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	err := validate.Struct(config)
	if err != nil {
		return fmt.Errorf("%w: %w", aot.ErrInvalidConfig, err)
	}

	return nil
}

// New creates a new Array of Things API client.
func New(ctx context.Context, config *aot.Config) (*Client, error) {
	err := ValidateConfig(config)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.APIEndpoint, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient: httpClient,
		executor:   NewExecutor(httpClient),
		baseURL:    strings.TrimSuffix(config.APIEndpoint, "/"),
		logger:     config.Logger,
	}

	client.initializeResourceClients()

	if client.logger != nil {
		client.logger.Debug("client initialized", map[string]interface{}{
			"api_endpoint": client.baseURL,
		})
	}

	return client, nil
}

func (c *Client) initializeResourceClients() {
	c.projects = NewProjectsClient(c.executor)
	c.nodes = NewNodesClient(c.executor)
	c.sensors = NewSensorsClient(c.executor)
	c.observations = NewObservationsClient(c.executor)
	c.metrics = NewMetricsClient(c.executor)
}

// Executor implements aot.Client.Executor.
func (c *Client) Executor() aot.Executor {
	return c.executor
}

// Hostname implements aot.Client.Hostname.
func (c *Client) Hostname() string {
	return c.baseURL
}

// String implements fmt.Stringer.
func (c *Client) String() string {
	return c.baseURL
}

// Resource client accessors

// Projects implements aot.Client.Projects.
func (c *Client) Projects() aot.ProjectsClient {
	return c.projects
}

// Nodes implements aot.Client.Nodes.
func (c *Client) Nodes() aot.NodesClient {
	return c.nodes
}

// Sensors implements aot.Client.Sensors.
func (c *Client) Sensors() aot.SensorsClient {
	return c.sensors
}

// Observations implements aot.Client.Observations.
func (c *Client) Observations() aot.ObservationsClient {
	return c.observations
}

// Metrics implements aot.Client.Metrics.
func (c *Client) Metrics() aot.MetricsClient {
	return c.metrics
}

// loggerAdapter adapts aot.Logger to http.Logger.
type loggerAdapter struct {
	logger aot.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
