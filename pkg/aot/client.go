package aot

import (
	"context"
	"time"
)

// ListClient lists a paged collection.
type ListClient interface {
	List(ctx context.Context, filters *FilterSet) (*Page, error)
}

// ProjectsClient provides access to project metadata. Projects are the
// highest level in the hierarchy of the system.
type ProjectsClient interface {
	ListClient
	Get(ctx context.Context, slug string) (*Response, error)
}

// NodesClient provides access to node metadata. Nodes are the physical
// instruments deployed with sensors to record observations.
type NodesClient interface {
	ListClient
	Get(ctx context.Context, vsn string) (*Response, error)
}

// SensorsClient provides access to sensor metadata. Sensors are the
// components onboard nodes that record observations.
type SensorsClient interface {
	ListClient
	Get(ctx context.Context, path string) (*Response, error)
}

// ObservationsClient provides access to the data collected by sensors.
type ObservationsClient interface {
	ListClient
}

// MetricsClient provides access to telemetry about the operational state of
// the nodes.
type MetricsClient interface {
	ListClient
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	Projects() ProjectsClient
	Nodes() NodesClient
	Sensors() SensorsClient
	Observations() ObservationsClient
	Metrics() MetricsClient
}

// Client is the Array of Things API client.
type Client interface {
	ResourceClients

	// Executor returns the GET capability bound to this client's host. Pages
	// returned by the client use it to follow next links.
	Executor() Executor

	// Hostname returns the API base URL.
	Hostname() string
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an aot.Client.
//
// # Timeouts and retries
//
// Per-request deadlines should generally be controlled via the context passed
// to client methods. HTTPTimeout bounds each single HTTP exchange. The client
// performs no retries unless RetryMax is set; retries are then applied by the
// transport only for connection errors, 429 and 5xx responses, never by page
// iteration.
type Config struct {
	// APIEndpoint: base URL of the API, e.g. "https://api.arrayofthings.org/api".
	// aotclient.New trims a trailing slash and adds "https://" if no scheme is present.
	APIEndpoint string `validate:"required,url"`

	// HTTPTimeout: timeout applied to each HTTP exchange. Zero uses the default.
	HTTPTimeout time.Duration `validate:"gte=0"`
	// RetryMax: transport-level retries for transient failures. Zero disables retries.
	RetryMax int `validate:"gte=0"`
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration `validate:"gte=0"`
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration `validate:"gte=0"`
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
	// Interceptors: optional request/response hooks run around every exchange.
	Interceptors *InterceptorChain
}
