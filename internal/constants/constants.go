package constants

import "time"

// API defaults.
const (
	// DefaultHostname is the public Array of Things API.
	DefaultHostname = "https://api.arrayofthings.org/api"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "aot-client-go"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. The client does not retry by default.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// HTTP status boundaries.
const (
	// HTTPStatusOK represents a successful HTTP response.
	HTTPStatusOK = 200

	// HTTPStatusMultipleChoices is the first status not treated as success.
	HTTPStatusMultipleChoices = 300

	// MaxErrorBodyLog caps how much of an error body is logged.
	MaxErrorBodyLog = 512
)

// Output formats.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)

// Export sinks.
const (
	// DefaultNATSSubject is used when exporting to NATS without --subject.
	DefaultNATSSubject = "aot.records"

	// NATSFlushTimeout bounds the final flush of an export.
	NATSFlushTimeout = 5 * time.Second
)
