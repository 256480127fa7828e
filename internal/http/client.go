// Package http is the transport used by the Array of Things client. It wraps
// go-retryablehttp, resolves host-relative and absolute URLs, keeps query
// parameter order and turns error statuses into *aot.APIError values.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/aot-client/internal/constants"
	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/hashicorp/go-retryablehttp"
)

// Logger is the logging interface used by the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client performs HTTP requests against a single API host.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	logger       Logger
	debug        bool
	userAgent    string
	interceptors *aot.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.httpClient.Logger = &leveledLogger{logger: logger}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables transport retries for connection errors, 429 and
// 5xx responses.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the timeout of each HTTP exchange.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithInterceptors installs a request/response interceptor chain.
func WithInterceptors(chain *aot.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a new HTTP client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the host the client resolves relative paths against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request represents an HTTP request.
type Request struct {
	Method string
	// Path is either host-relative ("/nodes") or an absolute URL.
	Path    string
	Query   []aot.QueryParam
	Headers map[string]string
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query []aot.QueryParam) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Do performs an HTTP request. Non-2xx responses are returned together with
// an *aot.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.ResolveURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	intercepted := &aot.Request{
		Method:   req.Method,
		URL:      fullURL,
		Headers:  make(http.Header),
		Metadata: map[string]interface{}{"path": pathOf(fullURL)},
	}

	intercepted.Headers.Set("Accept", "application/json")
	intercepted.Headers.Set("User-Agent", c.userAgent)

	for key, value := range req.Headers {
		intercepted.Headers.Set(key, value)
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, err
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, intercepted.Method, intercepted.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = intercepted.Headers

	c.logDebug("HTTP Request", map[string]interface{}{
		"method": intercepted.Method,
		"url":    intercepted.URL,
	})

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = fmt.Errorf("executing request: %w", err)
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &aot.InterceptedResponse{Error: err})

		return nil, err
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	c.logDebug("HTTP Response", map[string]interface{}{
		"method":      intercepted.Method,
		"url":         intercepted.URL,
		"status_code": resp.StatusCode,
		"duration":    time.Since(start).String(),
	})

	var apiErr error
	if resp.StatusCode < constants.HTTPStatusOK || resp.StatusCode >= constants.HTTPStatusMultipleChoices {
		apiErr = aot.ParseAPIError(resp.StatusCode, intercepted.URL, body)

		if c.logger != nil {
			c.logger.Warn("HTTP Error Response", map[string]interface{}{
				"url":         intercepted.URL,
				"status_code": resp.StatusCode,
				"body":        truncateBody(body),
			})
		}
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &aot.InterceptedResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      apiErr,
	})
	if err != nil {
		return resp, err
	}

	if apiErr != nil {
		return resp, apiErr
	}

	return resp, nil
}

// ResolveURL builds the request URL. Absolute URLs, such as the navigation
// links returned by the API, are used as-is; anything else is appended to the
// base URL. Query parameters are appended in order.
func (c *Client) ResolveURL(path string, query []aot.QueryParam) (string, error) {
	var target string

	parsed, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parsing request path %q: %w", path, err)
	}

	switch {
	case parsed.IsAbs():
		target = path
	case path == "":
		target = c.baseURL
	case strings.HasPrefix(path, "/"):
		target = c.baseURL + path
	default:
		target = c.baseURL + "/" + path
	}

	encoded := aot.EncodeQueryParams(query)
	if encoded == "" {
		return target, nil
	}

	if strings.Contains(target, "?") {
		return target + "&" + encoded, nil
	}

	return target + "?" + encoded, nil
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.debug && c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

func pathOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	return parsed.Path
}

func truncateBody(body []byte) string {
	if len(body) <= constants.MaxErrorBodyLog {
		return string(body)
	}

	return string(body[:constants.MaxErrorBodyLog]) + "..."
}

// leveledLogger adapts Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}
