package aot

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a non-2xx response from the Array of Things API.
type APIError struct {
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Message    string `json:"error"       yaml:"error"`
	URL        string `json:"url"         yaml:"url"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}

	if e.URL == "" {
		return fmt.Sprintf("api error: %s (status: %d)", msg, e.StatusCode)
	}

	return fmt.Sprintf("api error: %s (status: %d, url: %s)", msg, e.StatusCode, e.URL)
}

// Static errors for err113 compliance.
var (
	ErrInvalidFilterOperand = errors.New("filter operand is neither a filter nor a filter set")
	ErrConfigRequired       = errors.New("config is required")
	ErrAPIEndpointRequired  = errors.New("API endpoint is required")
	ErrInvalidConfig        = errors.New("invalid config")
	ErrExecutorRequired     = errors.New("executor is required")
	ErrEmptyPayload         = errors.New("empty response payload")
	ErrMissingData          = errors.New("response payload has no data member")
	ErrNotADetailResponse   = errors.New("response data is not a single record")
	ErrNotAListing          = errors.New("response data is not a list of records")
	ErrInvalidFilterFormat  = errors.New("invalid filter format, expected field:op:value")
)

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsBadRequest reports whether err is an API error with status 400.
func IsBadRequest(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}

// IsServerError reports whether err is an API error with a 5xx status.
func IsServerError(err error) bool {
	return StatusCode(err) >= http.StatusInternalServerError
}

// StatusCode returns the HTTP status carried by an APIError in err's chain,
// or 0 when there is none.
func StatusCode(err error) int {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}

// ParseAPIError builds an APIError from an error response body. The API
// reports failures as {"error": "..."}; other bodies are kept verbatim.
func ParseAPIError(statusCode int, requestURL string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, URL: requestURL}

	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}

	err := json.Unmarshal(body, &payload)
	if err != nil {
		apiErr.Message = strings.TrimSpace(string(body))

		return apiErr
	}

	var text string
	if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &text) == nil {
		apiErr.Message = text
	} else if len(payload.Error) > 0 {
		apiErr.Message = string(payload.Error)
	} else {
		apiErr.Message = payload.Message
	}

	return apiErr
}
