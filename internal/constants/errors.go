package constants

import "errors"

// Configuration errors.
var (
	ErrInvalidOutputFormat = errors.New("invalid output format, expected table, json or yaml")
)

// Export errors.
var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrNATSURLRequired = errors.New("--nats-url is required when --sink=nats")
	ErrUnknownSink     = errors.New("unknown sink, expected stdout, nats or none")
)
