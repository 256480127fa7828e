// Package sink delivers exported Array of Things records to an output: a
// JSON-lines stream, a NATS subject, or nowhere.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
)

// Type represents the kind of sink.
type Type string

const (
	// TypeStdout writes JSON lines to standard output or a configured writer.
	TypeStdout Type = "stdout"

	// TypeNATS publishes each record to a NATS subject.
	TypeNATS Type = "nats"

	// TypeNone discards records.
	TypeNone Type = "none"
)

// Static errors for err113 compliance.
var (
	ErrNATSConfigRequired = errors.New("NATS configuration required for NATS sink")
	ErrUnsupportedType    = errors.New("unsupported sink type")
	ErrSinkClosed         = errors.New("sink closed")
)

// Sink receives exported records.
type Sink interface {
	Write(ctx context.Context, resource string, record aot.Record) error
	Close(ctx context.Context) error
}

// Config configures a sink.
type Config struct {
	// Type is the sink kind.
	Type Type

	// Writer receives JSON lines for TypeStdout. Defaults to os.Stdout.
	Writer io.Writer

	// NATS configures TypeNATS.
	NATS *NATSConfig
}

// NewFromConfig creates a sink from configuration.
func NewFromConfig(config *Config) (Sink, error) {
	if config == nil {
		config = &Config{Type: TypeStdout}
	}

	switch config.Type {
	case TypeStdout, "":
		writer := config.Writer
		if writer == nil {
			writer = os.Stdout
		}

		return NewJSONLines(writer), nil

	case TypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATS(config.NATS)

	case TypeNone:
		return NewNoOp(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, config.Type)
	}
}

// NoOp is a sink that does nothing.
type NoOp struct{}

// NewNoOp creates a new no-op sink.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Write discards the record.
func (s *NoOp) Write(ctx context.Context, resource string, record aot.Record) error {
	return nil
}

// Close does nothing.
func (s *NoOp) Close(ctx context.Context) error {
	return nil
}

// Chain fans every record out to several sinks.
type Chain struct {
	sinks []Sink
}

// NewChain creates a new sink chain.
func NewChain(sinks ...Sink) *Chain {
	return &Chain{
		sinks: sinks,
	}
}

// Write delivers the record to every sink and stops at the first failure.
func (c *Chain) Write(ctx context.Context, resource string, record aot.Record) error {
	for _, sink := range c.sinks {
		err := sink.Write(ctx, resource, record)
		if err != nil {
			return err
		}
	}

	return nil
}

// Close closes every sink and returns the joined errors.
func (c *Chain) Close(ctx context.Context) error {
	var errs []error

	for _, sink := range c.sinks {
		err := sink.Close(ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Export walks it and writes every record to sink. It returns the number of
// records written. The walk stops at the first fetch or write error.
func Export(ctx context.Context, it *aot.PageIterator, resource string, sink Sink) (int, error) {
	var count int

	for record, err := range it.Records(ctx) {
		if err != nil {
			return count, fmt.Errorf("exporting %s: %w", resource, err)
		}

		err = sink.Write(ctx, resource, record)
		if err != nil {
			return count, fmt.Errorf("writing %s record: %w", resource, err)
		}

		count++
	}

	return count, nil
}
