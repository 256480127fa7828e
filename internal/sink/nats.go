package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/aot-client/internal/constants"
	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/nats-io/nats.go"
)

// Publisher is the subset of *nats.Conn used by the NATS sink.
type Publisher interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// NATSConfig configures the NATS sink.
type NATSConfig struct {
	// URL of the NATS server, e.g. "nats://localhost:4222". Ignored when Conn is set.
	URL string

	// Subject is the subject prefix; records go to "<Subject>.<resource>".
	Subject string

	// Name is reported to the server as the connection name.
	Name string

	// FlushTimeout bounds the flush performed on Close.
	FlushTimeout time.Duration

	// Conn is an already established connection. The sink does not close it.
	Conn Publisher
}

// NATS publishes records as JSON messages.
type NATS struct {
	mu           sync.Mutex
	conn         Publisher
	owned        bool
	subject      string
	flushTimeout time.Duration
	closed       bool
}

// NewNATS creates a NATS sink, connecting to config.URL unless a connection
// is supplied.
func NewNATS(config *NATSConfig) (*NATS, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	sink := &NATS{
		conn:         config.Conn,
		subject:      strings.TrimSuffix(config.Subject, "."),
		flushTimeout: config.FlushTimeout,
	}

	if sink.subject == "" {
		sink.subject = constants.DefaultNATSSubject
	}

	if sink.flushTimeout <= 0 {
		sink.flushTimeout = constants.NATSFlushTimeout
	}

	if sink.conn == nil {
		conn, err := Connect(config.URL, config.Name)
		if err != nil {
			return nil, err
		}

		sink.conn = conn
		sink.owned = true
	}

	return sink, nil
}

// Connect opens a NATS connection.
func Connect(url, name string) (*nats.Conn, error) {
	if url == "" {
		return nil, constants.ErrNATSURLRequired
	}

	if name == "" {
		name = constants.DefaultUserAgent
	}

	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(constants.ShortHTTPTimeout),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	return conn, nil
}

// Subject returns the subject records of resource are published to.
func (s *NATS) Subject(resource string) string {
	if resource == "" {
		return s.subject
	}

	return s.subject + "." + resource
}

// Write publishes record as a JSON message.
func (s *NATS) Write(ctx context.Context, resource string, record aot.Record) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}

	subject := s.Subject(resource)

	err = s.conn.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}

	return nil
}

// Close flushes pending messages and closes the connection if the sink
// opened it.
func (s *NATS) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	var err error

	timeout := s.flushTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	// FlushTimeout rejects non-positive timeouts.
	if timeout > 0 {
		err = s.conn.FlushTimeout(timeout)
	}

	if s.owned {
		s.conn.Close()
	}

	if err != nil {
		return fmt.Errorf("flushing NATS messages: %w", err)
	}

	return nil
}
