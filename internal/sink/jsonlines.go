package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
)

// JSONLines writes one JSON object per line.
type JSONLines struct {
	mu      sync.Mutex
	encoder *json.Encoder
	closed  bool
}

// NewJSONLines creates a JSON-lines sink writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{encoder: json.NewEncoder(w)}
}

// Write encodes record on its own line. The resource name is not included.
func (s *JSONLines) Write(ctx context.Context, resource string, record aot.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}

	err := s.encoder.Encode(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	return nil
}

// Close marks the sink closed. The underlying writer is left open.
func (s *JSONLines) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}
