package aot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
)

// Record is a single opaque API record.
type Record map[string]interface{}

// Executor performs a GET against an absolute or host-relative URL and returns
// the raw JSON payload. Implementations surface transport failures and error
// statuses as errors; a returned payload is always a successful response.
type Executor interface {
	Get(ctx context.Context, url string, params []QueryParam) ([]byte, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, url string, params []QueryParam) ([]byte, error)

// Get implements Executor.
func (f ExecutorFunc) Get(ctx context.Context, url string, params []QueryParam) ([]byte, error) {
	return f(ctx, url, params)
}

// Links holds the navigation links of a listing response.
type Links struct {
	Previous *string `json:"previous" yaml:"previous"`
	Current  *string `json:"current"  yaml:"current"`
	Next     *string `json:"next"     yaml:"next"`
}

// Meta is the meta block of a listing response.
type Meta struct {
	Query map[string]interface{} `json:"query,omitempty" yaml:"query,omitempty"`
	Links *Links                 `json:"links,omitempty" yaml:"links,omitempty"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *Meta           `json:"meta,omitempty"`
}

// Page is one page of a collection response. A Page is immutable; advancing
// through a collection produces new Page values.
type Page struct {
	data     []Record
	meta     *Meta
	detail   bool
	raw      []byte
	executor Executor
}

// NewPage parses a listing payload. The executor is used to fetch the pages
// that follow; it may be nil when the page will not be iterated past.
//
// A detail-shaped payload ({"data": {...}}) is accepted and yields a page
// holding that single record and no navigation links.
func NewPage(payload []byte, executor Executor) (*Page, error) {
	env, err := decodeEnvelope(payload)
	if err != nil {
		return nil, err
	}

	page := &Page{
		meta:     env.Meta,
		raw:      payload,
		executor: executor,
	}

	switch firstByte(env.Data) {
	case '[':
		err = json.Unmarshal(env.Data, &page.data)
		if err != nil {
			return nil, fmt.Errorf("parsing page data: %w", err)
		}
	case '{':
		var record Record

		err = json.Unmarshal(env.Data, &record)
		if err != nil {
			return nil, fmt.Errorf("parsing page data: %w", err)
		}

		page.data = []Record{record}
		page.detail = true
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotAListing, truncate(env.Data))
	}

	return page, nil
}

// Data returns the page's records.
func (p *Page) Data() []Record {
	return p.data
}

// Len returns the number of records on the page.
func (p *Page) Len() int {
	return len(p.data)
}

// IsDetail reports whether the page was built from a single-record payload.
func (p *Page) IsDetail() bool {
	return p.detail
}

// HasMeta reports whether the payload carried a meta block.
func (p *Page) HasMeta() bool {
	return p.meta != nil
}

// Meta returns the meta block, or nil.
func (p *Page) Meta() *Meta {
	return p.meta
}

// Query returns the request parameters echoed by the server in meta.query.
func (p *Page) Query() (map[string]interface{}, bool) {
	if p.meta == nil || p.meta.Query == nil {
		return nil, false
	}

	return p.meta.Query, true
}

// PreviousLink returns the link to the previous page, if any.
func (p *Page) PreviousLink() (string, bool) {
	return p.link(func(l *Links) *string { return l.Previous })
}

// CurrentLink returns the link to this page, if any.
func (p *Page) CurrentLink() (string, bool) {
	return p.link(func(l *Links) *string { return l.Current })
}

// NextLink returns the link to the next page, if any.
func (p *Page) NextLink() (string, bool) {
	return p.link(func(l *Links) *string { return l.Next })
}

// Raw returns the payload the page was parsed from.
func (p *Page) Raw() []byte {
	return p.raw
}

// MarshalJSON renders the page back into the API envelope.
func (p *Page) MarshalJSON() ([]byte, error) {
	out := struct {
		Data []Record `json:"data"`
		Meta *Meta    `json:"meta,omitempty"`
	}{Data: p.data, Meta: p.meta}

	if out.Data == nil {
		out.Data = []Record{}
	}

	return json.Marshal(out)
}

// Pages returns a fresh lazy iterator that yields p first and then every
// following page reachable through next links.
func (p *Page) Pages(opts ...IteratorOption) *PageIterator {
	it := &PageIterator{start: p}
	for _, opt := range opts {
		opt(it)
	}

	return it
}

func (p *Page) link(pick func(*Links) *string) (string, bool) {
	if p.meta == nil || p.meta.Links == nil {
		return "", false
	}

	value := pick(p.meta.Links)
	if value == nil || *value == "" {
		return "", false
	}

	return *value, true
}

// IteratorOption configures a PageIterator.
type IteratorOption func(*PageIterator)

// WithMaxPages stops the walk after n pages have been yielded. Values <= 0
// mean no limit.
func WithMaxPages(n int) IteratorOption {
	return func(it *PageIterator) {
		it.maxPages = n
	}
}

// PageIterator walks a paged collection forward, one blocking fetch per page.
// It never prefetches and never replays: once the consumer stops calling Next
// no further requests are made.
type PageIterator struct {
	start    *Page
	current  *Page
	maxPages int
	yielded  int
	done     bool
}

// Next returns the next page. The first call yields the starting page without
// any I/O. Each later call fetches the current page's next link; the walk ends
// with (nil, false, nil) when there is no next link or the fetched page is
// empty. The empty page is never returned. A fetch error is returned once and
// ends the walk.
func (it *PageIterator) Next(ctx context.Context) (*Page, bool, error) {
	if it.done {
		return nil, false, nil
	}

	if it.maxPages > 0 && it.yielded >= it.maxPages {
		it.done = true

		return nil, false, nil
	}

	if it.current == nil {
		if it.start == nil {
			it.done = true

			return nil, false, nil
		}

		it.current = it.start
		it.yielded++

		return it.current, true, nil
	}

	nextLink, ok := it.current.NextLink()
	if !ok {
		it.done = true

		return nil, false, nil
	}

	page, err := it.fetch(ctx, nextLink)
	if err != nil {
		it.done = true

		return nil, false, err
	}

	if page.Len() == 0 {
		it.done = true

		return nil, false, nil
	}

	it.current = page
	it.yielded++

	return page, true, nil
}

// All drains the iterator and returns every page.
func (it *PageIterator) All(ctx context.Context) ([]*Page, error) {
	var pages []*Page

	for {
		page, ok, err := it.Next(ctx)
		if err != nil {
			return pages, err
		}

		if !ok {
			return pages, nil
		}

		pages = append(pages, page)
	}
}

// ForEach calls fn for each page until the walk ends or fn returns an error.
func (it *PageIterator) ForEach(ctx context.Context, fn func(*Page) error) error {
	for {
		page, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}

		err = fn(page)
		if err != nil {
			return err
		}
	}
}

// Seq adapts the iterator for range-over-func loops. Breaking out of the loop
// stops the walk without further requests.
func (it *PageIterator) Seq(ctx context.Context) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		for {
			page, ok, err := it.Next(ctx)
			if err != nil {
				yield(nil, err)

				return
			}

			if !ok || !yield(page, nil) {
				return
			}
		}
	}
}

// Records flattens the walk into individual records.
func (it *PageIterator) Records(ctx context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for page, err := range it.Seq(ctx) {
			if err != nil {
				yield(nil, err)

				return
			}

			for _, record := range page.Data() {
				if !yield(record, nil) {
					return
				}
			}
		}
	}
}

func (it *PageIterator) fetch(ctx context.Context, link string) (*Page, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	executor := it.current.executor
	if executor == nil {
		return nil, ErrExecutorRequired
	}

	payload, err := executor.Get(ctx, link, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching next page: %w", err)
	}

	page, err := NewPage(payload, executor)
	if err != nil {
		return nil, fmt.Errorf("parsing next page: %w", err)
	}

	return page, nil
}

// Response is a detail response holding a single record.
type Response struct {
	data Record
	raw  []byte
}

// NewResponse parses a detail payload of the form {"data": {...}}.
func NewResponse(payload []byte) (*Response, error) {
	env, err := decodeEnvelope(payload)
	if err != nil {
		return nil, err
	}

	if firstByte(env.Data) != '{' {
		return nil, fmt.Errorf("%w: %s", ErrNotADetailResponse, truncate(env.Data))
	}

	var record Record

	err = json.Unmarshal(env.Data, &record)
	if err != nil {
		return nil, fmt.Errorf("parsing response data: %w", err)
	}

	return &Response{data: record, raw: payload}, nil
}

// Data returns the record.
func (r *Response) Data() Record {
	return r.data
}

// Raw returns the payload the response was parsed from.
func (r *Response) Raw() []byte {
	return r.raw
}

// MarshalJSON renders the response back into the API envelope.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Data Record `json:"data"`
	}{Data: r.data})
}

func decodeEnvelope(payload []byte) (*envelope, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, ErrEmptyPayload
	}

	var env envelope

	err := json.Unmarshal(payload, &env)
	if err != nil {
		return nil, fmt.Errorf("parsing response envelope: %w", err)
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, ErrMissingData
	}

	return &env, nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}

	return trimmed[0]
}

func truncate(raw json.RawMessage) string {
	const limit = 64

	if len(raw) <= limit {
		return string(raw)
	}

	return string(raw[:limit]) + "..."
}
