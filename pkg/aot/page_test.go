package aot_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// fakeExecutor serves canned payloads keyed by URL and records every fetch.
type fakeExecutor struct {
	payloads map[string]string
	errs     map[string]error
	fetched  []string
}

func (f *fakeExecutor) Get(_ context.Context, url string, _ []aot.QueryParam) ([]byte, error) {
	f.fetched = append(f.fetched, url)

	if err, ok := f.errs[url]; ok {
		return nil, err
	}

	payload, ok := f.payloads[url]
	if !ok {
		return nil, &aot.APIError{StatusCode: 404, URL: url}
	}

	return []byte(payload), nil
}

func listing(t *testing.T, next string, records ...aot.Record) string {
	t.Helper()

	links := map[string]interface{}{"previous": nil, "current": "x", "next": nil}
	if next != "" {
		links["next"] = next
	}

	if records == nil {
		records = []aot.Record{}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"data": records,
		"meta": map[string]interface{}{"query": map[string]interface{}{}, "links": links},
	})
	require.NoError(t, err)

	return string(payload)
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		wantLen int
		detail  bool
		wantErr error
	}{
		{name: "listing", payload: `{"data":[{"a":1},{"a":2}],"meta":{"links":{"next":null}}}`, wantLen: 2},
		{name: "listing without meta", payload: `{"data":[{"a":1}]}`, wantLen: 1},
		{name: "detail", payload: `{"data":{"slug":"chicago"}}`, wantLen: 1, detail: true},
		{name: "empty payload", payload: "  ", wantErr: aot.ErrEmptyPayload},
		{name: "no data", payload: `{"meta":{}}`, wantErr: aot.ErrMissingData},
		{name: "null data", payload: `{"data":null}`, wantErr: aot.ErrMissingData},
		{name: "scalar data", payload: `{"data":"nope"}`, wantErr: aot.ErrNotAListing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := aot.NewPage([]byte(tt.payload), nil)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, page.Len())
			assert.Equal(t, tt.detail, page.IsDetail())
			assert.Equal(t, []byte(tt.payload), page.Raw())
		})
	}

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()

		_, err := aot.NewPage([]byte(`{"data":[`), nil)
		require.Error(t, err)
	})
}

func TestPage_Links(t *testing.T) {
	t.Parallel()

	page, err := aot.NewPage([]byte(`{
		"data": [{"vsn": "004"}],
		"meta": {
			"query": {"project": "eq:chicago"},
			"links": {"previous": null, "current": "https://h/api/nodes?page=1", "next": "https://h/api/nodes?page=2"}
		}
	}`), nil)
	require.NoError(t, err)

	assert.True(t, page.HasMeta())

	_, ok := page.PreviousLink()
	assert.False(t, ok)

	current, ok := page.CurrentLink()
	require.True(t, ok)
	assert.Equal(t, "https://h/api/nodes?page=1", current)

	next, ok := page.NextLink()
	require.True(t, ok)
	assert.Equal(t, "https://h/api/nodes?page=2", next)

	query, ok := page.Query()
	require.True(t, ok)
	assert.Equal(t, "eq:chicago", query["project"])

	bare, err := aot.NewPage([]byte(`{"data":[]}`), nil)
	require.NoError(t, err)
	assert.False(t, bare.HasMeta())
	assert.Nil(t, bare.Meta())

	_, ok = bare.NextLink()
	assert.False(t, ok)

	_, ok = bare.Query()
	assert.False(t, ok)

	out, err := json.Marshal(bare)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(out))
}

//nolint:funlen // table of traversal scenarios
func TestPageIterator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("follows next links and drops the trailing empty page", func(t *testing.T) {
		t.Parallel()

		executor := &fakeExecutor{payloads: map[string]string{
			"/p2": listing(t, "/p3", aot.Record{"n": 2}),
			"/p3": listing(t, "/p4"),
		}}

		first, err := aot.NewPage([]byte(listing(t, "/p2", aot.Record{"n": 1})), executor)
		require.NoError(t, err)

		pages, err := first.Pages().All(ctx)
		require.NoError(t, err)

		require.Len(t, pages, 2)
		assert.Same(t, first, pages[0])
		assert.InDelta(t, 2, pages[1].Data()[0]["n"], 0)
		assert.Equal(t, []string{"/p2", "/p3"}, executor.fetched)
	})

	t.Run("page without meta yields itself only", func(t *testing.T) {
		t.Parallel()

		executor := &fakeExecutor{}

		first, err := aot.NewPage([]byte(`{"data":[{"n":1}]}`), executor)
		require.NoError(t, err)

		pages, err := first.Pages().All(ctx)
		require.NoError(t, err)
		assert.Len(t, pages, 1)
		assert.Empty(t, executor.fetched)
	})

	t.Run("detail payload yields one record and fetches nothing", func(t *testing.T) {
		t.Parallel()

		executor := &fakeExecutor{}

		first, err := aot.NewPage([]byte(`{"data":{"vsn":"004","address":"State St"}}`), executor)
		require.NoError(t, err)

		var records []aot.Record

		err = first.Pages().ForEach(ctx, func(p *aot.Page) error {
			records = append(records, p.Data()...)

			return nil
		})
		require.NoError(t, err)

		require.Len(t, records, 1)
		assert.Equal(t, "004", records[0]["vsn"])
		assert.Empty(t, executor.fetched)
	})

	t.Run("first page is yielded even when empty", func(t *testing.T) {
		t.Parallel()

		executor := &fakeExecutor{}

		first, err := aot.NewPage([]byte(listing(t, "/p2")), executor)
		require.NoError(t, err)

		it := first.Pages()

		page, ok, err := it.Next(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 0, page.Len())
		assert.Empty(t, executor.fetched)
	})

	t.Run("fetch errors propagate and end the walk", func(t *testing.T) {
		t.Parallel()

		executor := &fakeExecutor{errs: map[string]error{"/p2": errBoom}}

		first, err := aot.NewPage([]byte(listing(t, "/p2", aot.Record{"n": 1})), executor)
		require.NoError(t, err)

		it := first.Pages()

		_, ok, err := it.Next(ctx)
		require.NoError(t, err)
		require.True(t, ok)

		_, ok, err = it.Next(ctx)
		require.ErrorIs(t, err, errBoom)
		assert.False(t, ok)

		_, ok, err = it.Next(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, []string{"/p2"}, executor.fetched)
	})

	t.Run("API errors keep their status", func(t *testing.T) {
		t.Parallel()

		executor := &fakeExecutor{}

		first, err := aot.NewPage([]byte(listing(t, "/missing", aot.Record{"n": 1})), executor)
		require.NoError(t, err)

		pages, err := first.Pages().All(ctx)
		require.Error(t, err)
		assert.True(t, aot.IsNotFound(err))
		assert.Len(t, pages, 1)
	})

	t.Run("undecodable next page", func(t *testing.T) {
		t.Parallel()

		executor := &fakeExecutor{payloads: map[string]string{"/p2": `{"data":`}}

		first, err := aot.NewPage([]byte(listing(t, "/p2", aot.Record{"n": 1})), executor)
		require.NoError(t, err)

		_, err = first.Pages().All(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing next page")
	})

	t.Run("missing executor", func(t *testing.T) {
		t.Parallel()

		first, err := aot.NewPage([]byte(listing(t, "/p2", aot.Record{"n": 1})), nil)
		require.NoError(t, err)

		pages, err := first.Pages().All(ctx)
		require.ErrorIs(t, err, aot.ErrExecutorRequired)
		assert.Len(t, pages, 1)
	})

	t.Run("max pages", func(t *testing.T) {
		t.Parallel()

		executor := &fakeExecutor{payloads: map[string]string{
			"/p2": listing(t, "/p3", aot.Record{"n": 2}),
			"/p3": listing(t, "/p4", aot.Record{"n": 3}),
		}}

		first, err := aot.NewPage([]byte(listing(t, "/p2", aot.Record{"n": 1})), executor)
		require.NoError(t, err)

		pages, err := first.Pages(aot.WithMaxPages(2)).All(ctx)
		require.NoError(t, err)
		assert.Len(t, pages, 2)
		assert.Equal(t, []string{"/p2"}, executor.fetched)
	})

	t.Run("cancelled context stops before fetching", func(t *testing.T) {
		t.Parallel()

		executor := &fakeExecutor{payloads: map[string]string{"/p2": listing(t, "", aot.Record{"n": 2})}}

		first, err := aot.NewPage([]byte(listing(t, "/p2", aot.Record{"n": 1})), executor)
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		it := first.Pages()

		_, ok, err := it.Next(cancelled)
		require.NoError(t, err)
		require.True(t, ok)

		_, _, err = it.Next(cancelled)
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, executor.fetched)
	})

	t.Run("each Pages call starts a fresh walk", func(t *testing.T) {
		t.Parallel()

		executor := &fakeExecutor{payloads: map[string]string{"/p2": listing(t, "", aot.Record{"n": 2})}}

		first, err := aot.NewPage([]byte(listing(t, "/p2", aot.Record{"n": 1})), executor)
		require.NoError(t, err)

		it := first.Pages()

		pages, err := it.All(ctx)
		require.NoError(t, err)
		assert.Len(t, pages, 2)

		again, err := it.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, again)

		fresh, err := first.Pages().All(ctx)
		require.NoError(t, err)
		assert.Len(t, fresh, 2)
	})
}

func TestPageIterator_ForEach(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{payloads: map[string]string{
		"/p2": listing(t, "/p3", aot.Record{"n": 2}),
		"/p3": listing(t, "", aot.Record{"n": 3}),
	}}

	first, err := aot.NewPage([]byte(listing(t, "/p2", aot.Record{"n": 1})), executor)
	require.NoError(t, err)

	var seen int

	err = first.Pages().ForEach(context.Background(), func(page *aot.Page) error {
		seen++
		if seen == 2 {
			return errBoom
		}

		return nil
	})
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 2, seen)
	assert.Equal(t, []string{"/p2"}, executor.fetched)
}

func TestPageIterator_Seq(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{payloads: map[string]string{
		"/p2": listing(t, "/p3", aot.Record{"n": 3}, aot.Record{"n": 4}),
		"/p3": listing(t, "", aot.Record{"n": 5}),
	}}

	first, err := aot.NewPage([]byte(listing(t, "/p2", aot.Record{"n": 1}, aot.Record{"n": 2})), executor)
	require.NoError(t, err)

	t.Run("break stops fetching", func(t *testing.T) {
		var count int

		for page, err := range first.Pages().Seq(context.Background()) {
			require.NoError(t, err)
			require.NotNil(t, page)

			count++

			break
		}

		assert.Equal(t, 1, count)
		assert.Empty(t, executor.fetched)
	})

	t.Run("records are flattened in order", func(t *testing.T) {
		var values []float64

		for record, err := range first.Pages().Records(context.Background()) {
			require.NoError(t, err)

			values = append(values, record["n"].(float64))
		}

		assert.Equal(t, []float64{1, 2, 3, 4, 5}, values)
	})
}

func TestNewResponse(t *testing.T) {
	t.Parallel()

	resp, err := aot.NewResponse([]byte(`{"data":{"slug":"chicago","name":"Chicago"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Chicago", resp.Data()["name"])

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"slug":"chicago","name":"Chicago"}}`, string(out))

	_, err = aot.NewResponse([]byte(`{"data":[{"slug":"chicago"}]}`))
	require.ErrorIs(t, err, aot.ErrNotADetailResponse)

	_, err = aot.NewResponse(nil)
	require.ErrorIs(t, err, aot.ErrEmptyPayload)
}

func TestExecutorFunc(t *testing.T) {
	t.Parallel()

	var got []aot.QueryParam

	executor := aot.ExecutorFunc(func(_ context.Context, _ string, params []aot.QueryParam) ([]byte, error) {
		got = params

		return []byte(`{"data":[]}`), nil
	})

	payload, err := executor.Get(context.Background(), "/nodes", aot.NewFilter("vsn", aot.OpEq, "004").QueryParams())
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(payload))
	assert.Equal(t, []aot.QueryParam{{Key: "vsn", Value: "eq:004"}}, got)
}
