package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/gorilla/mux"
)

// fakeAPI serves a small in-memory Array of Things API. Listings always
// advertise a next link, like the real API does, so walks end on an empty page.
type fakeAPI struct {
	t        *testing.T
	server   *httptest.Server
	pageSize int

	mu       sync.Mutex
	records  map[string][]aot.Record
	keys     map[string]string
	hits     map[string]int
	queries  map[string][]string
	failPage map[string]int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{
		t:        t,
		pageSize: 2,
		records:  make(map[string][]aot.Record),
		keys:     map[string]string{"projects": "slug", "nodes": "vsn", "sensors": "path"},
		hits:     make(map[string]int),
		queries:  make(map[string][]string),
		failPage: make(map[string]int),
	}

	router := mux.NewRouter()
	api.routes(router.PathPrefix("/api").Subrouter())

	api.server = httptest.NewServer(router)
	t.Cleanup(api.server.Close)

	return api
}

func (a *fakeAPI) routes(router *mux.Router) {
	for _, resource := range []string{"projects", "nodes", "sensors", "observations", "metrics"} {
		router.HandleFunc("/"+resource, a.handleList(resource)).Methods(http.MethodGet)
	}

	for _, resource := range []string{"projects", "nodes", "sensors"} {
		router.HandleFunc("/"+resource+"/{id}", a.handleDetail(resource)).Methods(http.MethodGet)
	}
}

func (a *fakeAPI) baseURL() string {
	return a.server.URL + "/api"
}

func (a *fakeAPI) seed(resource string, records ...aot.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records[resource] = append(a.records[resource], records...)
}

func (a *fakeAPI) failOnPage(resource string, page int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.failPage[resource] = page
}

func (a *fakeAPI) hitCount(resource string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.hits[resource]
}

func (a *fakeAPI) rawQueries(resource string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]string(nil), a.queries[resource]...)
}

func (a *fakeAPI) handleList(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := intParam(r, "page", 1)
		size := intParam(r, "size", a.pageSize)

		a.mu.Lock()
		a.hits[resource]++
		a.queries[resource] = append(a.queries[resource], r.URL.RawQuery)
		records := a.records[resource]
		fail := a.failPage[resource]
		a.mu.Unlock()

		if fail != 0 && fail == page {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})

			return
		}

		start := (page - 1) * size
		end := start + size

		var data []aot.Record

		switch {
		case start >= len(records):
			data = []aot.Record{}
		case end > len(records):
			data = records[start:]
		default:
			data = records[start:end]
		}

		link := func(p int) string {
			return fmt.Sprintf("%s/%s?page=%d&size=%d", a.baseURL(), resource, p, size)
		}

		var previous interface{}
		if page > 1 {
			previous = link(page - 1)
		}

		query := map[string]interface{}{}
		for key, values := range r.URL.Query() {
			query[key] = values
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": data,
			"meta": map[string]interface{}{
				"query": query,
				"links": map[string]interface{}{
					"previous": previous,
					"current":  link(page),
					"next":     link(page + 1),
				},
			},
		})
	}
}

func (a *fakeAPI) handleDetail(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		a.mu.Lock()
		a.hits[resource]++
		records := a.records[resource]
		key := a.keys[resource]
		a.mu.Unlock()

		for _, record := range records {
			if record[key] == id {
				writeJSON(w, http.StatusOK, map[string]interface{}{"data": record})

				return
			}
		}

		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Resource not found"})
	}
}

func intParam(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
