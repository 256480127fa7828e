package aotclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/fivetwenty-io/aot-client/pkg/aotclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates client with config", func(t *testing.T) {
		t.Parallel()

		config := &aot.Config{APIEndpoint: "api.example.com/api/"}

		client, err := aotclient.New(context.Background(), config)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/api", client.Hostname())
		assert.Equal(t, "api.example.com/api/", config.APIEndpoint)
	})

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := aotclient.New(context.Background(), nil)
		require.ErrorIs(t, err, aot.ErrConfigRequired)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := aotclient.New(context.Background(), &aot.Config{})
		require.ErrorIs(t, err, aot.ErrAPIEndpointRequired)
	})

	t.Run("invalid settings", func(t *testing.T) {
		t.Parallel()

		_, err := aotclient.New(context.Background(), &aot.Config{
			APIEndpoint: "https://api.example.com",
			RetryMax:    -3,
		})
		require.ErrorIs(t, err, aot.ErrInvalidConfig)
	})
}

func TestNewDefault(t *testing.T) {
	t.Parallel()

	client, err := aotclient.NewDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://api.arrayofthings.org/api", client.Hostname())
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"api.arrayofthings.org/api":   "https://api.arrayofthings.org/api",
		"https://h/api/":              "https://h/api",
		"http://localhost:8080//":     "http://localhost:8080",
		"  https://h/api  ":           "https://h/api",
		"https://api.example.com/api": "https://api.example.com/api",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, aotclient.NormalizeEndpoint(input), input)
	}
}

func TestClientIntegration(t *testing.T) {
	t.Parallel()

	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests++

		writer.Header().Set("Content-Type", "application/json")

		switch request.URL.Path {
		case "/api/projects":
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"data": []map[string]string{{"slug": "chicago"}},
				"meta": map[string]interface{}{
					"links": map[string]interface{}{"previous": nil, "current": nil, "next": nil},
				},
			})
		default:
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"error":"Resource not found"}`))
		}
	}))
	defer server.Close()

	client, err := aotclient.NewWithEndpoint(context.Background(), server.URL+"/api/")
	require.NoError(t, err)

	page, err := client.Projects().List(context.Background(), nil)
	require.NoError(t, err)

	pages, err := page.Pages().All(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "chicago", pages[0].Data()[0]["slug"])

	_, err = client.Projects().Get(context.Background(), "atlantis")
	require.Error(t, err)
	assert.True(t, aot.IsNotFound(err))
	assert.Equal(t, 2, requests)
}
