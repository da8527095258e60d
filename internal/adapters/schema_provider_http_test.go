package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaProviderFetchesDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.Header.Get("User-Agent"), "yasb-schema")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"$defs": {}, "properties": {"widgets": {}}}`))
	}))
	defer server.Close()

	provider := NewSchemaProviderHTTPAdapter(server.URL, 5)

	doc, err := provider.FetchSchemaDocument(context.Background())

	require.NoError(t, err)
	assert.Contains(t, doc, "properties")
	assert.Equal(t, server.URL, provider.Source())
}

func TestSchemaProviderNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	provider := NewSchemaProviderHTTPAdapter(server.URL, 5)

	_, err := provider.FetchSchemaDocument(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema download returned status")
}

func TestSchemaProviderInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	provider := NewSchemaProviderHTTPAdapter(server.URL, 5)

	_, err := provider.FetchSchemaDocument(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestSchemaProviderCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewSchemaProviderHTTPAdapter(server.URL, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.FetchSchemaDocument(ctx)

	assert.Error(t, err)
}

func TestSchemaProviderDefaults(t *testing.T) {
	provider := NewSchemaProviderHTTPAdapter("", 0)

	assert.Equal(t, DefaultSchemaURL, provider.URL)
	assert.Equal(t, defaultFetchTimeout, provider.Timeout)
}
