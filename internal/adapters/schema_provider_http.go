package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"yasb-schema/internal/ports"
)

// DefaultSchemaURL is the upstream location of the status bar's
// schema.json covering all widget types.
const DefaultSchemaURL = "https://raw.githubusercontent.com/amnweb/yasb/refs/heads/main/schema.json"

const defaultFetchTimeout = 60 * time.Second

// SchemaProviderHTTPAdapter fetches the raw schema document over HTTP.
type SchemaProviderHTTPAdapter struct {
	URL     string
	Timeout time.Duration
}

func NewSchemaProviderHTTPAdapter(url string, timeoutSec int) SchemaProviderHTTPAdapter {
	if url == "" {
		url = DefaultSchemaURL
	}
	timeout := defaultFetchTimeout
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	return SchemaProviderHTTPAdapter{URL: url, Timeout: timeout}
}

func (a SchemaProviderHTTPAdapter) Source() string {
	return a.URL
}

func (a SchemaProviderHTTPAdapter) FetchSchemaDocument(ctx context.Context) (map[string]any, error) {
	log.Info().Str("url", a.URL).Msg("downloading schema document")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid schema URL: " + a.URL).
			WithCause(err)
	}
	req.Header.Set("User-Agent", "yasb-schema/1.0")

	client := &http.Client{Timeout: a.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to download schema document").
			WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("schema download returned status " + resp.Status)
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema document is not valid JSON").
			WithCause(err)
	}

	log.Info().Msg("schema download complete")
	return doc, nil
}

var _ ports.SchemaProviderPort = SchemaProviderHTTPAdapter{}
