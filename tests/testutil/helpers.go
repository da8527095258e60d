// Package testutil provides shared fixtures used across integration and
// unit test packages.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// SampleSchemaJSON is a trimmed-down upstream schema.json: two widget
// types, with $defs-based references, const and single-value enum type
// discriminators, nested objects, and arrays of both objects and
// scalars.
const SampleSchemaJSON = `{
  "$defs": {
    "callbacks": {
      "type": "object",
      "properties": {
        "on_left": {"type": "string"},
        "on_right": {"type": "string"}
      }
    }
  },
  "properties": {
    "widgets": {
      "additionalProperties": {
        "anyOf": [
          {
            "properties": {
              "type": {"const": "yasb.clock.ClockWidget"},
              "options": {
                "type": "object",
                "properties": {
                  "label": {"type": "string"},
                  "timezones": {"type": "array", "items": {"type": "string"}},
                  "callbacks": {"$ref": "#/$defs/callbacks"},
                  "menu_list": {
                    "type": "array",
                    "items": {
                      "type": "object",
                      "properties": {
                        "title": {"type": "string"},
                        "path": {"type": "string"}
                      }
                    }
                  }
                }
              }
            }
          },
          {
            "properties": {
              "type": {"enum": ["yasb.disk.DiskWidget"]},
              "options": {
                "type": "object",
                "properties": {
                  "volume_label": {"type": "string"}
                }
              }
            }
          }
        ]
      }
    }
  }
}`

// ServeSchema starts an HTTP server answering every request with the
// given schema document.  The server is shut down with the test.
func ServeSchema(t *testing.T, document string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(document))
	}))
	t.Cleanup(server.Close)
	return server
}
