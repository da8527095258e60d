package ports

import "context"

// SchemaProviderPort returns raw schema source material.  The provider is
// an opaque collaborator: it may fetch over the network or read a local
// file, and always hands back the decoded JSON Schema document covering
// all widget types.
type SchemaProviderPort interface {
	// FetchSchemaDocument retrieves and decodes the upstream schema.json.
	FetchSchemaDocument(ctx context.Context) (map[string]any, error)

	// Source identifies where documents come from, for provenance.
	Source() string
}
