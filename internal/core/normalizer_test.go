package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yasb-schema/internal/types"
)

func mustJSON(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

// ---------------------------------------------------------------------------
// FromDeclarative
// ---------------------------------------------------------------------------

func TestFromDeclarativeFlatSchema(t *testing.T) {
	schema := map[string]any{
		"label":   map[string]any{"type": "string"},
		"enabled": map[string]any{"type": "boolean"},
	}

	hierarchy := NewNormalizer().FromDeclarative(schema)

	require.Contains(t, hierarchy, types.RootAddress)
	assert.ElementsMatch(t, []string{"enabled", "label"}, hierarchy[types.RootAddress].Children)
	assert.Equal(t, types.NodeKindDict, hierarchy[types.RootAddress].Kind)
}

func TestFromDeclarativeNestedDict(t *testing.T) {
	schema := map[string]any{
		"callbacks": map[string]any{
			"type": "dict",
			"schema": map[string]any{
				"on_left":  map[string]any{"type": "string"},
				"on_right": map[string]any{"type": "string"},
			},
		},
	}

	hierarchy := NewNormalizer().FromDeclarative(schema)

	require.Contains(t, hierarchy, "callbacks")
	assert.Equal(t, types.NodeKindDict, hierarchy["callbacks"].Kind)
	assert.ElementsMatch(t, []string{"on_left", "on_right"}, hierarchy["callbacks"].Children)
}

func TestFromDeclarativeListOfDicts(t *testing.T) {
	schema := map[string]any{
		"menu_list": map[string]any{
			"type": "list",
			"schema": map[string]any{
				"type": "dict",
				"schema": map[string]any{
					"title": map[string]any{"type": "string"},
					"path":  map[string]any{"type": "string"},
				},
			},
		},
	}

	hierarchy := NewNormalizer().FromDeclarative(schema)

	require.Contains(t, hierarchy, "menu_list")
	assert.Equal(t, types.NodeKindList, hierarchy["menu_list"].Kind)
	assert.ElementsMatch(t, []string{"path", "title"}, hierarchy["menu_list"].Children)
}

func TestFromDeclarativeListOfScalars(t *testing.T) {
	schema := map[string]any{
		"margin": map[string]any{
			"type":   "list",
			"schema": map[string]any{"type": "integer"},
		},
	}

	hierarchy := NewNormalizer().FromDeclarative(schema)

	require.Contains(t, hierarchy, "margin")
	assert.Equal(t, types.NodeKindList, hierarchy["margin"].Kind)
	assert.Empty(t, hierarchy["margin"].Children)
}

func TestFromDeclarativeTypeList(t *testing.T) {
	// The type field may hold a list of allowed types.
	schema := map[string]any{
		"icons": map[string]any{
			"type": []any{"dict", "string"},
			"schema": map[string]any{
				"open":   map[string]any{"type": "string"},
				"closed": map[string]any{"type": "string"},
			},
		},
	}

	hierarchy := NewNormalizer().FromDeclarative(schema)

	require.Contains(t, hierarchy, "icons")
	assert.Equal(t, types.NodeKindDict, hierarchy["icons"].Kind)
}

func TestFromDeclarativeNestedPathsAreComposite(t *testing.T) {
	schema := map[string]any{
		"providers": map[string]any{
			"type": "dict",
			"schema": map[string]any{
				"models": map[string]any{
					"type": "list",
					"schema": map[string]any{
						"type": "dict",
						"schema": map[string]any{
							"name": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}

	hierarchy := NewNormalizer().FromDeclarative(schema)

	require.Contains(t, hierarchy, "providers.models")
	assert.Equal(t, types.NodeKindList, hierarchy["providers.models"].Kind)
	assert.Equal(t, []string{"name"}, hierarchy["providers.models"].Children)
}

func TestFromDeclarativeNilSchema(t *testing.T) {
	assert.Empty(t, NewNormalizer().FromDeclarative(nil))
}

// ---------------------------------------------------------------------------
// FromJSONSchema
// ---------------------------------------------------------------------------

func TestFromJSONSchemaObjectProperties(t *testing.T) {
	doc := mustJSON(t, `{
		"type": "object",
		"properties": {
			"label": {"type": "string"},
			"callbacks": {
				"type": "object",
				"properties": {
					"on_left": {"type": "string"},
					"on_right": {"type": "string"}
				}
			}
		}
	}`)

	hierarchy := NewNormalizer().FromJSONSchema(doc, nil)

	assert.ElementsMatch(t, []string{"callbacks", "label"}, hierarchy[types.RootAddress].Children)
	require.Contains(t, hierarchy, "callbacks")
	assert.Equal(t, types.NodeKindDict, hierarchy["callbacks"].Kind)
	assert.ElementsMatch(t, []string{"on_left", "on_right"}, hierarchy["callbacks"].Children)
}

func TestFromJSONSchemaRefResolution(t *testing.T) {
	root := mustJSON(t, `{
		"$defs": {
			"Callbacks": {
				"type": "object",
				"properties": {"on_left": {"type": "string"}}
			}
		},
		"schema": {
			"type": "object",
			"properties": {"callbacks": {"$ref": "#/$defs/Callbacks"}}
		}
	}`)
	defs := root["$defs"].(map[string]any)
	schema := root["schema"].(map[string]any)

	hierarchy := NewNormalizer().FromJSONSchema(schema, defs)

	require.Contains(t, hierarchy, "callbacks")
	assert.Equal(t, []string{"on_left"}, hierarchy["callbacks"].Children)
}

func TestFromJSONSchemaRefCycleResolvesEmpty(t *testing.T) {
	root := mustJSON(t, `{
		"$defs": {
			"Node": {"$ref": "#/$defs/Node"}
		},
		"schema": {
			"type": "object",
			"properties": {"tree": {"$ref": "#/$defs/Node"}}
		}
	}`)
	defs := root["$defs"].(map[string]any)
	schema := root["schema"].(map[string]any)

	hierarchy := NewNormalizer().FromJSONSchema(schema, defs)

	// The cyclic property degrades to a leaf but still lists as a child.
	assert.Equal(t, []string{"tree"}, hierarchy[types.RootAddress].Children)
	assert.NotContains(t, hierarchy, "tree")
}

func TestFromJSONSchemaAllOfMergesProperties(t *testing.T) {
	doc := mustJSON(t, `{
		"allOf": [
			{"type": "object", "properties": {"label": {"type": "string"}}},
			{"properties": {"format": {"type": "string"}}}
		]
	}`)

	hierarchy := NewNormalizer().FromJSONSchema(doc, nil)

	assert.ElementsMatch(t, []string{"format", "label"}, hierarchy[types.RootAddress].Children)
}

func TestFromJSONSchemaAnyOfPrefersObjectVariant(t *testing.T) {
	doc := mustJSON(t, `{
		"type": "object",
		"properties": {
			"callbacks": {
				"anyOf": [
					{"type": "null"},
					{"type": "object", "properties": {"on_left": {"type": "string"}}}
				]
			}
		}
	}`)

	hierarchy := NewNormalizer().FromJSONSchema(doc, nil)

	require.Contains(t, hierarchy, "callbacks")
	assert.Equal(t, types.NodeKindDict, hierarchy["callbacks"].Kind)
	assert.Equal(t, []string{"on_left"}, hierarchy["callbacks"].Children)
}

func TestFromJSONSchemaAnyOfFallsBackToNonNull(t *testing.T) {
	doc := mustJSON(t, `{
		"type": "object",
		"properties": {
			"label": {
				"anyOf": [
					{"enum": [null]},
					{"type": "string"}
				]
			}
		}
	}`)

	hierarchy := NewNormalizer().FromJSONSchema(doc, nil)

	// String variant chosen: label is a leaf, no node of its own.
	assert.Equal(t, []string{"label"}, hierarchy[types.RootAddress].Children)
	assert.NotContains(t, hierarchy, "label")
}

func TestFromJSONSchemaArrayOfObjects(t *testing.T) {
	doc := mustJSON(t, `{
		"type": "object",
		"properties": {
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
	}`)

	hierarchy := NewNormalizer().FromJSONSchema(doc, nil)

	require.Contains(t, hierarchy, "menu_list")
	assert.Equal(t, types.NodeKindList, hierarchy["menu_list"].Kind)
	assert.ElementsMatch(t, []string{"path", "title"}, hierarchy["menu_list"].Children)
}

func TestFromJSONSchemaArrayOfScalars(t *testing.T) {
	doc := mustJSON(t, `{
		"type": "object",
		"properties": {
			"timezones": {"type": "array", "items": {"type": "string"}}
		}
	}`)

	hierarchy := NewNormalizer().FromJSONSchema(doc, nil)

	require.Contains(t, hierarchy, "timezones")
	assert.Equal(t, types.NodeKindList, hierarchy["timezones"].Kind)
	assert.Empty(t, hierarchy["timezones"].Children)
}

// ---------------------------------------------------------------------------
// NormalizeDocument
// ---------------------------------------------------------------------------

const sampleSchemaDocument = `{
	"$defs": {
		"ClockOptions": {
			"type": "object",
			"properties": {
				"label": {"type": "string"},
				"callbacks": {
					"type": "object",
					"properties": {
						"on_left": {"type": "string"},
						"on_right": {"type": "string"}
					}
				}
			}
		},
		"DiskOptions": {
			"type": "object",
			"properties": {
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
	},
	"properties": {
		"widgets": {
			"additionalProperties": {
				"anyOf": [
					{
						"type": "object",
						"properties": {
							"type": {"const": "yasb.clock.ClockWidget"},
							"options": {"$ref": "#/$defs/ClockOptions"}
						}
					},
					{
						"type": "object",
						"properties": {
							"type": {"enum": ["yasb.disk.DiskWidget"]},
							"options": {"$ref": "#/$defs/DiskOptions"}
						}
					}
				]
			}
		}
	}
}`

func TestNormalizeDocument(t *testing.T) {
	hierarchies := NewNormalizer().NormalizeDocument(mustJSON(t, sampleSchemaDocument))

	require.Len(t, hierarchies, 2)

	clock := hierarchies["yasb.clock.ClockWidget"]
	require.NotNil(t, clock)
	assert.ElementsMatch(t, []string{"callbacks", "label"}, clock.RootChildren())
	assert.Equal(t, types.NodeKindDict, clock["callbacks"].Kind)

	disk := hierarchies["yasb.disk.DiskWidget"]
	require.NotNil(t, disk)
	assert.Equal(t, types.NodeKindList, disk["menu_list"].Kind)
}

func TestNormalizeDocumentMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{name: "nil document", doc: nil},
		{name: "empty document", doc: map[string]any{}},
		{name: "widgets not a schema", doc: map[string]any{"properties": map[string]any{"widgets": "nope"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, NewNormalizer().NormalizeDocument(tt.doc))
		})
	}
}

func TestNormalizeDispatch(t *testing.T) {
	declarative := NewNormalizer().Normalize(RawSchemaDoc{
		Declarative: map[string]any{"label": map[string]any{"type": "string"}},
	})
	assert.Equal(t, []string{"label"}, declarative.RootChildren())

	jsonSchema := NewNormalizer().Normalize(RawSchemaDoc{
		JSONSchema: mustJSON(t, `{"type": "object", "properties": {"label": {"type": "string"}}}`),
	})
	assert.Equal(t, []string{"label"}, jsonSchema.RootChildren())

	assert.Empty(t, NewNormalizer().Normalize(RawSchemaDoc{}))
}
