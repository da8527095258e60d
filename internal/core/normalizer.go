package core

import (
	"sort"

	"github.com/rs/zerolog/log"

	"yasb-schema/internal/types"
)

// RawSchemaDoc is the tagged input to the normalizer.  Exactly one field
// is set: Declarative holds a per-field validation schema (the mapping
// extracted from a widget's VALIDATION_SCHEMA constant), JSONSchema a
// resolved-or-raw JSON Schema object.  Defs carries the document-level
// $defs table for JSON Schema inputs.
type RawSchemaDoc struct {
	Declarative map[string]any
	JSONSchema  map[string]any
	Defs        map[string]any
}

// Normalizer converts raw schema source material into the canonical
// hierarchy form consumed by the repair engine.  Malformed input never
// raises: it degrades to an empty hierarchy so downstream repair falls
// back to no-schema mode.
type Normalizer struct{}

func NewNormalizer() Normalizer {
	return Normalizer{}
}

// Normalize dispatches on the document shape and produces one hierarchy.
func (n Normalizer) Normalize(doc RawSchemaDoc) types.Hierarchy {
	switch {
	case doc.JSONSchema != nil:
		return n.FromJSONSchema(doc.JSONSchema, doc.Defs)
	case doc.Declarative != nil:
		return n.FromDeclarative(doc.Declarative)
	default:
		return types.Hierarchy{}
	}
}

// FromDeclarative builds a hierarchy from a per-field validation schema:
// a mapping of option name to {"type": ..., "schema": ...} entries.
func (n Normalizer) FromDeclarative(schema map[string]any) types.Hierarchy {
	if schema == nil {
		return types.Hierarchy{}
	}
	return buildDeclarativeHierarchy(schema, "")
}

// FromJSONSchema builds a hierarchy from a JSON Schema object describing
// one widget's options, using defs for $ref resolution.
func (n Normalizer) FromJSONSchema(schema map[string]any, defs map[string]any) types.Hierarchy {
	if schema == nil {
		return types.Hierarchy{}
	}
	return buildJSONSchemaHierarchy(schema, defs, "")
}

// NormalizeDocument takes the full upstream schema.json document covering
// every widget type and returns one hierarchy per widget.  Widgets whose
// type or options cannot be determined are skipped.
func (n Normalizer) NormalizeDocument(doc map[string]any) map[string]types.Hierarchy {
	out := make(map[string]types.Hierarchy)
	if doc == nil {
		return out
	}
	defs, _ := doc["$defs"].(map[string]any)

	for widgetType, optionsSchema := range extractWidgetOptionSchemas(doc, defs) {
		out[widgetType] = buildJSONSchemaHierarchy(optionsSchema, defs, "")
	}
	log.Debug().Int("widgets", len(out)).Msg("schema document normalized")
	return out
}

// extractWidgetOptionSchemas walks properties.widgets.additionalProperties
// .anyOf, which enumerates one schema per widget kind.  Each entry's type
// property resolves to a constant (or single-value enum) naming the
// widget, and its options property is the schema to normalize.
func extractWidgetOptionSchemas(doc map[string]any, defs map[string]any) map[string]map[string]any {
	widgetSchemas := make(map[string]map[string]any)

	properties, _ := doc["properties"].(map[string]any)
	widgets, _ := properties["widgets"].(map[string]any)
	additional, _ := widgets["additionalProperties"].(map[string]any)
	entries, _ := additional["anyOf"].([]any)

	for _, entry := range entries {
		entrySchema := resolveSchemaNode(entry, defs, nil)
		props, _ := entrySchema["properties"].(map[string]any)

		typeSchema := resolveSchemaNode(props["type"], defs, nil)
		widgetType, _ := typeSchema["const"].(string)
		if widgetType == "" {
			if enum, ok := typeSchema["enum"].([]any); ok && len(enum) == 1 {
				widgetType, _ = enum[0].(string)
			}
		}

		optionsSchema := resolveSchemaNode(props["options"], defs, nil)
		if widgetType != "" && len(optionsSchema) > 0 {
			widgetSchemas[widgetType] = optionsSchema
		}
	}
	return widgetSchemas
}

func buildDeclarativeHierarchy(schema map[string]any, parentPath string) types.Hierarchy {
	result := types.Hierarchy{}
	children := sortedKeys(schema)

	for _, key := range children {
		entry, ok := schema[key].(map[string]any)
		if !ok {
			continue
		}
		fullKey := joinPath(parentPath, key)

		if entryHasType(entry, "dict") {
			inner, ok := entry["schema"].(map[string]any)
			if !ok {
				continue
			}
			mergeHierarchy(result, buildDeclarativeHierarchy(inner, fullKey))
			result[fullKey] = types.HierarchyNode{Kind: types.NodeKindDict, Children: sortedKeys(inner)}
			continue
		}

		if entryHasType(entry, "list") {
			itemSpec, ok := entry["schema"].(map[string]any)
			if ok && entryHasType(itemSpec, "dict") {
				if itemFields, ok := itemSpec["schema"].(map[string]any); ok {
					mergeHierarchy(result, buildDeclarativeHierarchy(itemFields, fullKey))
					result[fullKey] = types.HierarchyNode{Kind: types.NodeKindList, Children: sortedKeys(itemFields)}
					continue
				}
			}
			// list of scalars, or list without a nested item schema
			result[fullKey] = types.HierarchyNode{Kind: types.NodeKindList, Children: []string{}}
		}
	}

	result[pathOrRoot(parentPath)] = types.HierarchyNode{Kind: types.NodeKindDict, Children: children}
	return result
}

func buildJSONSchemaHierarchy(schema map[string]any, defs map[string]any, parentPath string) types.Hierarchy {
	resolved := resolveSchemaNode(schema, defs, nil)
	properties, _ := resolved["properties"].(map[string]any)

	result := types.Hierarchy{}
	children := sortedKeys(properties)

	for _, key := range children {
		value, ok := properties[key].(map[string]any)
		if !ok {
			continue
		}
		fullKey := joinPath(parentPath, key)
		nested := resolveSchemaNode(value, defs, nil)

		if schemaIsObject(nested) {
			nestedProps, _ := nested["properties"].(map[string]any)
			mergeHierarchy(result, buildJSONSchemaHierarchy(nested, defs, fullKey))
			result[fullKey] = types.HierarchyNode{Kind: types.NodeKindDict, Children: sortedKeys(nestedProps)}
			continue
		}

		if schemaIsArray(nested) {
			itemSchema := resolveSchemaNode(nested["items"], defs, nil)
			if schemaIsObject(itemSchema) {
				itemProps, _ := itemSchema["properties"].(map[string]any)
				mergeHierarchy(result, buildJSONSchemaHierarchy(itemSchema, defs, fullKey))
				result[fullKey] = types.HierarchyNode{Kind: types.NodeKindList, Children: sortedKeys(itemProps)}
			} else {
				result[fullKey] = types.HierarchyNode{Kind: types.NodeKindList, Children: []string{}}
			}
		}
	}

	result[pathOrRoot(parentPath)] = types.HierarchyNode{Kind: types.NodeKindDict, Children: children}
	return result
}

// entryHasType reports whether a declarative entry's type field is, or
// includes, the given type name.  The field may be a single string or a
// list of allowed types.
func entryHasType(entry map[string]any, name string) bool {
	switch typed := entry["type"].(type) {
	case string:
		return typed == name
	case []any:
		for _, candidate := range typed {
			if candidate == name {
				return true
			}
		}
	}
	return false
}

func joinPath(parentPath string, key string) string {
	if parentPath == "" {
		return key
	}
	return parentPath + "." + key
}

func pathOrRoot(path string) string {
	if path == "" {
		return types.RootAddress
	}
	return path
}

func mergeHierarchy(dst types.Hierarchy, src types.Hierarchy) {
	for address, node := range src {
		dst[address] = node
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
