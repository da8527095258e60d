package core

import "strings"

// Helpers for resolving JSON Schema composition keywords ($ref, allOf,
// anyOf/oneOf) before the hierarchy walk treats a node as object, array,
// or leaf.  All functions operate on the generic decoded form
// (map[string]any / []any) of a schema.json document.

const defsRefPrefix = "#/$defs/"

func resolveRef(ref string, defs map[string]any) (map[string]any, bool) {
	if !strings.HasPrefix(ref, defsRefPrefix) {
		return nil, false
	}
	name := ref[len(defsRefPrefix):]
	target, ok := defs[name].(map[string]any)
	return target, ok
}

func schemaIsObject(schema map[string]any) bool {
	if schema["type"] == "object" {
		return true
	}
	_, ok := schema["properties"]
	return ok
}

func schemaIsArray(schema map[string]any) bool {
	if schema["type"] == "array" {
		return true
	}
	_, ok := schema["items"]
	return ok
}

func schemaIsNull(schema map[string]any) bool {
	if schema["type"] == "null" {
		return true
	}
	enum, ok := schema["enum"].([]any)
	return ok && len(enum) == 1 && enum[0] == nil
}

// mergeSchemaNodes combines two resolved schemas.  Properties merge per
// key with extra winning on collision; every other key from extra
// overwrites the base entirely.
func mergeSchemaNodes(base map[string]any, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(extra))
	for key, value := range base {
		merged[key] = value
	}

	properties := make(map[string]any)
	if baseProps, ok := base["properties"].(map[string]any); ok {
		for key, value := range baseProps {
			properties[key] = value
		}
	}
	if extraProps, ok := extra["properties"].(map[string]any); ok {
		for key, value := range extraProps {
			properties[key] = value
		}
	}
	if len(properties) > 0 {
		merged["properties"] = properties
	}

	for key, value := range extra {
		if key == "properties" {
			continue
		}
		merged[key] = value
	}
	return merged
}

// resolveSchemaNode flattens $ref, allOf, and anyOf/oneOf on a single
// schema node.  The seen set breaks $ref cycles: a ref re-encountered
// within its own resolution chain resolves to an empty schema.
func resolveSchemaNode(raw any, defs map[string]any, seen map[string]struct{}) map[string]any {
	schema, ok := raw.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	if seen == nil {
		seen = make(map[string]struct{})
	}

	if refValue, ok := schema["$ref"]; ok {
		ref, _ := refValue.(string)
		if _, cyclic := seen[ref]; cyclic {
			return map[string]any{}
		}
		seen[ref] = struct{}{}
		resolved, _ := resolveRef(ref, defs)
		return resolveSchemaNode(resolved, defs, seen)
	}

	if parts, ok := schema["allOf"].([]any); ok {
		merged := map[string]any{}
		for _, part := range parts {
			merged = mergeSchemaNodes(merged, resolveSchemaNode(part, defs, seen))
		}
		remainder := withoutKeys(schema, "allOf")
		return mergeSchemaNodes(merged, remainder)
	}

	if hasVariantKeyword(schema) {
		options, _ := schema["anyOf"].([]any)
		if options == nil {
			options, _ = schema["oneOf"].([]any)
		}
		best := chooseSchemaVariant(options, defs, seen)
		remainder := withoutKeys(schema, "anyOf", "oneOf")
		return mergeSchemaNodes(best, remainder)
	}

	return schema
}

func hasVariantKeyword(schema map[string]any) bool {
	if _, ok := schema["anyOf"]; ok {
		return true
	}
	_, ok := schema["oneOf"]
	return ok
}

// chooseSchemaVariant picks the most structurally useful anyOf/oneOf
// option: first an object or array schema, then any non-null schema,
// then the first option unconditionally.
func chooseSchemaVariant(options []any, defs map[string]any, seen map[string]struct{}) map[string]any {
	for _, option := range options {
		resolved := resolveSchemaNode(option, defs, copySeen(seen))
		if schemaIsObject(resolved) || schemaIsArray(resolved) {
			return resolved
		}
	}
	for _, option := range options {
		resolved := resolveSchemaNode(option, defs, copySeen(seen))
		if !schemaIsNull(resolved) {
			return resolved
		}
	}
	if len(options) > 0 {
		return resolveSchemaNode(options[0], defs, copySeen(seen))
	}
	return map[string]any{}
}

func copySeen(seen map[string]struct{}) map[string]struct{} {
	copied := make(map[string]struct{}, len(seen))
	for ref := range seen {
		copied[ref] = struct{}{}
	}
	return copied
}

func withoutKeys(schema map[string]any, drop ...string) map[string]any {
	out := make(map[string]any, len(schema))
	for key, value := range schema {
		skip := false
		for _, name := range drop {
			if key == name {
				skip = true
				break
			}
		}
		if !skip {
			out[key] = value
		}
	}
	return out
}
