package core

import "fmt"

// ExtractWidgetOptions pulls the options mapping out of a parsed widget
// config.  It accepts a full definition ({type, options} at the root), a
// named wrapper ("clock_1: {type, options}"), or a bare options mapping.
// The second return value is a diagnostic, empty on success.
func ExtractWidgetOptions(parsed map[string]any, expectedType string) (map[string]any, string) {
	if parsed == nil {
		return map[string]any{}, ""
	}

	if _, hasType := parsed["type"]; hasType {
		if _, hasOptions := parsed["options"]; hasOptions {
			return optionsFromDefinition(parsed, expectedType)
		}
	}

	if len(parsed) == 1 {
		for _, value := range parsed {
			definition, ok := value.(map[string]any)
			if !ok {
				break
			}
			_, hasType := definition["type"]
			_, hasOptions := definition["options"]
			if hasType && hasOptions {
				return optionsFromDefinition(definition, expectedType)
			}
		}
	}

	// Already a bare options mapping.
	return parsed, ""
}

func optionsFromDefinition(definition map[string]any, expectedType string) (map[string]any, string) {
	if expectedType != "" && definition["type"] != expectedType {
		return nil, fmt.Sprintf("Widget type mismatch: expected '%s', got '%v'", expectedType, definition["type"])
	}
	options, ok := definition["options"].(map[string]any)
	if !ok {
		return map[string]any{}, ""
	}
	return options, ""
}
