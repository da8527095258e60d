package ports

import "yasb-schema/internal/types"

// YAMLGatePort is the validation gate the repair engine consults to
// confirm its output parses.  Diagnostics are returned as values, never
// as Go errors: malformed user input is an expected condition.
type YAMLGatePort interface {
	// Validate checks text for tab characters and syntax errors.
	// An empty slice means the text is valid YAML.
	Validate(text string) []types.CodeError

	// ParseError returns the first syntax error in text, or nil when it
	// parses.  Unlike Validate it does not flag tab characters.
	ParseError(text string) *types.CodeError

	// Parse decodes text into a mapping.  The second value is a
	// human-readable diagnostic, empty on success.
	Parse(text string) (map[string]any, string)

	// Format re-encodes text with normalized two-space indentation.
	// Broken input is returned unchanged alongside a diagnostic.
	Format(text string) (string, string)
}
