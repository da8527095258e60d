package adapters

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"yasb-schema/internal/ports"
	"yasb-schema/internal/types"
)

// YAMLGateAdapter implements the validation gate on top of yaml.v3.
// Diagnostics come back as values: broken user input is an expected
// condition here, not an error path.
type YAMLGateAdapter struct{}

func NewYAMLGateAdapter() YAMLGateAdapter {
	return YAMLGateAdapter{}
}

// yaml.v3 reports positions as "line N:" inside the error text; there is
// no column information, so diagnostics default to column 1.
var yamlErrorLineRe = regexp.MustCompile(`line (\d+):\s*(.+)`)

// Validate flags tab characters and syntax errors with 1-based
// line/column positions.  Empty or whitespace-only text is valid.
func (a YAMLGateAdapter) Validate(text string) []types.CodeError {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var errs []types.CodeError
	for i, line := range strings.Split(text, "\n") {
		if col := strings.Index(line, "\t"); col >= 0 {
			errs = append(errs, types.CodeError{Line: i + 1, Column: col + 1, Message: "Tabs are not allowed, use spaces"})
		}
	}
	if parseErr := a.ParseError(text); parseErr != nil {
		errs = append(errs, *parseErr)
	}
	return errs
}

// ParseError returns the first syntax error in text, nil when it parses.
func (a YAMLGateAdapter) ParseError(text string) *types.CodeError {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var doc any
	err := yaml.Unmarshal([]byte(text), &doc)
	if err == nil {
		return nil
	}
	return codeErrorFromYAML(err)
}

// Parse decodes text into a mapping.  Empty text is an empty mapping; a
// non-mapping document or a syntax error yields a nil map plus a
// diagnostic.
func (a YAMLGateAdapter) Parse(text string) (map[string]any, string) {
	if strings.TrimSpace(text) == "" {
		return map[string]any{}, ""
	}
	var doc any
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, codeErrorFromYAML(err).String()
	}
	if doc == nil {
		return map[string]any{}, ""
	}
	mapping, ok := doc.(map[string]any)
	if !ok {
		return nil, "YAML must be a mapping/dictionary"
	}
	return mapping, ""
}

// Format re-encodes text with two-space indentation, preserving key
// order.  Broken input is returned unchanged alongside a diagnostic.
func (a YAMLGateAdapter) Format(text string) (string, string) {
	if strings.TrimSpace(text) == "" {
		return text, ""
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(text), &node); err != nil {
		return text, codeErrorFromYAML(err).String()
	}
	if node.Kind == 0 || len(node.Content) == 0 {
		return "", ""
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(node.Content[0]); err != nil {
		return text, err.Error()
	}
	if err := encoder.Close(); err != nil {
		return text, err.Error()
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", ""
}

func codeErrorFromYAML(err error) *types.CodeError {
	message := strings.TrimPrefix(err.Error(), "yaml: ")
	if m := yamlErrorLineRe.FindStringSubmatch(message); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &types.CodeError{Line: line, Column: 1, Message: m[2]}
	}
	return &types.CodeError{Line: 1, Column: 1, Message: message}
}

var _ ports.YAMLGatePort = YAMLGateAdapter{}
