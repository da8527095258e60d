package core

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"yasb-schema/internal/ports"
	"yasb-schema/internal/types"
)

// Repairer reconstructs two-space indentation for YAML-like text whose
// leading whitespace was lost or mangled, typically by copy-pasting
// widget option snippets from documentation.  It walks the text top to
// bottom with a stack of context frames and consults the widget's
// hierarchy to decide where each key attaches.  Key order and values are
// never changed, and the repair never fails: the worst case is a
// best-effort result plus a residual parse diagnostic.
type Repairer struct {
	gate ports.YAMLGatePort
}

func NewRepairer(gate ports.YAMLGatePort) Repairer {
	return Repairer{gate: gate}
}

// contextFrame is one nesting guess: keys validated against Address
// attach at column Indent.  IsList marks a frame whose children are
// sequence items rather than mapping keys.  Frames snapshot their values
// at push time and are only ever popped, never mutated.
type contextFrame struct {
	Indent  int
	Address string
	IsList  bool
}

var (
	widgetTypeLineRe  = regexp.MustCompile(`^type:\s*["']?(\w+(?:\.\w+)+)`)
	optionsHeaderRe   = regexp.MustCompile(`^(\s*)options:\s*$`)
	partialFixPrefix  = "Partial fix applied. Remaining error: "
	residualErrPrefix = "Remaining error: "
)

// Fix repairs the indentation of text.  widgetType selects the governing
// hierarchy; when empty, a full widget paste supplies its own hint.  The
// second return value is empty when the result is valid YAML, otherwise
// a human-readable description of the residual parse error.
func (r Repairer) Fix(text string, widgetType string, store *Store) (string, string) {
	if strings.TrimSpace(text) == "" {
		return text, ""
	}

	lines := strings.Split(text, "\n")

	// Detect a full widget paste: a type: line plus a bare options: header.
	typeLine, optionsLine := -1, -1
	optionsIndent := 0
	detectedType := ""
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		if m := widgetTypeLineRe.FindStringSubmatch(stripped); m != nil {
			typeLine = i
			detectedType = m[1]
		}
		if m := optionsHeaderRe.FindStringSubmatch(line); m != nil {
			optionsLine = i
			optionsIndent = len(m[1])
			break
		}
	}
	if widgetType == "" {
		widgetType = detectedType
	}

	lookup := store.Lookup(widgetType)
	rootKeys := lookup.RootChildren()

	// No schema hierarchy available: fix tabs and validate, nothing more.
	if len(rootKeys) == 0 {
		fixed := strings.ReplaceAll(text, "\t", "  ")
		if parseErr := r.gate.ParseError(fixed); parseErr != nil {
			return fixed, residualErrPrefix + parseErr.String()
		}
		return fixed, ""
	}

	if typeLine >= 0 && optionsLine >= 0 {
		lines = extractOptionsLines(lines, optionsLine, optionsIndent)
	}

	lines = stripCommonIndent(lines)

	fixedLines := make([]string, 0, len(lines))
	stack := []contextFrame{{Indent: 0, Address: types.RootAddress}}

	for _, rawLine := range lines {
		stripped := strings.TrimSpace(rawLine)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			fixedLines = append(fixedLines, rawLine)
			continue
		}
		stripped = strings.TrimSpace(strings.ReplaceAll(rawLine, "\t", "  "))

		if strings.HasPrefix(stripped, "-") {
			stack = r.fixListItemLine(stripped, stack, lookup, &fixedLines)
			continue
		}
		if strings.Contains(stripped, ":") {
			stack = r.fixMappingKeyLine(stripped, stack, lookup, rootKeys, &fixedLines)
			continue
		}
		// Continuation line (multi-line scalar etc): keep at current depth.
		fixedLines = append(fixedLines, indentLine(stack[len(stack)-1].Indent, stripped))
	}

	fixedText := strings.Join(fixedLines, "\n")
	if parseErr := r.gate.ParseError(fixedText); parseErr != nil {
		log.Debug().Str("widget", widgetType).Str("error", parseErr.String()).Msg("indentation repair left a residual error")
		return fixedText, partialFixPrefix + parseErr.String()
	}
	return fixedText, ""
}

// fixListItemLine re-indents a "- ..." line.  A "- key: value" item is
// matched against enclosing list contexts from innermost outwards; the
// nearest list whose item schema accepts the key wins.
func (r Repairer) fixListItemLine(stripped string, stack []contextFrame, lookup Lookup, out *[]string) []contextFrame {
	itemContent := strings.TrimSpace(stripped[1:])
	itemKey := ""
	isFlowStyle := strings.HasPrefix(itemContent, "{") || strings.HasPrefix(itemContent, "[")
	colon := strings.Index(itemContent, ":")
	if itemContent != "" && colon >= 0 && !isFlowStyle {
		beforeColon := itemContent[:colon]
		// A colon inside an unclosed quote is part of the value.
		if strings.Count(beforeColon, `"`)%2 == 0 && strings.Count(beforeColon, `'`)%2 == 0 {
			itemKey = strings.TrimSpace(beforeColon)
		}
	}

	// Pop to the nearest enclosing list context that accepts this key.
	// The sentinel root frame always stays.
	for len(stack) > 1 {
		top := stack[len(stack)-1]
		if !top.IsList {
			stack = stack[:len(stack)-1]
		} else if itemKey != "" && !lookup.IsValidChild(itemKey, top.Address) {
			stack = stack[:len(stack)-1]
		} else {
			break
		}
	}

	top := stack[len(stack)-1]
	dashIndent := top.Indent
	*out = append(*out, indentLine(dashIndent, stripped))

	if itemKey == "" {
		// Plain scalar or flow-style entry: nothing new to track.
		return stack
	}

	afterColon := strings.TrimSpace(itemContent[colon+1:])
	hasValue := afterColon != "" && !strings.HasPrefix(afterColon, "#")

	// Siblings of itemKey inside the same list item attach after "- ".
	itemSchema := lookup.ListItemSchemaAddress(top.Address)
	stack = append(stack, contextFrame{Indent: dashIndent + 2, Address: itemSchema})

	if !hasValue {
		stack = append(stack, contextFrame{
			Indent:  dashIndent + 4,
			Address: itemKey,
			IsList:  lookup.KeyKind(itemKey, itemSchema) == types.NodeKindList,
		})
	}
	return stack
}

// fixMappingKeyLine re-indents a "key:" / "key: value" line.  Ambiguous
// reattachment is resolved in a fixed order: sibling of the current top
// frame first, then root-level key, then the innermost ancestor frame
// that accepts the key, and finally a best-effort emit at the current
// depth for unrecognized keys.
func (r Repairer) fixMappingKeyLine(stripped string, stack []contextFrame, lookup Lookup, rootKeys map[string]struct{}, out *[]string) []contextFrame {
	colon := strings.Index(stripped, ":")
	keyName := strings.TrimSpace(stripped[:colon])
	afterColon := strings.TrimSpace(stripped[colon+1:])
	hasValue := afterColon != "" && !strings.HasPrefix(afterColon, "#")

	top := stack[len(stack)-1]

	if !top.IsList && lookup.IsValidChild(keyName, top.Address) {
		// Sibling in the current context.
		*out = append(*out, indentLine(top.Indent, stripped))
		if !hasValue {
			stack = append(stack, contextFrame{
				Indent:  top.Indent + 2,
				Address: keyName,
				IsList:  lookup.KeyKind(keyName, top.Address) == types.NodeKindList,
			})
		}
		return stack
	}

	if _, isRoot := rootKeys[keyName]; isRoot {
		// Root-level key: rewind to the sentinel frame.
		stack = stack[:1]
		*out = append(*out, stripped)
		if !hasValue {
			stack = append(stack, contextFrame{
				Indent:  2,
				Address: keyName,
				IsList:  lookup.KeyKind(keyName, "") == types.NodeKindList,
			})
		}
		return stack
	}

	// Search outwards for an ancestor frame that accepts the key.
	for idx := len(stack) - 1; idx >= 0; idx-- {
		frame := stack[idx]
		if !lookup.IsValidChild(keyName, frame.Address) {
			continue
		}
		stack = stack[:idx+1]
		*out = append(*out, indentLine(frame.Indent, stripped))
		if !hasValue {
			stack = append(stack, contextFrame{
				Indent:  frame.Indent + 2,
				Address: keyName,
				IsList:  lookup.KeyKind(keyName, frame.Address) == types.NodeKindList,
			})
		}
		return stack
	}

	// Unrecognized key: keep the current depth so its own children do not
	// cascade further out of place.
	*out = append(*out, indentLine(top.Indent, stripped))
	if !hasValue {
		stack = append(stack, contextFrame{Indent: top.Indent + 2, Address: keyName})
	}
	return stack
}

// extractOptionsLines pulls the lines after an options: header out of a
// full widget paste and rebases them so the first level sits at column
// zero.  Lines indented deeper than the options header's first level get
// one extra two-space bump; a type:/name: line at or above the header's
// indent ends the block.
func extractOptionsLines(lines []string, optionsLine int, optionsIndent int) []string {
	var result []string
	expectedIndent := optionsIndent + 2
	mappingIndent := -1

	for _, line := range lines[optionsLine+1:] {
		if strings.TrimSpace(line) == "" {
			result = append(result, "")
			continue
		}
		currentIndent := leadingWhitespace(line)
		stripped := strings.TrimSpace(line)

		isKey := strings.Contains(stripped, ":") && !strings.HasPrefix(stripped, "-")
		keyName := ""
		if isKey {
			keyName = stripped[:strings.Index(stripped, ":")]
		}
		if isKey && (keyName == "type" || keyName == "name") && currentIndent <= optionsIndent {
			break
		}

		hasValue := false
		if isKey {
			afterColon := strings.TrimSpace(stripped[strings.Index(stripped, ":")+1:])
			hasValue = afterColon != "" && !strings.HasPrefix(afterColon, "#")
		}

		isRoot := isKey && (currentIndent == expectedIndent || currentIndent <= optionsIndent)
		if mappingIndent >= 0 && currentIndent > mappingIndent {
			isRoot = false
		}

		if isRoot {
			result = append(result, stripped)
			if !hasValue {
				mappingIndent = currentIndent
			} else {
				mappingIndent = -1
			}
		} else {
			result = append(result, "  "+stripped)
		}
	}
	return result
}

// stripCommonIndent removes the minimum leading indentation shared by
// all non-blank, non-comment lines, so a uniformly over-indented block
// starts the algorithm at column zero.
func stripCommonIndent(lines []string) []string {
	minIndent := -1
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		indent := leadingWhitespace(line)
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" || len(line) < minIndent {
			out[i] = line
			continue
		}
		out[i] = line[minIndent:]
	}
	return out
}

func leadingWhitespace(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func indentLine(indent int, content string) string {
	return strings.Repeat(" ", indent) + content
}
