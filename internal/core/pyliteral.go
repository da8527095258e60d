package core

import (
	"regexp"
	"strconv"
	"strings"
)

// Widget source files declare their options as a VALIDATION_SCHEMA
// constant: a literal dictionary of field entries.  ExtractValidationSchema
// locates that assignment in raw source text and parses the literal into
// the generic map form the normalizer's declarative walk consumes.
//
// The literal grammar is a small subset of Python expressions: dict, list
// and tuple displays, string/number/bool/None constants, unary minus, and
// trailing commas.  Anything outside that subset aborts the parse and the
// function returns nil, which callers treat the same as an absent schema.

var validationSchemaRe = regexp.MustCompile(`(?m)^VALIDATION_SCHEMA\s*(?::[^=\n]*)?=\s*`)

// ExtractValidationSchema returns the parsed VALIDATION_SCHEMA literal,
// or nil when the constant is absent or not a well-formed literal dict.
func ExtractValidationSchema(source string) map[string]any {
	loc := validationSchemaRe.FindStringIndex(source)
	if loc == nil {
		return nil
	}
	parser := literalParser{input: source, pos: loc[1]}
	parser.skipTrivia()
	if parser.peek() != '{' {
		return nil
	}
	value, ok := parser.parseValue()
	if !ok {
		return nil
	}
	schema, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return schema
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// skipTrivia advances past whitespace, comments, and line continuations.
func (p *literalParser) skipTrivia() {
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '#':
			for p.pos < len(p.input) && p.input[p.pos] != '\n' {
				p.pos++
			}
		case c == '\\' && p.pos+1 < len(p.input) && p.input[p.pos+1] == '\n':
			p.pos += 2
		default:
			return
		}
	}
}

func (p *literalParser) parseValue() (any, bool) {
	p.skipTrivia()
	switch c := p.peek(); {
	case c == '{':
		return p.parseDict()
	case c == '[':
		return p.parseSequence('[', ']')
	case c == '(':
		return p.parseSequence('(', ')')
	case c == '"' || c == '\'':
		return p.parseString()
	case c == '-' || c == '+' || (c >= '0' && c <= '9') || c == '.':
		return p.parseNumber()
	default:
		return p.parseIdentifier()
	}
}

func (p *literalParser) parseDict() (any, bool) {
	p.pos++ // consume '{'
	out := make(map[string]any)
	for {
		p.skipTrivia()
		if p.peek() == '}' {
			p.pos++
			return out, true
		}
		key, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		keyStr, ok := key.(string)
		if !ok {
			return nil, false
		}
		p.skipTrivia()
		if p.peek() != ':' {
			return nil, false
		}
		p.pos++
		value, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		out[keyStr] = value
		p.skipTrivia()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		if p.peek() == '}' {
			p.pos++
			return out, true
		}
		return nil, false
	}
}

func (p *literalParser) parseSequence(open byte, close byte) (any, bool) {
	p.pos++ // consume opener
	out := []any{}
	for {
		p.skipTrivia()
		if p.peek() == close {
			p.pos++
			return out, true
		}
		value, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		out = append(out, value)
		p.skipTrivia()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		if p.peek() == close {
			p.pos++
			return out, true
		}
		return nil, false
	}
}

func (p *literalParser) parseString() (any, bool) {
	var builder strings.Builder
	for {
		segment, ok := p.parseStringSegment()
		if !ok {
			return nil, false
		}
		builder.WriteString(segment)
		// Python concatenates adjacent string literals.
		p.skipTrivia()
		c := p.peek()
		if c == '"' || c == '\'' {
			continue
		}
		if isStringPrefix(c) && p.hasQuoteAfterPrefix() {
			continue
		}
		return builder.String(), true
	}
}

func (p *literalParser) parseStringSegment() (string, bool) {
	raw := false
	for isStringPrefix(p.peek()) {
		if p.peek() == 'r' || p.peek() == 'R' {
			raw = true
		}
		p.pos++
	}
	quote := p.peek()
	if quote != '"' && quote != '\'' {
		return "", false
	}

	delim := string(quote)
	if strings.HasPrefix(p.input[p.pos:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	p.pos += len(delim)

	var builder strings.Builder
	for p.pos < len(p.input) {
		if strings.HasPrefix(p.input[p.pos:], delim) {
			p.pos += len(delim)
			return builder.String(), true
		}
		c := p.input[p.pos]
		if c == '\\' && !raw && p.pos+1 < len(p.input) {
			p.pos++
			builder.WriteString(unescape(p.input[p.pos]))
			p.pos++
			continue
		}
		builder.WriteByte(c)
		p.pos++
	}
	return "", false // unterminated
}

func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '0':
		return "\x00"
	default:
		return string(c)
	}
}

func isStringPrefix(c byte) bool {
	switch c {
	case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
		return true
	}
	return false
}

func (p *literalParser) hasQuoteAfterPrefix() bool {
	i := p.pos
	for i < len(p.input) && isStringPrefix(p.input[i]) {
		i++
	}
	return i < len(p.input) && (p.input[i] == '"' || p.input[i] == '\'')
}

func (p *literalParser) parseNumber() (any, bool) {
	start := p.pos
	if p.peek() == '-' || p.peek() == '+' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' || c == '_' {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			if c != '.' && p.pos < len(p.input) && (p.input[p.pos] == '-' || p.input[p.pos] == '+') {
				p.pos++
			}
			continue
		}
		break
	}
	text := strings.ReplaceAll(p.input[start:p.pos], "_", "")
	if text == "" || text == "-" || text == "+" {
		return nil, false
	}
	if !isFloat {
		if n, err := strconv.Atoi(text); err == nil {
			return n, true
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func (p *literalParser) parseIdentifier() (any, bool) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	switch p.input[start:p.pos] {
	case "True":
		return true, true
	case "False":
		return false, true
	case "None":
		return nil, true
	default:
		return nil, false
	}
}
