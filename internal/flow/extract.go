// Package flow provides the conversation-to-decision orchestration for MindGuide.
package flow

import "strings"

// ExtractJSONObject locates the first balanced {...} span in free text and
// returns it. The scan is string- and escape-aware so braces inside JSON
// string values do not terminate the span early. Returns false when the text
// contains no balanced object starting at its first opening brace.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
