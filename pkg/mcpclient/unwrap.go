package mcpclient

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// ToolError carries the unwrapped detail of a failed tool call.
type ToolError struct {
	Detail string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool call failed: %s", e.Detail)
}

// UnwrapResult extracts the payload of a tool result, raising a ToolError
// when the result is flagged as an error.
func UnwrapResult(res *CallToolResult) (map[string]any, error) {
	payload := ExtractStructured(res)
	if res.IsError {
		detail := combinedText(res)
		if detail == "" {
			b, _ := json.Marshal(payload)
			detail = string(b)
		}
		return nil, &ToolError{Detail: detail}
	}
	return payload, nil
}

// ExtractStructured prefers the structured payload; when absent or empty
// it concatenates text blocks and parses them. Nothing is silently
// dropped: unparsable text comes back under a "text" key.
func ExtractStructured(res *CallToolResult) map[string]any {
	if len(res.StructuredContent) > 0 {
		return res.StructuredContent
	}

	combined := combinedText(res)
	if combined != "" {
		return ParseTextPayload(combined)
	}

	return map[string]any{}
}

func combinedText(res *CallToolResult) string {
	var texts []string
	for _, c := range res.Content {
		if c.Type == "text" && c.Text != "" {
			texts = append(texts, c.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// ParseTextPayload parses text as a structured object: strict JSON first,
// then a Python-literal fallback (single quotes, True/False/None). If
// both fail, the raw text is wrapped under a "text" key.
func ParseTextPayload(text string) map[string]any {
	text = strings.TrimSpace(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return obj
	}

	if converted, ok := literalToJSON(text); ok {
		obj = nil
		if err := json.Unmarshal([]byte(converted), &obj); err == nil && obj != nil {
			return obj
		}
	}

	return map[string]any{"text": text}
}

// literalToJSON rewrites a Python-style literal (single-quoted strings,
// True/False/None) into JSON. Returns false when the input contains
// anything that is not a plain literal.
func literalToJSON(s string) (string, bool) {
	var b strings.Builder
	runes := []rune(s)
	i := 0

	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '\'' || c == '"':
			quote := c
			i++
			var lit strings.Builder
			for i < len(runes) && runes[i] != quote {
				if runes[i] == '\\' && i+1 < len(runes) {
					next := runes[i+1]
					switch next {
					case 'n':
						lit.WriteRune('\n')
					case 't':
						lit.WriteRune('\t')
					default:
						lit.WriteRune(next)
					}
					i += 2
					continue
				}
				lit.WriteRune(runes[i])
				i++
			}
			if i >= len(runes) {
				return "", false // unterminated string
			}
			i++ // closing quote
			quoted, err := json.Marshal(lit.String())
			if err != nil {
				return "", false
			}
			b.Write(quoted)

		case unicode.IsLetter(c):
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			switch word := string(runes[start:i]); word {
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			case "None":
				b.WriteString("null")
			case "true", "false", "null":
				b.WriteString(word)
			default:
				return "", false // bare identifier, not a literal
			}

		default:
			b.WriteRune(c)
			i++
		}
	}

	return b.String(), true
}
