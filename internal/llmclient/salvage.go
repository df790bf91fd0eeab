package llmclient

import "strings"

// SalvageJSON extracts the first balanced top-level JSON object from
// response, tolerating a markdown code-fence wrapper or explanatory
// prose around it. Returns "" if no balanced object is found.
func SalvageJSON(response string) string {
	text := stripCodeFence(response)

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// stripCodeFence removes a surrounding ```json ... ``` or ``` ... ```
// fence if the response is wrapped in one, a common LLM habit despite
// being told to return JSON only.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
