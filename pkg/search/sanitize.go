package search

import "strings"

const maxQueryLength = 100

// SanitizeFTSQuery escapes FTS5 special characters and wraps the input in
// quotes so FTS5 operators in user input are matched as literal text.
func SanitizeFTSQuery(input string) string {
	input = strings.TrimSpace(input)
	if len(input) > maxQueryLength {
		input = input[:maxQueryLength]
	}
	if input == "" {
		return ""
	}

	input = strings.ReplaceAll(input, `"`, `""`)
	return `"` + input + `"`
}

// BuildTermsQuery turns free text into an FTS5 query matching documents that
// contain every word. A word ending in "*" matches as a prefix.
func BuildTermsQuery(userInput string) string {
	userInput = strings.TrimSpace(userInput)
	if len(userInput) > maxQueryLength {
		userInput = userInput[:maxQueryLength]
	}

	terms := make([]string, 0)
	for _, word := range strings.Fields(userInput) {
		prefix := strings.HasSuffix(word, "*")
		word = strings.TrimRight(word, "*")
		term := SanitizeFTSQuery(word)
		if term == "" {
			continue
		}
		if prefix {
			term += "*"
		}
		terms = append(terms, term)
	}
	return strings.Join(terms, " ")
}
