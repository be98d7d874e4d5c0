package history

import "strings"

// SearchRecent filters entries down to those sharing at least one
// whitespace-delimited token with the query (case-insensitive substring match
// against both the stored query and response), and returns the most recent n
// matches in their original order.
func SearchRecent(entries []Entry, query string, n int) []Entry {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil
	}

	var matched []Entry
	for _, entry := range entries {
		haystack := strings.ToLower(entry.Query) + "\n" + strings.ToLower(entry.Response)
		for _, token := range tokens {
			if strings.Contains(haystack, token) {
				matched = append(matched, entry)
				break
			}
		}
	}

	if n > 0 && len(matched) > n {
		matched = matched[len(matched)-n:]
	}

	return matched
}

// RenderEntries formats entries the way they are fed to the prompt assembler:
// one "User: ...\nBot: ..." block per exchange, newline-joined.
func RenderEntries(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, entry := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("User: ")
		sb.WriteString(entry.Query)
		sb.WriteString("\nBot: ")
		sb.WriteString(entry.Response)
	}

	return sb.String()
}
