package memory

import (
	"fmt"
	"strings"
)

// EstimateTokens approximates the token count of text with the chars/4
// heuristic. Returns 0 for empty strings, at least 1 otherwise.
func EstimateTokens(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	if n/4 == 0 {
		return 1
	}
	return n / 4
}

// TrimToBudget keeps the newest lines of a memory history that fit within
// maxTokens. Entries are appended, so the newest are at the end. A budget
// of zero or less disables trimming. The second return value is the number
// of lines dropped.
func TrimToBudget(history string, maxTokens int) (string, int) {
	if maxTokens <= 0 || EstimateTokens(history) <= maxTokens {
		return history, 0
	}

	lines := strings.Split(history, "\n")
	used := 0
	start := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		// +1 for the newline joining it to the next line.
		cost := EstimateTokens(lines[i] + "\n")
		if used+cost > maxTokens {
			break
		}
		used += cost
		start = i
	}

	return strings.Join(lines[start:], "\n"), start
}

// BudgetNotice describes a trimmed history.
func BudgetNotice(dropped, maxTokens int) string {
	return fmt.Sprintf("(Oldest %d entries omitted to stay within ~%s tokens.)", dropped, formatNumber(maxTokens))
}

// formatNumber formats an integer with comma separators.
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}
