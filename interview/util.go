package interview

import "strings"

// clampScore keeps every derived score inside [0,100]; no score may leave
// this range even transiently.
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

// truncateQuote shortens a stored statement for on-air playback.
func truncateQuote(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	cut := strings.LastIndex(text[:max], " ")
	if cut <= 0 {
		cut = max
	}
	return text[:cut] + "..."
}

func containsAnyFold(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
