package utils

// Ellipsis marks text cut by TruncateRunes.
const Ellipsis = "..."

// TruncateRunes keeps the first limit characters of text and appends an
// ellipsis when anything was cut. A limit <= 0 disables truncation.
func TruncateRunes(text string, limit int) (string, bool) {
	if limit <= 0 {
		return text, false
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text, false
	}
	return string(runes[:limit]) + Ellipsis, true
}
