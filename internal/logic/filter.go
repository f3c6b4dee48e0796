package logic

import (
	"strings"
)

// FilterByTitle keeps the items whose title contains term, ignoring case.
// A blank term returns items unchanged. Order is preserved.
func FilterByTitle[T Titled](items []T, term string) []T {
	if strings.TrimSpace(term) == "" {
		return items
	}

	query := strings.ToLower(term)
	result := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.GetTitle()), query) {
			result = append(result, item)
		}
	}
	return result
}

// MatchesTitle checks if a title matches the given search term
func MatchesTitle(title, term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(term))
}

// MatchSpan returns the byte range of the first case-insensitive match of
// term in title, for highlighting. ok is false when there is nothing to mark.
func MatchSpan(title, term string) (start, end int, ok bool) {
	if strings.TrimSpace(term) == "" {
		return 0, 0, false
	}
	lowerTitle := strings.ToLower(title)
	lowerTerm := strings.ToLower(term)
	// Lowercasing can change byte lengths outside ASCII
	if len(lowerTitle) != len(title) {
		return 0, 0, false
	}
	idx := strings.Index(lowerTitle, lowerTerm)
	if idx < 0 {
		return 0, 0, false
	}
	return idx, idx + len(lowerTerm), true
}
