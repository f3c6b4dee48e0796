package logic

import (
	"sort"
	"strings"
)

// SortEntities returns a sorted copy of items; the input is left untouched
func SortEntities[T Entity](items []T, mode SortMode) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	switch mode {
	case SortByTitle:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].GetTitle()) < strings.ToLower(sorted[j].GetTitle())
		})
	case SortByTitleDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].GetTitle()) > strings.ToLower(sorted[j].GetTitle())
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].GetID() < sorted[j].GetID()
		})
	}
	return sorted
}
