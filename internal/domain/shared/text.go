package shared

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// ContainsFold reports whether needle occurs in haystack under Unicode case folding.
// An empty needle always matches.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(folder.String(haystack), folder.String(needle))
}

// MatchesAnyFold reports whether needle occurs in any of the fields
func MatchesAnyFold(needle string, fields ...string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if ContainsFold(f, needle) {
			return true
		}
	}
	return false
}
