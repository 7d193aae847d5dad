package constants

import (
	"strings"
)

// PolicyCategory is the canonical category for a stored policy.
type PolicyCategory string

const (
	Life          PolicyCategory = "壽險"
	Medical       PolicyCategory = "醫療險"
	Accident      PolicyCategory = "意外險"
	Investment    PolicyCategory = "投資型保險"
	Uncategorized PolicyCategory = "其他"
)

var allCategories = []PolicyCategory{
	Life,
	Medical,
	Accident,
	Investment,
	Uncategorized,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps free-text category input to a canonical category.
// The second return reports whether the input matched a known category.
func Canonicalize(input string) (PolicyCategory, bool) {
	if input == "" {
		return Uncategorized, false
	}

	normalized := strings.TrimSpace(input)
	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}

	// Common aliases seen on policy documents.
	switch {
	case strings.Contains(normalized, "壽"):
		return Life, true
	case strings.Contains(normalized, "醫療"), strings.Contains(normalized, "健康"):
		return Medical, true
	case strings.Contains(normalized, "意外"), strings.Contains(normalized, "傷害"):
		return Accident, true
	case strings.Contains(normalized, "投資"), strings.Contains(normalized, "變額"):
		return Investment, true
	}
	return Uncategorized, false
}
