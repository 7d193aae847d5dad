package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Extraction patterns in decreasing specificity: a currency-marked or
// unit-suffixed number, a grouped number, then any run of three or more
// digits as a last resort.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:NT\$|US\$|NTD|USD|\$|新台幣|新臺幣|美元)\s*[0-9][0-9,]*(?:\.[0-9]+)?\s*(?:萬元|萬|元)?|[0-9][0-9,]*(?:\.[0-9]+)?\s*(?:萬元|萬|元)`),
	regexp.MustCompile(`[0-9]{1,3}(?:,[0-9]{3})+`),
	regexp.MustCompile(`[0-9]{3,}`),
}

var nonDigit = regexp.MustCompile(`[^0-9]`)

// NormalizeAmount extracts a numeric amount from a noisy text fragment.
// Thousands separators and currency markers are stripped; a bare 萬 unit
// multiplies by ten thousand. Among everything that matches, the largest
// magnitude wins — on these documents the coverage or premium figure is
// decisively larger than page numbers, dates or other incidental digits.
// The second return is false when no pattern matches.
func NormalizeAmount(fragment string) (string, bool) {
	wan := strings.Contains(fragment, "萬") && !strings.Contains(fragment, "萬元")

	var best int64 = -1
	for _, pat := range amountPatterns {
		for _, match := range pat.FindAllString(fragment, -1) {
			digits := nonDigit.ReplaceAllString(match, "")
			if digits == "" {
				continue
			}
			n, err := strconv.ParseInt(digits, 10, 64)
			if err != nil {
				continue
			}
			if wan {
				n *= 10000
			}
			if n > best {
				best = n
			}
		}
	}
	if best < 0 {
		return "", false
	}
	return strconv.FormatInt(best, 10), true
}
