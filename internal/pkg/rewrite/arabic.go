package rewrite

import (
	"sort"
	"strings"
)

// ContainsArabic reports whether s contains at least one character from the
// Arabic Unicode blocks (base block plus presentation forms).
func ContainsArabic(s string) bool {
	for _, r := range s {
		if (r >= 0x0600 && r <= 0x06FF) ||
			(r >= 0x0750 && r <= 0x077F) ||
			(r >= 0xFB50 && r <= 0xFDFF) ||
			(r >= 0xFE70 && r <= 0xFEFF) {
			return true
		}
	}
	return false
}

// NormalizeDigits rewrites Arabic-Indic (U+0660..U+0669) and Extended
// Arabic-Indic (U+06F0..U+06F9) digits to their ASCII equivalents. All other
// characters pass through unchanged.
func NormalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 0x0660 && r <= 0x0669:
			b.WriteRune('0' + (r - 0x0660))
		case r >= 0x06F0 && r <= 0x06F9:
			b.WriteRune('0' + (r - 0x06F0))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// expandArabicTerms appends English equivalents for recognized Arabic IT
// vocabulary and transliterated terms found in the query.
func expandArabicTerms(query string) string {
	var additions []string
	for term, english := range arabicTerms {
		if strings.Contains(query, term) && !containsFold(query, english) {
			additions = append(additions, english)
		}
	}
	for term, english := range arabiziTerms {
		if strings.Contains(query, term) && !containsFold(query, english) {
			additions = append(additions, english)
		}
	}
	if len(additions) == 0 {
		return query
	}
	sort.Strings(additions)
	return query + " " + strings.Join(additions, " ")
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
