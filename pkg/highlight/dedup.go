package highlight

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Deduplicate drops records whose trimmed text has at most minLength
// characters, then keeps the first of the records whose texts are equal
// ignoring case. Order is preserved and the function is idempotent.
func Deduplicate(records []MatchRecord, minLength int) []MatchRecord {
	fold := cases.Fold()
	seen := make(map[string]bool, len(records))
	unique := make([]MatchRecord, 0, len(records))

	for _, r := range records {
		text := strings.TrimSpace(r.Text)
		if utf8.RuneCountInString(text) <= minLength {
			continue
		}
		key := fold.String(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}
	return unique
}
