package cite

import (
	"strings"
	"unicode"
)

// SplitAuthors splits a flat comma-separated author string into
// per-author entries.
//
// This is a documented heuristic, not a name parser: a comma starts a
// new author only when the token after it is a capitalized word that
// is itself followed by a comma (the "Last," of the next entry).
// Internal commas in "Last, F." survive because initials are too short
// and are followed by a period, not a comma. Suffixes and multi-word
// last names can misparse; that is a known limitation the formatter
// does not try to fix.
func SplitAuthors(s string) []string {
	runes := []rune(s)
	var parts []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if runes[i] != ',' {
			continue
		}
		if startsNewAuthor(runes[i+1:]) {
			part := strings.TrimSpace(string(runes[start:i]))
			if part != "" {
				parts = append(parts, part)
			}
			// Advance past the comma and following spaces.
			j := i + 1
			for j < len(runes) && runes[j] == ' ' {
				j++
			}
			start = j
			i = j - 1
		}
	}

	last := strings.TrimSpace(string(runes[start:]))
	if last != "" {
		parts = append(parts, last)
	}
	return parts
}

// startsNewAuthor reports whether the runes after a comma begin a new
// "Last, First" entry: optional spaces, then a capitalized word of at
// least two letters immediately followed by a comma.
func startsNewAuthor(rest []rune) bool {
	i := 0
	for i < len(rest) && rest[i] == ' ' {
		i++
	}
	if i >= len(rest) || !unicode.IsUpper(rest[i]) {
		return false
	}
	wordStart := i
	for i < len(rest) && isNameRune(rest[i]) {
		i++
	}
	if i-wordStart < 2 {
		return false
	}
	return i < len(rest) && rest[i] == ','
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || r == '\'' || r == '-'
}

// APA 7 author-list truncation: beyond 20 authors, the first 19 are
// listed, then an ellipsis, then the final author.
const maxListedAuthors = 20

// FormatAuthorList renders an author slice in APA list style.
func FormatAuthorList(authors []string) string {
	switch {
	case len(authors) == 0:
		return ""
	case len(authors) == 1:
		return authors[0]
	case len(authors) == 2:
		return authors[0] + ", & " + authors[1]
	case len(authors) <= maxListedAuthors:
		head := strings.Join(authors[:len(authors)-1], ", ")
		return head + ", & " + authors[len(authors)-1]
	default:
		head := strings.Join(authors[:maxListedAuthors-1], ", ")
		return head + ", ... " + authors[len(authors)-1]
	}
}
