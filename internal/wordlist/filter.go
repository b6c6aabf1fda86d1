package wordlist

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for word lists.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return filterEnglishASCII
	default:
		return func(string) bool { return true }
	}
}

// LengthBetween keeps words whose rune count is within [minLen, maxLen].
// A non-positive maxLen disables the upper bound.
func LengthBetween(minLen, maxLen int) FilterFunc {
	return func(word string) bool {
		n := utf8.RuneCountInString(word)
		if n < minLen {
			return false
		}
		return maxLen <= 0 || n <= maxLen
	}
}

// Alphabetic keeps non-empty words made of letters only.
func Alphabetic(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// All combines filters; a word is kept only when every filter keeps it.
func All(filters ...FilterFunc) FilterFunc {
	return func(word string) bool {
		for _, f := range filters {
			if f != nil && !f(word) {
				return false
			}
		}
		return true
	}
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
