package codegen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrShortWordList is returned in strict mode when fewer words than requested are available.
var ErrShortWordList = errors.New("word list is shorter than requested count")

// Select returns the first count words. Without strict, a shorter list is
// returned whole; with strict it is an error.
func Select(words []string, count int, strict bool) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be > 0", ErrInvalidConfig)
	}
	if len(words) < count {
		if strict {
			return nil, fmt.Errorf("%w: have %d, need %d", ErrShortWordList, len(words), count)
		}
		return words, nil
	}
	return words[:count], nil
}

// Render returns the single-line constant declaration for words. The array
// size is the number of words given, so the declaration always compiles.
func Render(name string, words []string) string {
	var b strings.Builder
	b.WriteString("pub const ")
	b.WriteString(name)
	b.WriteString(": [&str; ")
	b.WriteString(strconv.Itoa(len(words)))
	b.WriteString("] = [")
	for i, word := range words {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(QuoteLiteral(word))
	}
	b.WriteString("];")
	return b.String()
}
