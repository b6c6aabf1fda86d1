package wordfreq

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/wordsgen/internal/wordlist"
)

// Options controls word selection from a frequency list.
type Options struct {
	Limit  int
	MinLen int
	MaxLen int
}

// DefaultOptions mirrors the lengths that make usable passphrase words.
func DefaultOptions(limit int) Options {
	return Options{Limit: limit, MinLen: 2, MaxLen: 20}
}

type wordEntry struct {
	word  string
	score float64
}

// ExtractWordlist returns the most frequent words for lang, most frequent
// first. Words are NFC-normalized, filtered and de-duplicated.
func ExtractWordlist(wheelPath, lang, listType string, opts Options) ([]string, error) {
	if wheelPath == "" {
		return nil, fmt.Errorf("wheel path is required")
	}
	lang = strings.ToLower(lang)
	if lang == "" {
		return nil, fmt.Errorf("language is required")
	}
	if listType == "" {
		return nil, fmt.Errorf("word list type is required")
	}
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	entries, err := readWordEntries(wheelPath, lang, listType)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	keep := wordlist.All(
		wordlist.Alphabetic,
		wordlist.LengthBetween(opts.MinLen, opts.MaxLen),
		wordlist.FilterForLang(lang),
	)
	words := make([]string, 0, opts.Limit)
	seen := make(map[string]struct{})
	for _, entry := range entries {
		word := norm.NFC.String(strings.TrimSpace(entry.word))
		if _, ok := seen[word]; ok {
			continue
		}
		if !keep(word) {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
		if len(words) >= opts.Limit {
			break
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no words found for %s/%s", lang, listType)
	}
	return words, nil
}

func readWordEntries(wheelPath, lang, listType string) ([]wordEntry, error) {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	var dataFile *zip.File
	for _, file := range reader.File {
		fileLang, fileType := parseLanguageAndType(file.Name)
		if fileLang == lang && fileType == listType {
			dataFile = file
			break
		}
	}
	if dataFile == nil {
		return nil, fmt.Errorf("no data file found for %s/%s", lang, listType)
	}

	rc, err := dataFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	var r io.Reader = rc
	if strings.HasSuffix(dataFile.Name, ".gz") {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		r = gz
	}

	entries, err := decodeEntries(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dataFile.Name, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("wordfreq data contained no entries")
	}
	return entries, nil
}

func decodeEntries(r io.Reader) ([]wordEntry, error) {
	dec := msgpack.NewDecoder(r)
	dec.UseLooseInterfaceDecoding(true)
	dec.SetMapDecoder(func(d *msgpack.Decoder) (interface{}, error) {
		return d.DecodeUntypedMap()
	})
	payload, err := dec.DecodeInterface()
	if err != nil {
		return nil, fmt.Errorf("failed to decode msgpack: %w", err)
	}
	switch v := payload.(type) {
	case []interface{}:
		return entriesFromBins(v)
	case map[interface{}]interface{}:
		return entriesFromMap(v)
	default:
		return nil, fmt.Errorf("unsupported msgpack root type %T", payload)
	}
}

// entriesFromBins reads the cBpack layout: an optional header map followed
// by one list of words per centibel bin, most frequent bin first. A bin may
// also be an explicit [score, words] pair.
func entriesFromBins(items []interface{}) ([]wordEntry, error) {
	if len(items) > 0 {
		if _, ok := items[0].(map[interface{}]interface{}); ok {
			items = items[1:]
		}
	}
	var entries []wordEntry
	for i, item := range items {
		if pair, ok := item.([]interface{}); ok && len(pair) == 2 {
			if score, okScore := toFloat64(pair[0]); okScore {
				if words, okWords := toStringSlice(pair[1]); okWords {
					entries = appendWords(entries, words, score)
					continue
				}
			}
		}
		words, ok := toStringSlice(item)
		if !ok {
			return nil, fmt.Errorf("unsupported msgpack bin %T at %d", item, i)
		}
		entries = appendWords(entries, words, float64(-i))
	}
	return entries, nil
}

func entriesFromMap(items map[interface{}]interface{}) ([]wordEntry, error) {
	entries := make([]wordEntry, 0, len(items))
	for key, value := range items {
		word, okWord := toString(key)
		score, okScore := toFloat64(value)
		if okWord && okScore {
			entries = append(entries, wordEntry{word: word, score: score})
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no word entries parsed from map")
	}
	// Map iteration is random; fix the order among equal scores.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].word < entries[j].word
	})
	return entries, nil
}

func appendWords(entries []wordEntry, words []string, score float64) []wordEntry {
	for _, word := range words {
		entries = append(entries, wordEntry{word: word, score: score})
	}
	return entries
}

func toFloat64(v interface{}) (float64, bool) {
	switch num := v.(type) {
	case float64:
		return num, true
	case float32:
		return float64(num), true
	case int64:
		return float64(num), true
	case uint64:
		return float64(num), true
	case int:
		return float64(num), true
	default:
		return 0, false
	}
}

func toString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	default:
		return "", false
	}
}

func toStringSlice(v interface{}) ([]string, bool) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		str, ok := toString(item)
		if !ok {
			return nil, false
		}
		out = append(out, str)
	}
	return out, true
}
