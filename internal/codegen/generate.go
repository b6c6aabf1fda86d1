package codegen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/verte-zerg/wordsgen/internal/model"
	"github.com/verte-zerg/wordsgen/internal/wordlist"
)

var (
	// ErrInvalidConfig marks configuration values the pipeline cannot run with.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrStale is returned by Check when the output does not match the input.
	ErrStale = errors.New("generated output is stale")
	// ErrInvalidUTF8 is returned when a line of the word list is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("word list is not valid UTF-8")
)

// Result describes one rendered word table.
type Result struct {
	InputWords int
	Words      []string
	Content    []byte
	SHA256     string
}

// Short reports whether fewer words were emitted than requested.
func (r Result) Short(requested int) bool {
	return len(r.Words) < requested
}

// Validate checks cfg before any file is touched.
func Validate(cfg model.Config) error {
	if cfg.InputPath == "" {
		return fmt.Errorf("%w: input path is empty", ErrInvalidConfig)
	}
	if cfg.OutputPath == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	}
	if cfg.Count <= 0 {
		return fmt.Errorf("%w: count must be > 0", ErrInvalidConfig)
	}
	if !IsIdentifier(cfg.Name) {
		return fmt.Errorf("%w: %q is not a valid constant name", ErrInvalidConfig, cfg.Name)
	}
	return nil
}

// Build loads the input and renders the declaration in memory.
func Build(cfg model.Config) (Result, error) {
	if err := Validate(cfg); err != nil {
		return Result{}, err
	}
	words, err := wordlist.LoadWords(cfg.InputPath)
	if err != nil {
		return Result{}, err
	}
	for i, word := range words {
		if !utf8.ValidString(word) {
			return Result{}, fmt.Errorf("%w: %s line %d", ErrInvalidUTF8, cfg.InputPath, i+1)
		}
	}
	selected, err := Select(words, cfg.Count, cfg.Strict)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", cfg.InputPath, err)
	}
	content := []byte(Render(cfg.Name, selected))
	sum := sha256.Sum256(content)
	return Result{
		InputWords: len(words),
		Words:      selected,
		Content:    content,
		SHA256:     hex.EncodeToString(sum[:]),
	}, nil
}

// Generate runs the full pipeline and writes the output file. The output is
// only opened after the whole input has been read.
func Generate(cfg model.Config) (Result, error) {
	res, err := Build(cfg)
	if err != nil {
		return Result{}, err
	}
	if err := WriteOutput(cfg.OutputPath, res.Content); err != nil {
		return Result{}, err
	}
	return res, nil
}

// WriteOutput creates or truncates path and writes content.
func WriteOutput(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Check renders cfg in memory and compares it with the existing output.
// A missing or differing output yields an error wrapping ErrStale.
func Check(cfg model.Config) (Result, error) {
	res, err := Build(cfg)
	if err != nil {
		return Result{}, err
	}
	existing, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, fmt.Errorf("%w: %s does not exist", ErrStale, cfg.OutputPath)
		}
		return Result{}, fmt.Errorf("failed to read output: %w", err)
	}
	if !bytes.Equal(existing, res.Content) {
		return res, fmt.Errorf("%w: %s differs from %s", ErrStale, cfg.OutputPath, cfg.InputPath)
	}
	return res, nil
}
