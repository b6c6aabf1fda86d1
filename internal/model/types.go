// Package model defines shared data structures.
package model

import "time"

// Default values for the generation pipeline.
const (
	DefaultInputPath  = "words.txt"
	DefaultOutputPath = "words.rs"
	DefaultCount      = 1024
	DefaultName       = "WORDS"
)

// Config defines generation settings.
type Config struct {
	InputPath  string
	OutputPath string
	Count      int
	Name       string
	// Strict rejects word lists shorter than Count.
	Strict bool
}

// DefaultConfig returns the fixed pipeline settings: words.txt to words.rs, 1024 words named WORDS.
func DefaultConfig() Config {
	return Config{
		InputPath:  DefaultInputPath,
		OutputPath: DefaultOutputPath,
		Count:      DefaultCount,
		Name:       DefaultName,
	}
}

// Run captures one successful generation.
type Run struct {
	ID           int64     `yaml:"id"`
	StartedAt    time.Time `yaml:"started_at"`
	DurationMs   int64     `yaml:"duration_ms"`
	InputPath    string    `yaml:"input"`
	OutputPath   string    `yaml:"output"`
	Name         string    `yaml:"name"`
	Requested    int       `yaml:"requested"`
	Emitted      int       `yaml:"emitted"`
	InputWords   int       `yaml:"input_words"`
	OutputSHA256 string    `yaml:"output_sha256"`
}
