package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/wordsgen/internal/model"
)

const (
	terminalWidthBackup = 100
	digestWidth         = 12
)

var runHeaders = []string{"ID", "Started", "Input", "Output", "Name", "Words", "Digest"}

// WriteRunsTable writes runs as an aligned table. Paths are shortened to fit width when width > 0.
func WriteRunsTable(w io.Writer, runs []model.Run, width int) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs recorded")
		return err
	}
	pathWidth := 0
	if width > 0 {
		// id, timestamp, name, counts and digest take roughly 60 cells.
		pathWidth = (width - 60) / 2
		if pathWidth < 8 {
			pathWidth = 8
		}
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(run.InputPath, pathWidth),
			truncate(run.OutputPath, pathWidth),
			run.Name,
			formatCounts(run),
			shortDigest(run.OutputSHA256),
		})
	}
	for _, line := range formatTable(runHeaders, rows, map[int]bool{0: true, 5: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteRunsYAML writes runs as a YAML sequence.
func WriteRunsYAML(w io.Writer, runs []model.Run) error {
	if runs == nil {
		runs = []model.Run{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(runs); err != nil {
		return fmt.Errorf("failed to encode runs: %w", err)
	}
	return enc.Close()
}

// TerminalWidth returns the width of stdout or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func formatCounts(run model.Run) string {
	if run.Emitted < run.Requested {
		return fmt.Sprintf("%d/%d!", run.Emitted, run.Requested)
	}
	return fmt.Sprintf("%d/%d", run.Emitted, run.Requested)
}

func shortDigest(digest string) string {
	if len(digest) > digestWidth {
		return digest[:digestWidth]
	}
	return digest
}
