// Package preview provides the Bubble Tea word table browser.
package preview

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wordsgen/internal/codegen"
	"github.com/verte-zerg/wordsgen/internal/model"
)

const (
	maxWordWidth    = 24
	maxLiteralWidth = 32
	chromeHeight    = 3
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	tableBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the Bubble Tea preview of a rendered word table.
type Model struct {
	config     model.Config
	inputWords int
	emitted    int
	table      table.Model

	width  int
	height int
}

// NewModel builds a preview for the words selected by res.
func NewModel(cfg model.Config, res codegen.Result) *Model {
	columns, rows := buildTableData(res.Words)
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(tableStyles()),
	)
	return &Model{
		config:     cfg,
		inputWords: res.InputWords,
		emitted:    len(res.Words),
		table:      t,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(maxInt(1, msg.Height-chromeHeight-2))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("%s  %s → %s", m.config.Name, m.config.InputPath, m.config.OutputPath))
	body := tableBorder.Render(m.table.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

// Cursor returns the index of the highlighted word.
func (m *Model) Cursor() int {
	return m.table.Cursor()
}

func (m *Model) renderFooter() string {
	status := footerStyle.Render(fmt.Sprintf("%d/%d words  (%d in input)  ↑/↓ move  q quit",
		m.table.Cursor()+1, m.emitted, m.inputWords))
	if m.emitted < m.config.Count {
		warn := warnStyle.Render(fmt.Sprintf("short list: %d of %d requested", m.emitted, m.config.Count))
		return status + "  " + warn
	}
	return status
}

func buildTableData(words []string) ([]table.Column, []table.Row) {
	indexWidth := maxInt(1, len(strconv.Itoa(len(words)-1)))
	wordWidth := runewidth.StringWidth("Word")
	literalWidth := runewidth.StringWidth("Literal")
	rows := make([]table.Row, 0, len(words))
	for i, word := range words {
		literal := codegen.QuoteLiteral(word)
		display := word
		if display == "" {
			display = "<blank>"
		}
		wordWidth = maxInt(wordWidth, runewidth.StringWidth(display))
		literalWidth = maxInt(literalWidth, runewidth.StringWidth(literal))
		rows = append(rows, table.Row{strconv.Itoa(i), display, literal})
	}
	columns := []table.Column{
		{Title: "#", Width: maxInt(indexWidth, 1)},
		{Title: "Word", Width: minInt(wordWidth, maxWordWidth)},
		{Title: "Literal", Width: minInt(literalWidth, maxLiteralWidth)},
	}
	return columns, rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(false)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#C89A3A")).
		Bold(false)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
