package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/famtree/pkg/layout"
)

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Preset table
// =============================================================================

// presetTable renders presets as a bordered table. The row for current is
// marked; cursor, when >= 0, highlights a row for the picker.
func presetTable(presets layout.Presets, current string, cursor int) string {
	names := presets.Names()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		cfg := presets[name]
		mark := ""
		if name == current {
			mark = "●"
		}
		maxRow := "—"
		if cfg.MaxRowWidth > 0 {
			maxRow = num(cfg.MaxRowWidth)
		}
		rows = append(rows, []string{
			mark,
			name,
			num(cfg.NodeWidth) + "×" + num(cfg.NodeHeight),
			num(cfg.HGap),
			num(cfg.VGap),
			num(cfg.SpouseGap),
			num(cfg.FamilyGap),
			num(cfg.Padding),
			maxRow,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Preset", "Card", "H gap", "V gap", "Spouse", "Family", "Padding", "Max row").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case row == cursor:
				return listSelectedStyle
			case col == 1:
				return listNormalStyle
			default:
				return listDimStyle
			}
		}).
		Render()
}

func num(v float64) string {
	return fmt.Sprintf("%g", v)
}

// =============================================================================
// presetPicker - Interactive preset selection
// =============================================================================

// presetPicker is the bubbletea model behind "presets pick".
type presetPicker struct {
	presets  layout.Presets
	names    []string
	current  string
	cursor   int
	selected string
	quit     bool
}

func newPresetPicker(presets layout.Presets, current string) presetPicker {
	m := presetPicker{presets: presets, names: presets.Names(), current: current}
	for i, name := range m.names {
		if name == current {
			m.cursor = i
		}
	}
	return m
}

func (m presetPicker) Init() tea.Cmd {
	return nil
}

func (m presetPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.names) > 0 {
			m.selected = m.names[m.cursor]
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m presetPicker) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Select Layout Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")
	b.WriteString(presetTable(m.presets, m.current, m.cursor))
	b.WriteString("\n")
	return b.String()
}
