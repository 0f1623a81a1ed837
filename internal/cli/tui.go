package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/fixturegraph/pkg/fixture"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// FixturePickerModel - Interactive fixture selection
// =============================================================================

// pickerItem is one selectable fixture.
type pickerItem struct {
	Name      string
	DependsOn []string
}

// FixturePickerModel is the bubbletea model for choosing which fixtures to
// load. Dependencies of chosen fixtures are loaded regardless, so the picker
// only selects seeds.
type FixturePickerModel struct {
	Items     []pickerItem
	Cursor    int
	Chosen    map[int]bool
	Confirmed bool
	Height    int
	Offset    int
}

// NewFixturePickerModel creates a picker over the fixtures of m.
func NewFixturePickerModel(m *fixture.Manifest) FixturePickerModel {
	items := make([]pickerItem, len(m.Fixtures))
	for i, f := range m.Fixtures {
		items[i] = pickerItem{Name: f.Name, DependsOn: f.DependsOn}
	}
	return FixturePickerModel{
		Items:  items,
		Chosen: make(map[int]bool),
		Height: 15,
	}
}

func (m FixturePickerModel) Init() tea.Cmd {
	return nil
}

func (m FixturePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Items) > 0 {
				m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
			}
		case "a":
			all := len(m.Selected()) < len(m.Items)
			for i := range m.Items {
				m.Chosen[i] = all
			}
		case "enter":
			if len(m.Selected()) == 0 {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// Selected returns the chosen fixture names in manifest order.
func (m FixturePickerModel) Selected() []string {
	var names []string
	for i, it := range m.Items {
		if m.Chosen[i] {
			names = append(names, it.Name)
		}
	}
	return names
}

func (m FixturePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Fixtures"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ load  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Chosen[i] {
			box = "[x]"
		}

		line := fmt.Sprintf("%s%s %-24s", cursor, box, it.Name)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		if len(it.DependsOn) > 0 {
			b.WriteString(listDimStyle.Render(" ← " + strings.Join(it.DependsOn, ", ")))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected · [%d/%d]", len(m.Selected()), m.Cursor+1, len(m.Items))))

	return b.String()
}

// pickFixtures runs the picker and returns the chosen names. Quitting
// without confirming returns context.Canceled.
func pickFixtures(ctx context.Context, m *fixture.Manifest) ([]string, error) {
	final, err := tea.NewProgram(NewFixturePickerModel(m), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	picker := final.(FixturePickerModel)
	if !picker.Confirmed {
		return nil, context.Canceled
	}
	return picker.Selected(), nil
}
