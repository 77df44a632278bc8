// Package picker is the terminal month chooser shown by "new-month" when no
// date is given on the command line.
package picker

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goodsign/monday"
)

type model struct {
	month  time.Time
	locale monday.Locale

	done     bool
	canceled bool

	width int

	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	helpStyle     lipgloss.Style
}

func newModel(initial time.Time, locale monday.Locale) model {
	return model{
		month:  time.Date(initial.Year(), initial.Month(), 1, 0, 0, 0, 0, time.UTC),
		locale: locale,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.month = m.month.AddDate(0, -1, 0)
		case "right", "l":
			m.month = m.month.AddDate(0, 1, 0)
		case "up", "k":
			m.month = m.month.AddDate(1, 0, 0)
		case "down", "j":
			m.month = m.month.AddDate(-1, 0, 0)
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.done || m.canceled {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.titleStyle.Width(m.width).Render("Start a new month"))
	b.WriteString("\n\n")

	// Neighbouring months give some orientation.
	var items []string
	for offset := -1; offset <= 1; offset++ {
		t := m.month.AddDate(0, offset, 0)
		label := monday.Format(t, "January 2006", m.locale)
		if offset == 0 {
			items = append(items, m.selectedStyle.Render(label))
		} else {
			items = append(items, m.normalStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, items...))
	b.WriteString("\n\n")

	help := fmt.Sprintf("←→: month | ↑↓: year | Enter: create %s | Esc: cancel", m.month.Format("2006-01"))
	b.WriteString(m.helpStyle.Render(help))

	return b.String()
}

// Run shows the picker starting at initial's month. ok is false when the
// user cancels.
func Run(initial time.Time, locale monday.Locale) (month time.Time, ok bool, err error) {
	p := tea.NewProgram(newModel(initial, locale))
	finalModel, err := p.Run()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("error running picker: %w", err)
	}

	final := finalModel.(model)
	if !final.done {
		return time.Time{}, false, nil
	}
	return final.month, true, nil
}
