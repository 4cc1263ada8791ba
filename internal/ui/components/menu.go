package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquiz/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Value is reported back when it is chosen.
type MenuItem struct {
	Label string
	Value string
}

// Menu is a vertical picker.
type Menu struct {
	Title    string
	Items    []MenuItem
	Selected int
	Chosen   bool
}

func NewMenu(title string, items []MenuItem) Menu {
	return Menu{Title: title, Items: items}
}

// NewMenuFromValues builds a menu whose labels are its values.
func NewMenuFromValues(title string, values []string) Menu {
	items := make([]MenuItem, len(values))
	for i, v := range values {
		items[i] = MenuItem{Label: v, Value: v}
	}
	return NewMenu(title, items)
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.Chosen {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	case "enter":
		if len(m.Items) > 0 {
			m.Chosen = true
		}
	}
	return m, nil
}

// Value returns the value under the cursor.
func (m Menu) Value() string {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return ""
	}
	return m.Items[m.Selected].Value
}

func (m Menu) View() string {
	var b strings.Builder
	if m.Title != "" {
		b.WriteString(theme.Title.Render(m.Title))
		b.WriteString("\n\n")
	}
	for i, item := range m.Items {
		if i == m.Selected {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ " + item.Label))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("    " + item.Label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
