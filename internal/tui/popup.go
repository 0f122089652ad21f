package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// overlayPopup centers the API-key entry box over the dashboard. The
// input echoes masked; Enter submits, Esc exits the program.
func (m Model) overlayPopup() string {
	title := popupTitleStyle.Render("Connect " + m.popupFor.Label())
	hint := dimStyle.Render("enter: connect  ·  esc: quit")

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.popupInput.View(),
		"",
		hint,
	)
	box := popupStyle.Render(body)

	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
