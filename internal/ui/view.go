package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"tally/internal/config"
	"tally/internal/dates"
	"tally/internal/todo"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("245"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dialogStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Todos"))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf("Filter: %s • Sort: %s • %d incomplete / %d completed",
		m.filter.Label(), m.sort.Label(), m.counts.Incomplete, m.counts.Completed)))
	b.WriteString("\n\n")

	switch {
	case m.counts.Total == 0:
		b.WriteString(fmt.Sprintf("You have no todos yet. Press '%s' to add one.", m.cfg.Keys.Add))
		b.WriteString("\n")
	case len(m.view) == 0:
		b.WriteString("No todos match this filter.")
		b.WriteString("\n")
	default:
		b.WriteString(m.renderTodoList())
	}

	b.WriteString("\n")
	switch m.mode {
	case modeAdd:
		b.WriteString("Add todo: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeEdit:
		b.WriteString(fmt.Sprintf("Edit todo #%d: ", m.editID))
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.dialog != nil {
		b.WriteString(dialogStyle.Render(m.dialog.prompt))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderTodoList() string {
	var b strings.Builder
	for i, t := range m.view {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		text := t.Text
		if m.width > 0 {
			text = wrapText(text, m.width-textIndent)
		}
		if t.IsCompleted {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}

		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, text))
		b.WriteString(strings.Repeat(" ", textIndent))
		b.WriteString(metaStyle.Render(m.secondaryText(t)))
		b.WriteString("\n")
	}
	return b.String()
}

const textIndent = 6

// wrapText wraps long todo text so continuation lines sit under the text
// instead of under the checkbox.
func wrapText(text string, width int) string {
	if width < 10 {
		return text
	}
	lines := strings.Split(wordwrap.String(text, width), "\n")
	return strings.Join(lines, "\n"+strings.Repeat(" ", textIndent))
}

// secondaryText is the timestamp line under each todo.
func (m Model) secondaryText(t todo.Todo) string {
	var parts []string
	if t.CompletedAt != nil {
		parts = append(parts, "Completed "+dates.Friendly(*t.CompletedAt, m.renderedAt))
	}
	if t.LastUpdatedAt != nil {
		parts = append(parts, "Last updated "+dates.Friendly(*t.LastUpdatedAt, m.renderedAt))
	}
	parts = append(parts, "Created "+dates.Friendly(t.CreatedAt, m.renderedAt))
	return strings.Join(parts, " · ")
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s complete all • %s clear completed • %s filter • %s sort • %s detail • %s quit",
		k.Up, k.Down, k.Add, k.Edit, keyLabel(k.Toggle), k.Delete, k.CompleteAll, k.ClearCompleted, k.CycleFilter, k.CycleSort, k.Detail, k.Quit)
}
