package tui

import (
	"fmt"
	"strings"
)

func (m *tuiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.mode == modeHelp {
		return m.viewHelp()
	}
	return m.viewSessions()
}

func (m *tuiModel) viewSessions() string {
	var b strings.Builder
	snap := m.store.Current()

	// Header: title + keybinding hints
	b.WriteString(m.styles.title.Render("muxman"))
	b.WriteString("  ")
	b.WriteString(m.styles.dim.Render("a/Enter=attach  n=new  d=kill  r=rename  /=filter  h=help  q=quit"))
	if m.filter != "" {
		b.WriteString("  ")
		b.WriteString(m.styles.warn.Render(fmt.Sprintf("filter: %s", m.filter)))
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		if m.filter != "" {
			b.WriteString(m.styles.dim.Render("  No sessions match the filter.\n"))
		} else {
			b.WriteString(m.styles.dim.Render("  No tmux sessions. Press 'n' to create one.\n"))
		}
	}

	// Layout widths: session list | detail panel
	nameWidth := 16
	for _, si := range m.visible {
		if len(snap.Sessions[si].Name)+18 > nameWidth {
			nameWidth = len(snap.Sessions[si].Name) + 18
		}
	}
	separator := " | "
	detailWidth := m.width - nameWidth - len(separator)
	if detailWidth < 20 {
		detailWidth = 20
	}

	detailLines := m.buildDetailPanel(detailWidth)
	sep := m.styles.header.Render(separator)

	panelHeight := m.height - 3
	if panelHeight < 3 {
		panelHeight = 3
	}

	row := 0
	for vi, si := range m.visible {
		if row >= panelHeight {
			break
		}
		sess := snap.Sessions[si]

		marker := m.styles.dim.Render("○")
		if sess.Attached {
			marker = m.styles.attached.Render("●")
		}
		noun := "windows"
		if sess.WindowCount() == 1 {
			noun = "window"
		}
		label := fmt.Sprintf("%s (%d %s)", sess.Name, sess.WindowCount(), noun)

		var nameCol string
		if vi == m.cursor {
			nameCol = m.styles.selected.Render(padRight("→ "+label, nameWidth))
		} else {
			nameCol = marker + " " + padRight(label, nameWidth-2)
		}

		detailCol := ""
		if row < len(detailLines) {
			detailCol = detailLines[row]
		}

		b.WriteString(nameCol)
		b.WriteString(sep)
		b.WriteString(detailCol)
		b.WriteString("\n")
		row++
	}

	// The detail panel may be taller than the session list.
	for row < panelHeight && row < len(detailLines) {
		b.WriteString(padRight("", nameWidth))
		b.WriteString(sep)
		b.WriteString(detailLines[row])
		b.WriteString("\n")
		row++
	}

	// Summary line
	summary := fmt.Sprintf("  %d sessions", len(snap.Sessions))
	if m.filter != "" {
		summary += fmt.Sprintf(" | %d shown", len(m.visible))
	}
	if len(snap.Warnings) > 0 {
		summary += fmt.Sprintf(" | %d listing warnings", len(snap.Warnings))
	}
	b.WriteString(m.styles.dim.Render(summary))
	b.WriteString("\n")

	// Status / prompt bar
	b.WriteString(m.statusBar())
	b.WriteString("\n")

	return b.String()
}

// statusBar renders the bottom line: a prompt while a sub-state is
// pending, otherwise the transient status message.
func (m *tuiModel) statusBar() string {
	switch m.mode {
	case modeInput:
		var prompt string
		switch m.purpose {
		case purposeCreate:
			prompt = "New session name"
		case purposeRename:
			prompt = fmt.Sprintf("Rename '%s' to", m.renameTarget)
		case purposeFilter:
			prompt = "Filter sessions"
		}
		return m.styles.warn.Render(fmt.Sprintf("  %s (Enter=confirm, Esc=cancel): ", prompt)) + m.textInput.View()
	case modeConfirm:
		return m.styles.warn.Render(fmt.Sprintf("  Kill session '%s'? (y/n)", m.confirmTarget))
	}
	if strings.HasPrefix(m.message, "Error") {
		return m.styles.err.Render("  " + m.message)
	}
	return m.styles.status.Render("  " + m.message)
}

// buildDetailPanel renders the windows and panes of the selected
// session. Panes are display-only; no pane operations exist here.
func (m *tuiModel) buildDetailPanel(width int) []string {
	sess, ok := m.selected()
	if !ok {
		return nil
	}

	var lines []string
	created := sess.Created.Format("2006-01-02 15:04")
	lines = append(lines, m.styles.text.Render(truncate(fmt.Sprintf("%s — created %s, %dx%d", sess.Name, created, sess.Width, sess.Height), width)))

	for _, w := range sess.Windows {
		active := " "
		if w.Active {
			active = "*"
		}
		noun := "panes"
		if len(w.Panes) == 1 {
			noun = "pane"
		}
		line := fmt.Sprintf("%s %d: %s (%d %s)", active, w.Index, w.Name, len(w.Panes), noun)
		if w.Active {
			lines = append(lines, m.styles.attached.Render(truncate(line, width)))
		} else {
			lines = append(lines, truncate(line, width))
		}

		for _, p := range w.Panes {
			paneLine := fmt.Sprintf("    %d.%d %s", w.Index, p.Index, p.Command)
			if p.Title != "" && p.Title != p.Command {
				paneLine += " — " + p.Title
			}
			lines = append(lines, m.styles.dim.Render(truncate(paneLine, width)))
		}
	}
	return lines
}

func (m *tuiModel) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("  muxman — key bindings"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"↑/k ↓/j", "navigate sessions"},
		{"a / Enter", "attach to the selected session"},
		{"n", "create a new session"},
		{"d", "kill the selected session (with confirmation)"},
		{"r", "rename the selected session"},
		{"w", "open a new window in the selected session"},
		{"x", "detach clients from the selected session"},
		{"/", "fuzzy-filter the session list"},
		{"R", "refresh the session list"},
		{"h", "toggle this help"},
		{"q", "quit"},
	}
	for _, kb := range bindings {
		b.WriteString("  ")
		b.WriteString(m.styles.text.Render(padRight(kb.key, 12)))
		b.WriteString(m.styles.dim.Render(kb.desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render("  Press any key to return."))
	b.WriteString("\n")
	return b.String()
}

// truncate cuts a string to at most maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// padRight pads a string with spaces to reach the desired visible width.
func padRight(s string, width int) string {
	visible := visibleLen(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// visibleLen returns the visible length of a string, ignoring ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		n++
	}
	return n
}
