package tui

import tea "github.com/charmbracelet/bubbletea"

// Action is the closed set of things a browsing keystroke can request.
// Create and Rename first pass through the text-input sub-state, Delete
// through the confirmation sub-state; everything else executes
// immediately against the current selection.
type Action int

const (
	ActionNone Action = iota
	ActionNavigateUp
	ActionNavigateDown
	ActionCreate
	ActionDelete
	ActionRename
	ActionAttach
	ActionDetach
	ActionNewWindow
	ActionRefresh
	ActionFilter
	ActionShowHelp
	ActionQuit
)

// dispatch maps a browsing-mode key event to an Action.
func dispatch(msg tea.KeyMsg) Action {
	switch msg.String() {
	case "up", "k":
		return ActionNavigateUp
	case "down", "j":
		return ActionNavigateDown
	case "n":
		return ActionCreate
	case "d":
		return ActionDelete
	case "r":
		return ActionRename
	case "a", "enter":
		return ActionAttach
	case "x":
		return ActionDetach
	case "w":
		return ActionNewWindow
	case "R":
		return ActionRefresh
	case "/":
		return ActionFilter
	case "h":
		return ActionShowHelp
	case "q", "ctrl+c":
		return ActionQuit
	}
	return ActionNone
}
