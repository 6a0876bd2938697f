package tmux

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/muxman/muxman/internal/model"
)

// Listing formats: fixed field order, tab-delimited, one record per
// line. Window and pane records lead with their owning session so that
// server-wide (-a) listings can be joined back onto the session list.
const (
	sessionFormat = "#{session_name}\t#{session_attached}\t#{session_windows}\t#{session_created}\t#{session_width}\t#{session_height}"
	windowFormat  = "#{session_name}\t#{window_index}\t#{window_name}\t#{window_active}\t#{window_panes}"
	paneFormat    = "#{session_name}\t#{window_index}\t#{pane_index}\t#{pane_active}\t#{pane_current_command}\t#{pane_title}"
)

// lines splits listing output into non-empty records.
func lines(out string) []string {
	var result []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}

// parseSessions parses list-sessions output. Malformed or duplicate
// lines are skipped with a warning; output with records but no single
// parseable session is a hard *ParseError.
func parseSessions(out string) (model.Snapshot, error) {
	var snap model.Snapshot
	records := lines(out)
	if len(records) == 0 {
		return snap, nil
	}

	seen := map[string]bool{}
	for _, line := range records {
		parts := strings.Split(line, delim)
		if len(parts) != 6 || parts[0] == "" {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("malformed session line %q", line))
			continue
		}
		attached, err1 := strconv.Atoi(parts[1])
		windows, err2 := strconv.Atoi(parts[2])
		created, err3 := strconv.ParseInt(parts[3], 10, 64)
		width, err4 := strconv.Atoi(parts[4])
		height, err5 := strconv.Atoi(parts[5])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || windows < 0 {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("malformed session line %q", line))
			continue
		}
		if seen[parts[0]] {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("duplicate session %q", parts[0]))
			continue
		}
		seen[parts[0]] = true
		snap.Sessions = append(snap.Sessions, model.Session{
			Name:     parts[0],
			Attached: attached > 0,
			Created:  time.Unix(created, 0),
			Width:    width,
			Height:   height,
			Windows:  make([]model.Window, 0, windows),
		})
	}

	if len(snap.Sessions) == 0 {
		return model.Snapshot{}, &ParseError{
			Detail: fmt.Sprintf("%d session line(s), none parseable", len(records)),
		}
	}
	return snap, nil
}

// attachWindows joins list-windows -a output onto the snapshot. Windows
// for sessions not in the snapshot are dropped with a warning; duplicate
// indices likewise. Indices are sorted afterwards so that out-of-order
// listing lines do not affect display order.
func attachWindows(snap *model.Snapshot, out string) {
	byName := map[string]*model.Session{}
	for i := range snap.Sessions {
		byName[snap.Sessions[i].Name] = &snap.Sessions[i]
	}

	for _, line := range lines(out) {
		parts := strings.Split(line, delim)
		if len(parts) != 5 {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("malformed window line %q", line))
			continue
		}
		index, err1 := strconv.Atoi(parts[1])
		panes, err2 := strconv.Atoi(parts[4])
		if err1 != nil || err2 != nil || panes < 0 {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("malformed window line %q", line))
			continue
		}
		sess, ok := byName[parts[0]]
		if !ok {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("window %d for unknown session %q", index, parts[0]))
			continue
		}
		if windowAt(sess, index) != nil {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("duplicate window %s:%d", parts[0], index))
			continue
		}
		sess.Windows = append(sess.Windows, model.Window{
			Index:  index,
			Name:   parts[2],
			Active: parts[3] == "1",
			Panes:  make([]model.Pane, 0, panes),
		})
	}

	for i := range snap.Sessions {
		ws := snap.Sessions[i].Windows
		sort.Slice(ws, func(a, b int) bool { return ws[a].Index < ws[b].Index })
	}
}

// attachPanes joins list-panes -a output onto the snapshot. Panes for
// sessions or windows not in the snapshot are dropped with a warning.
func attachPanes(snap *model.Snapshot, out string) {
	byName := map[string]*model.Session{}
	for i := range snap.Sessions {
		byName[snap.Sessions[i].Name] = &snap.Sessions[i]
	}

	for _, line := range lines(out) {
		// Title is the final field and is free-form user text, so it may
		// itself contain the delimiter; cap the split instead of rejecting.
		parts := strings.SplitN(line, delim, 6)
		if len(parts) != 6 {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("malformed pane line %q", line))
			continue
		}
		windowIdx, err1 := strconv.Atoi(parts[1])
		paneIdx, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("malformed pane line %q", line))
			continue
		}
		sess, ok := byName[parts[0]]
		if !ok {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("pane %s:%d.%d for unknown session", parts[0], windowIdx, paneIdx))
			continue
		}
		win := windowAt(sess, windowIdx)
		if win == nil {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("pane %s:%d.%d for unknown window", parts[0], windowIdx, paneIdx))
			continue
		}
		win.Panes = append(win.Panes, model.Pane{
			Index:   paneIdx,
			Active:  parts[3] == "1",
			Command: parts[4],
			Title:   parts[5],
		})
	}

	for i := range snap.Sessions {
		for j := range snap.Sessions[i].Windows {
			ps := snap.Sessions[i].Windows[j].Panes
			sort.Slice(ps, func(a, b int) bool { return ps[a].Index < ps[b].Index })
		}
	}
}

// windowAt returns the session's window with the given index, or nil.
func windowAt(sess *model.Session, index int) *model.Window {
	for i := range sess.Windows {
		if sess.Windows[i].Index == index {
			return &sess.Windows[i]
		}
	}
	return nil
}
