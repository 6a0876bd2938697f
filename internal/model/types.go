// Package model holds the in-memory representation of tmux state:
// sessions, their windows, and the panes inside those windows.
//
// A Snapshot is one complete, internally consistent read of the tmux
// server. Snapshots are always replaced wholesale — the rest of the
// program never patches individual sessions into an older snapshot,
// so a Window or Pane can only ever reference entities from the same
// read.
package model

import (
	"fmt"
	"time"
)

// Session represents a tmux session.
type Session struct {
	// Name is the session name, unique on the server. Renames change it.
	Name string `json:"name"`
	// Attached reports whether at least one client is attached.
	Attached bool `json:"attached"`
	// Created is the session creation time.
	Created time.Time `json:"created"`
	// Width and Height are the session dimensions in cells.
	Width  int `json:"width"`
	Height int `json:"height"`
	// Windows are the session's windows in index order.
	Windows []Window `json:"windows,omitempty"`
}

// Window represents a tmux window inside a session. Window indices are
// renumbered by tmux at will, so they are re-read on every refresh and
// never cached across actions.
type Window struct {
	// Index is the window index within its session.
	Index int `json:"index"`
	// Name is the window name.
	Name string `json:"name"`
	// Active reports whether this is the session's current window.
	Active bool `json:"active"`
	// Panes are the window's panes in index order.
	Panes []Pane `json:"panes,omitempty"`
}

// Pane represents a tmux pane. Panes are display-only: no pane
// operations are exposed by this tool.
type Pane struct {
	// Index is the pane index within its window.
	Index int `json:"index"`
	// Active reports whether this is the window's current pane.
	Active bool `json:"active"`
	// Command is the command currently running in the pane.
	Command string `json:"command"`
	// Title is the pane title.
	Title string `json:"title"`
}

// Snapshot is one atomic read of all sessions on the server.
type Snapshot struct {
	// Sessions in the order tmux reported them.
	Sessions []Session `json:"sessions"`
	// Warnings lists per-line anomalies skipped while parsing (malformed
	// records, windows or panes for sessions that were not listed).
	Warnings []string `json:"warnings,omitempty"`
}

// Empty reports whether the snapshot contains no sessions.
func (s Snapshot) Empty() bool {
	return len(s.Sessions) == 0
}

// IndexOf returns the position of the named session, or -1.
func (s Snapshot) IndexOf(name string) int {
	for i, sess := range s.Sessions {
		if sess.Name == name {
			return i
		}
	}
	return -1
}

// Find returns the named session, or false.
func (s Snapshot) Find(name string) (Session, bool) {
	if i := s.IndexOf(name); i >= 0 {
		return s.Sessions[i], true
	}
	return Session{}, false
}

// WindowCount returns the number of windows in the session.
func (s Session) WindowCount() int {
	return len(s.Windows)
}

// ActiveWindow returns the session's current window, or false when the
// session has no windows (possible mid-teardown).
func (s Session) ActiveWindow() (Window, bool) {
	for _, w := range s.Windows {
		if w.Active {
			return w, true
		}
	}
	return Window{}, false
}

// Summary renders a one-line description used by the CLI list output.
func (s Session) Summary() string {
	marker := "○"
	if s.Attached {
		marker = "●"
	}
	noun := "windows"
	if s.WindowCount() == 1 {
		noun = "window"
	}
	return fmt.Sprintf("%s %s - %d %s", marker, s.Name, s.WindowCount(), noun)
}
