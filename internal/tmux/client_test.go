package tmux

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
)

// fakeRunner replays scripted responses in call order and records every
// invocation.
type fakeRunner struct {
	responses []fakeResponse
	calls     [][]string
}

type fakeResponse struct {
	stdout string
	stderr string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if len(f.responses) == 0 {
		return "", "", nil
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.stdout, r.stderr, r.err
}

// exitFailure mimics tmux running and exiting non-zero.
func exitFailure(stderr string) fakeResponse {
	return fakeResponse{stderr: stderr, err: errors.New("exit status 1")}
}

// launchFailure mimics the tmux binary being missing.
func launchFailure() fakeResponse {
	return fakeResponse{err: &exec.Error{Name: "tmux", Err: exec.ErrNotFound}}
}

func newTestClient(responses ...fakeResponse) (*Client, *fakeRunner) {
	r := &fakeRunner{responses: responses}
	return NewClientWithRunner(Config{}, r), r
}

// listing builds tab-delimited output from rows.
func listing(rows ...string) string {
	return strings.Join(rows, "\n") + "\n"
}

func sessionRow(name string, attached, windows int) string {
	return fmt.Sprintf("%s\t%d\t%d\t1700000000\t80\t24", name, attached, windows)
}

func TestListSessions_AssemblesSnapshot(t *testing.T) {
	c, _ := newTestClient(
		fakeResponse{stdout: listing(
			sessionRow("work", 1, 2),
			sessionRow("scratch", 0, 1),
		)},
		fakeResponse{stdout: listing(
			"work\t0\teditor\t1\t2",
			"work\t1\tlogs\t0\t1",
			"scratch\t0\tshell\t1\t1",
		)},
		fakeResponse{stdout: listing(
			"work\t0\t0\t1\tnvim\tmain.go",
			"work\t0\t1\t0\tbash\t",
			"work\t1\t0\t1\ttail\t",
			"scratch\t0\t0\t1\tzsh\t",
		)},
	)

	snap, err := c.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(snap.Sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(snap.Sessions))
	}
	if len(snap.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", snap.Warnings)
	}

	work := snap.Sessions[0]
	if work.Name != "work" || !work.Attached {
		t.Errorf("work session: got %+v", work)
	}
	if work.Width != 80 || work.Height != 24 {
		t.Errorf("work dimensions: got %dx%d, want 80x24", work.Width, work.Height)
	}
	if len(work.Windows) != 2 {
		t.Fatalf("work windows: got %d, want 2", len(work.Windows))
	}
	if work.Windows[0].Name != "editor" || !work.Windows[0].Active {
		t.Errorf("work window 0: got %+v", work.Windows[0])
	}
	if len(work.Windows[0].Panes) != 2 {
		t.Fatalf("work:0 panes: got %d, want 2", len(work.Windows[0].Panes))
	}
	if work.Windows[0].Panes[0].Command != "nvim" || work.Windows[0].Panes[0].Title != "main.go" {
		t.Errorf("work:0.0 pane: got %+v", work.Windows[0].Panes[0])
	}

	scratch := snap.Sessions[1]
	if scratch.Attached {
		t.Error("scratch should not be attached")
	}
	if len(scratch.Windows) != 1 || len(scratch.Windows[0].Panes) != 1 {
		t.Errorf("scratch topology: got %+v", scratch.Windows)
	}
}

func TestListSessions_SkipsMalformedLines(t *testing.T) {
	c, _ := newTestClient(
		fakeResponse{stdout: listing(
			sessionRow("good", 0, 1),
			"missing\tfields",
			"bad\tnotanum\t1\t1700000000\t80\t24",
			"negative\t0\t-1\t1700000000\t80\t24",
		)},
		fakeResponse{stdout: listing(
			"good\t0\tshell\t1\t1",
			"good\t1\tshell\t1\t-3",
		)},
		fakeResponse{stdout: listing("good\t0\t0\t1\tbash\t")},
	)

	snap, err := c.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(snap.Sessions) != 1 || snap.Sessions[0].Name != "good" {
		t.Fatalf("got sessions %+v, want only %q", snap.Sessions, "good")
	}
	if len(snap.Sessions[0].Windows) != 1 {
		t.Fatalf("got windows %+v, want only index 0", snap.Sessions[0].Windows)
	}
	if len(snap.Warnings) != 4 {
		t.Errorf("got %d warnings, want 4: %v", len(snap.Warnings), snap.Warnings)
	}
}

func TestListSessions_KeepsPaneTitleContainingDelimiter(t *testing.T) {
	c, _ := newTestClient(
		fakeResponse{stdout: listing(sessionRow("work", 0, 1))},
		fakeResponse{stdout: listing("work\t0\tshell\t1\t1")},
		fakeResponse{stdout: listing("work\t0\t0\t1\tbash\ta\ttabbed\ttitle")},
	)

	snap, err := c.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	panes := snap.Sessions[0].Windows[0].Panes
	if len(panes) != 1 {
		t.Fatalf("got %d panes, want 1: %v", len(panes), snap.Warnings)
	}
	if panes[0].Title != "a\ttabbed\ttitle" {
		t.Errorf("title: got %q, want the full tail", panes[0].Title)
	}
	if len(snap.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", snap.Warnings)
	}
}

func TestListSessions_DropsOrphanWindowsAndPanes(t *testing.T) {
	c, _ := newTestClient(
		fakeResponse{stdout: listing(sessionRow("alive", 0, 1))},
		fakeResponse{stdout: listing(
			"alive\t0\tshell\t1\t1",
			"ghost\t0\tshell\t1\t1",
		)},
		fakeResponse{stdout: listing(
			"alive\t0\t0\t1\tbash\t",
			"ghost\t0\t0\t1\tbash\t",
			"alive\t9\t0\t1\tbash\t",
		)},
	)

	snap, err := c.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(snap.Sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(snap.Sessions))
	}
	if len(snap.Sessions[0].Windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(snap.Sessions[0].Windows))
	}
	if len(snap.Sessions[0].Windows[0].Panes) != 1 {
		t.Fatalf("got %d panes, want 1", len(snap.Sessions[0].Windows[0].Panes))
	}
	// ghost window, ghost pane, and the pane for a window that was never
	// listed are each one warning
	if len(snap.Warnings) != 3 {
		t.Errorf("got %d warnings, want 3: %v", len(snap.Warnings), snap.Warnings)
	}
}

func TestListSessions_ToleratesDuplicateAndOutOfOrderLines(t *testing.T) {
	c, _ := newTestClient(
		fakeResponse{stdout: listing(
			sessionRow("dup", 0, 2),
			sessionRow("dup", 1, 2),
		)},
		fakeResponse{stdout: listing(
			"dup\t1\tlogs\t0\t1",
			"dup\t0\teditor\t1\t1",
			"dup\t0\teditor\t1\t1",
		)},
		fakeResponse{stdout: ""},
	)

	snap, err := c.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(snap.Sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(snap.Sessions))
	}
	ws := snap.Sessions[0].Windows
	if len(ws) != 2 || ws[0].Index != 0 || ws[1].Index != 1 {
		t.Errorf("windows not re-sorted: %+v", ws)
	}
	if len(snap.Warnings) != 2 {
		t.Errorf("got %d warnings, want 2: %v", len(snap.Warnings), snap.Warnings)
	}
}

func TestListSessions_EmptyOutputMeansEmptySnapshot(t *testing.T) {
	c, _ := newTestClient(
		fakeResponse{stdout: ""},
		fakeResponse{stdout: ""},
		fakeResponse{stdout: ""},
	)

	snap, err := c.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if !snap.Empty() {
		t.Errorf("got %d sessions, want empty snapshot", len(snap.Sessions))
	}
}

func TestListSessions_NoServerMeansEmptySnapshot(t *testing.T) {
	c, _ := newTestClient(
		exitFailure("no server running on /tmp/tmux-1000/default"),
	)

	snap, err := c.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if !snap.Empty() {
		t.Errorf("got %d sessions, want empty snapshot", len(snap.Sessions))
	}
}

func TestListSessions_AllLinesMalformedIsParseError(t *testing.T) {
	c, _ := newTestClient(
		fakeResponse{stdout: listing("garbage", "more garbage")},
	)

	_, err := c.ListSessions(context.Background())
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("got %v, want *ParseError", err)
	}
}

func TestListSessions_LaunchFailureIsUnavailable(t *testing.T) {
	c, _ := newTestClient(launchFailure())

	_, err := c.ListSessions(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
}

func TestKillSession_CommandFailureCarriesStderr(t *testing.T) {
	c, _ := newTestClient(exitFailure("can't find session: gone"))

	err := c.KillSession(context.Background(), "gone")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("got %v, want *CommandError", err)
	}
	if cmdErr.Op != "kill-session" {
		t.Errorf("op: got %q, want %q", cmdErr.Op, "kill-session")
	}
	if !strings.Contains(cmdErr.Message, "can't find session") {
		t.Errorf("message: got %q, want the tmux stderr", cmdErr.Message)
	}
}

func TestCreateThenList_ContainsSession(t *testing.T) {
	c, r := newTestClient(
		fakeResponse{},
		fakeResponse{stdout: listing(sessionRow("fresh", 0, 1))},
		fakeResponse{stdout: listing("fresh\t0\tshell\t1\t1")},
		fakeResponse{stdout: listing("fresh\t0\t0\t1\tbash\t")},
		exitFailure("duplicate session: fresh"),
	)

	ctx := context.Background()
	if err := c.NewSession(ctx, "fresh"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	snap, err := c.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if snap.IndexOf("fresh") < 0 {
		t.Fatalf("snapshot does not contain %q: %+v", "fresh", snap.Sessions)
	}

	// Repeating the same create is a CommandError, never a silent success.
	err = c.NewSession(ctx, "fresh")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("repeat create: got %v, want *CommandError", err)
	}

	want := []string{"tmux", "new-session", "-d", "-s", "fresh"}
	got := r.calls[0]
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("first invocation: got %v, want %v", got, want)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain name", "work", false},
		{"name with spaces", "my project", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"contains tab", "a\tb", true},
		{"contains newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("session name", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q): got err %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("got %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestMutatingOps_RejectBadNamesBeforeExec(t *testing.T) {
	c, r := newTestClient()

	ctx := context.Background()
	if err := c.NewSession(ctx, "with\ttab"); err == nil {
		t.Error("NewSession accepted a delimiter-containing name")
	}
	if err := c.KillSession(ctx, ""); err == nil {
		t.Error("KillSession accepted an empty name")
	}
	if err := c.RenameSession(ctx, "ok", "bad\tname"); err == nil {
		t.Error("RenameSession accepted a delimiter-containing target")
	}
	if len(r.calls) != 0 {
		t.Errorf("tmux was invoked %d times for invalid input", len(r.calls))
	}
}

func TestDetachSession_NoClientAttachedIsNotAnError(t *testing.T) {
	c, _ := newTestClient(exitFailure("no current client"))

	if err := c.DetachSession(context.Background(), "idle"); err != nil {
		t.Fatalf("DetachSession: %v", err)
	}
}

func TestDetachSession_UnavailablePropagates(t *testing.T) {
	c, _ := newTestClient(launchFailure())

	err := c.DetachSession(context.Background(), "idle")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
}

func TestSocketSelectorPrependsToEveryInvocation(t *testing.T) {
	r := &fakeRunner{responses: []fakeResponse{{}}}
	c := NewClientWithRunner(Config{Socket: "dev"}, r)

	if err := c.NewSession(context.Background(), "x"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	got := r.calls[0]
	if len(got) < 3 || got[1] != "-L" || got[2] != "dev" {
		t.Errorf("invocation missing socket selector: %v", got)
	}
}

func TestAttachCommand_UsesConfiguredBinary(t *testing.T) {
	c := NewClient(Config{Binary: "/opt/tmux/bin/tmux", Socket: "dev"})

	cmd := c.AttachCommand("work")
	if cmd.Path != "/opt/tmux/bin/tmux" && cmd.Args[0] != "/opt/tmux/bin/tmux" {
		t.Errorf("binary: got %q / %v", cmd.Path, cmd.Args)
	}
	want := []string{"-L", "dev", "attach-session", "-t", "work"}
	if strings.Join(cmd.Args[1:], " ") != strings.Join(want, " ") {
		t.Errorf("args: got %v, want %v", cmd.Args[1:], want)
	}
}
