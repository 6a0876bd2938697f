// Package tmux is the boundary between this tool's typed operations and
// the tmux command-line interface. It builds tmux invocations, captures
// their text output, and parses listing output into model snapshots.
//
// The client is stateless: every call is a single tmux invocation with
// no retries (tmux commands are not idempotent — retrying new-session
// could create a duplicate, retrying kill-session would report a
// spurious failure for an already-gone session).
package tmux

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/muxman/muxman/internal/model"
	telem "github.com/muxman/muxman/internal/otel"
)

// delim separates fields in listing output. Names containing it are
// rejected by ValidateName before any invocation.
const delim = "\t"

// Runner executes one external command, returning captured stdout and
// stderr. A non-launch failure (tmux ran, exited non-zero) must be
// reported as a *exec.ExitError-style error; a launch failure as a
// *exec.Error. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

type osRunner struct{}

func (osRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.String(), errb.String(), err
}

// Config holds client construction options.
type Config struct {
	// Binary is the tmux executable. Empty means "tmux".
	Binary string
	// Socket is passed as "-L socket" when set.
	Socket string
	// Metrics, when set, counts invocations and failures.
	Metrics *telem.Metrics
}

// Client invokes tmux control commands.
type Client struct {
	bin     string
	socket  string
	metrics *telem.Metrics
	runner  Runner
}

// NewClient creates a client that shells out to tmux.
func NewClient(cfg Config) *Client {
	bin := cfg.Binary
	if bin == "" {
		bin = "tmux"
	}
	return &Client{bin: bin, socket: cfg.Socket, metrics: cfg.Metrics, runner: osRunner{}}
}

// NewClientWithRunner creates a client with a custom runner, for tests.
func NewClientWithRunner(cfg Config, r Runner) *Client {
	c := NewClient(cfg)
	c.runner = r
	return c
}

// InsideTmux reports whether the current process runs inside a tmux
// session. Attaching from inside tmux must use switch-client instead of
// nesting a second client.
func InsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// args prepends the socket selector to an invocation.
func (c *Client) args(rest ...string) []string {
	if c.socket == "" {
		return rest
	}
	return append([]string{"-L", c.socket}, rest...)
}

// run executes one tmux command and maps failures onto the error
// taxonomy: launch failure becomes ErrUnavailable, a non-zero exit
// becomes *CommandError carrying stderr.
func (c *Client) run(ctx context.Context, op string, rest ...string) (string, error) {
	args := c.args(append([]string{op}, rest...)...)
	if c.metrics != nil {
		c.metrics.CountCommand(ctx, op)
	}
	stdout, stderr, err := c.runner.Run(ctx, c.bin, args...)
	if err != nil {
		var launchErr *exec.Error
		if errors.As(err, &launchErr) || errors.Is(err, exec.ErrNotFound) {
			if c.metrics != nil {
				c.metrics.CountFailure(ctx, op, "unavailable")
			}
			return "", ErrUnavailable
		}
		if c.metrics != nil {
			c.metrics.CountFailure(ctx, op, "command")
		}
		return "", &CommandError{Op: op, Message: strings.TrimSpace(stderr)}
	}
	return stdout, nil
}

// noServer reports whether err is tmux telling us its server is not
// running. For listings this means "no sessions", not a failure.
func noServer(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	msg := cmdErr.Message
	return strings.Contains(msg, "no server running") ||
		strings.Contains(msg, "error connecting to")
}

// ListSessions reads the full server state: sessions, their windows,
// and their panes, in one consistent snapshot.
func (c *Client) ListSessions(ctx context.Context) (model.Snapshot, error) {
	out, err := c.run(ctx, "list-sessions", "-F", sessionFormat)
	if err != nil {
		if noServer(err) {
			return model.Snapshot{}, nil
		}
		return model.Snapshot{}, err
	}

	snap, err := parseSessions(out)
	if err != nil {
		if c.metrics != nil {
			c.metrics.CountFailure(ctx, "list-sessions", "parse")
		}
		return model.Snapshot{}, err
	}

	// Windows and panes are listed server-wide; records naming a session
	// (or window) absent from the snapshot are dropped with a warning. The
	// server can legitimately mutate between the three calls.
	wout, err := c.run(ctx, "list-windows", "-a", "-F", windowFormat)
	if err != nil {
		if noServer(err) {
			return model.Snapshot{}, nil
		}
		return model.Snapshot{}, err
	}
	attachWindows(&snap, wout)

	pout, err := c.run(ctx, "list-panes", "-a", "-F", paneFormat)
	if err != nil {
		if noServer(err) {
			return model.Snapshot{}, nil
		}
		return model.Snapshot{}, err
	}
	attachPanes(&snap, pout)

	if c.metrics != nil {
		c.metrics.CountWarnings(ctx, len(snap.Warnings))
	}
	return snap, nil
}

// NewSession creates a detached session.
func (c *Client) NewSession(ctx context.Context, name string) error {
	if err := ValidateName("session name", name); err != nil {
		return err
	}
	_, err := c.run(ctx, "new-session", "-d", "-s", name)
	return err
}

// KillSession destroys a session. Killing an already-gone session is
// reported as a *CommandError, never swallowed.
func (c *Client) KillSession(ctx context.Context, name string) error {
	if err := ValidateName("session name", name); err != nil {
		return err
	}
	_, err := c.run(ctx, "kill-session", "-t", name)
	return err
}

// RenameSession renames a session. Collisions with an existing name are
// rejected by tmux itself and surface as a *CommandError.
func (c *Client) RenameSession(ctx context.Context, oldName, newName string) error {
	if err := ValidateName("session name", oldName); err != nil {
		return err
	}
	if err := ValidateName("new session name", newName); err != nil {
		return err
	}
	_, err := c.run(ctx, "rename-session", "-t", oldName, newName)
	return err
}

// NewWindow creates a window in the given session.
func (c *Client) NewWindow(ctx context.Context, session string) error {
	if err := ValidateName("session name", session); err != nil {
		return err
	}
	_, err := c.run(ctx, "new-window", "-t", session)
	return err
}

// DetachSession detaches all clients from a session. tmux reports a
// failure when no client is attached; that is not an error condition
// here, so only launch failures propagate.
func (c *Client) DetachSession(ctx context.Context, name string) error {
	if err := ValidateName("session name", name); err != nil {
		return err
	}
	_, err := c.run(ctx, "detach-client", "-s", name)
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return nil
}

// SwitchClient moves the current tmux client to another session. Only
// meaningful when running inside tmux.
func (c *Client) SwitchClient(ctx context.Context, name string) error {
	if err := ValidateName("session name", name); err != nil {
		return err
	}
	_, err := c.run(ctx, "switch-client", "-t", name)
	return err
}

// AttachCommand builds the command that hands the terminal over to the
// tmux client for the named session. The caller owns stdio wiring and
// runs it after releasing the terminal.
func (c *Client) AttachCommand(name string) *exec.Cmd {
	return exec.Command(c.bin, c.args("attach-session", "-t", name)...)
}
