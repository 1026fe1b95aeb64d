// Package launcher hands process control to the external assistant CLI.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// Launcher starts the assistant as a child process in a given working
// directory and blocks until the interactive session ends. The hand-off is
// total: the child owns the terminal for the remainder of the session.
type Launcher struct {
	command string
}

// New creates a launcher for the given assistant binary.
func New(command string) *Launcher {
	return &Launcher{command: command}
}

// Installed reports whether the assistant binary is present and runnable.
func (l *Launcher) Installed(ctx context.Context) bool {
	path, err := exec.LookPath(l.command)
	if err != nil {
		return false
	}
	return exec.CommandContext(ctx, path, "--version").Run() == nil
}

// Launch runs the assistant in workDir with the initial instruction as its
// single argument and returns the child's own exit status unmodified. The
// returned error is non-nil only when the child could not be run at all.
func (l *Launcher) Launch(ctx context.Context, workDir, instruction string) (int, error) {
	cmd := exec.CommandContext(ctx, l.command, instruction)
	cmd.Dir = workDir

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return l.launchPTY(cmd)
	}
	return l.launchInherited(cmd)
}

// launchPTY runs the child on a pseudo-terminal mirroring the controlling
// terminal, so interactive assistants get the full-screen session they expect.
func (l *Launcher) launchPTY(cmd *exec.Cmd) (int, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", l.command, err)
	}
	defer ptmx.Close()

	// Keep the child's terminal size in sync with ours.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			_ = pty.InheritSize(os.Stdin, ptmx)
		}
	}()
	winch <- syscall.SIGWINCH
	defer func() {
		signal.Stop(winch)
		close(winch)
	}()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return 0, fmt.Errorf("failed to set terminal raw mode: %w", err)
	}
	defer func() { _ = term.Restore(int(os.Stdin.Fd()), oldState) }()

	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	_, _ = io.Copy(os.Stdout, ptmx)

	return exitStatus(cmd.Wait())
}

// launchInherited runs the child with our stdio directly, for non-terminal
// callers such as pipes and CI.
func (l *Launcher) launchInherited(cmd *exec.Cmd) (int, error) {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return exitStatus(cmd.Run())
}

// exitStatus extracts the child's exit code. A nonzero child exit is not an
// error here; it is passed through verbatim.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("assistant process failed: %w", err)
}
