// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package operation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
)

// Origin identifies which stream a line arrived on.
type Origin string

const (
	// OriginStdout marks lines read from the child's standard output.
	OriginStdout Origin = "stdout"

	// OriginStderr marks lines read from the child's standard error.
	OriginStderr Origin = "stderr"

	// OriginSystem marks lines the engine itself adds to the
	// transcript: the command header, relocation notes, the artifact
	// checksum.
	OriginSystem Origin = "system"
)

// Line is one observable unit of child output: a single non-empty
// line and the stream it arrived on. Arrival order is preserved within
// each stream; interleaving between streams is whatever the child and
// the scheduler produced.
type Line struct {
	Origin Origin
	Text   string
}

// CommandSpec describes one child process invocation.
type CommandSpec struct {
	// Path is the executable name or absolute path.
	Path string

	// Args is the ordered argument list (excluding the program name).
	Args []string

	// Dir is the working directory. Empty inherits the parent's.
	Dir string

	// Env is an environment overlay appended to the inherited
	// environment. Used to forward the display-server identifier to
	// privileged children so the authentication prompt can render.
	Env []string

	// Privileged marks commands that run under the privilege helper.
	// Exit codes 126 and 127 from a privileged command mean the
	// authentication was cancelled or failed rather than a tool error.
	Privileged bool
}

// Rendered returns the human-readable command line, as written into
// the transcript header. Arguments containing shell metacharacters
// are single-quoted.
func (s CommandSpec) Rendered() string {
	parts := make([]string, 0, len(s.Args)+1)
	parts = append(parts, s.Path)
	for _, arg := range s.Args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

// shellQuote wraps arg in single quotes when it contains whitespace or
// shell metacharacters, escaping embedded single quotes. Plain
// arguments pass through unchanged.
func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n\"'\\$&|;<>()*?[]#~") {
		return arg
	}
	return singleQuote(arg)
}

// singleQuote always single-quotes arg, escaping embedded single
// quotes. Used when splicing paths into a shell envelope, where
// unquoted text would be re-parsed.
func singleQuote(arg string) string {
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// SpawnError reports that the child could not be started: the binary
// is missing, not executable, or a pipe could not be created. No
// output was produced.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawning %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ReadError reports that a stream read failed while the child was
// running. The lines received before the failure remain valid; the
// partial transcript is preserved.
type ReadError struct {
	Origin Origin
	Err    error
}

func (e *ReadError) Error() string {
	if e.Origin == "" {
		return fmt.Sprintf("reading child output: %v", e.Err)
	}
	return fmt.Sprintf("reading child %s: %v", e.Origin, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Runner spawns child processes with both output streams piped and
// merges their lines into a single channel as they arrive.
type Runner struct {
	// Logger receives spawn and exit diagnostics. Nil defaults to a
	// stderr text handler.
	Logger *slog.Logger
}

// scanBufferInitial and scanBufferMax size the per-stream line
// scanner. Package tools normally emit short lines; the 1 MiB ceiling
// guards against pathological output without unbounded allocation.
const (
	scanBufferInitial = 64 * 1024
	scanBufferMax     = 1024 * 1024
)

// Run spawns the command and streams every non-empty output line into
// lines, preserving per-stream arrival order. It returns the child's
// exit code once both streams have reached EOF and the exit status is
// collected. The lines channel is not closed; the caller owns it.
//
// Lines that are empty after trimming are dropped. Surviving lines
// are forwarded verbatim: no re-encoding, no ANSI stripping.
//
// The context is honored before spawn only. Once the child is
// running, the runner drains both streams to EOF regardless of
// cancellation — a dismissed observer must not abort a package
// transaction in flight, and the transcript must stay complete for
// the operation log.
//
// Errors: *SpawnError when the child never started (no lines were
// sent), *ReadError when a stream failed mid-run (lines already
// carries the partial output, and the returned exit code is valid).
func (r *Runner) Run(ctx context.Context, spec CommandSpec, lines chan<- Line) (int, error) {
	logger := r.logger()

	if err := ctx.Err(); err != nil {
		return -1, &SpawnError{Path: spec.Path, Err: err}
	}

	command := exec.Command(spec.Path, spec.Args...)
	command.Dir = spec.Dir
	command.Env = append(os.Environ(), spec.Env...)
	// Own process group: terminal signals aimed at fedpak must never
	// reach a package transaction in flight.
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := command.StdoutPipe()
	if err != nil {
		return -1, &SpawnError{Path: spec.Path, Err: err}
	}
	stderr, err := command.StderrPipe()
	if err != nil {
		return -1, &SpawnError{Path: spec.Path, Err: err}
	}

	if err := command.Start(); err != nil {
		return -1, &SpawnError{Path: spec.Path, Err: err}
	}
	logger.Debug("child started", "path", spec.Path, "pid", command.Process.Pid)

	// One reader goroutine per stream, feeding the shared channel.
	// Separate readers are what keeps the child from deadlocking when
	// it fills one pipe while we would otherwise be blocked on the
	// other.
	readErrors := make(chan error, 2)
	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		readErrors <- scanStream(OriginStdout, stdout, lines)
	}()
	go func() {
		defer readers.Done()
		readErrors <- scanStream(OriginStderr, stderr, lines)
	}()
	readers.Wait()
	close(readErrors)

	var readError error
	for err := range readErrors {
		if err != nil && readError == nil {
			readError = err
		}
	}

	// Exit status is awaited only after both streams hit EOF.
	exitCode := 0
	if waitError := command.Wait(); waitError != nil {
		var exitError *exec.ExitError
		if errors.As(waitError, &exitError) {
			exitCode = exitError.ExitCode()
		} else if readError == nil {
			readError = &ReadError{Err: waitError}
		}
	}
	logger.Debug("child exited", "path", spec.Path, "exit_code", exitCode)

	return exitCode, readError
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// scanStream reads one stream line-buffered until EOF, forwarding
// non-empty lines. Returns a *ReadError if the scanner fails.
func scanStream(origin Origin, stream io.Reader, lines chan<- Line) error {
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, scanBufferInitial), scanBufferMax)
	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines <- Line{Origin: origin, Text: text}
	}
	if err := scanner.Err(); err != nil {
		return &ReadError{Origin: origin, Err: err}
	}
	return nil
}
