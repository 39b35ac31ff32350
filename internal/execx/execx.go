// SPDX-License-Identifier: AGPL-3.0-or-later

// Package execx runs external commands for the setup pipeline, capturing
// combined output and applying an optional per-command timeout.
package execx

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// TailLimit is the maximum number of bytes of command output kept for
// diagnostics embedded in the report.
const TailLimit = 4000

// Cmd describes a single external command invocation.
type Cmd struct {
	Dir  string
	Env  []string // nil means inherit the process environment
	Argv []string
}

// Result is the outcome of a command. A negative Code means the command could
// not be started (missing binary, bad working directory, timeout).
type Result struct {
	Code   int
	Output string
}

// OK reports whether the command ran and exited zero.
func (r Result) OK() bool { return r.Code == 0 }

// Runner abstracts command execution so builders can be tested without
// touching the host toolchains.
type Runner interface {
	Run(ctx context.Context, c Cmd) Result
	LookPath(name string) (string, error)
}

// Exec is the real Runner. A zero Timeout means no bound.
type Exec struct {
	Timeout time.Duration
}

func (e Exec) Run(ctx context.Context, c Cmd) Result {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env

	out, err := cmd.CombinedOutput()
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		output := string(out)
		if output == "" {
			output = err.Error()
		}
		if ctx.Err() != nil {
			output = strings.TrimRight(output, "\n") + "\n(command timed out)"
		}
		return Result{Code: code, Output: output}
	}
	return Result{Code: 0, Output: string(out)}
}

func (Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Tail returns the last TailLimit bytes of s, trimmed of surrounding
// whitespace. Used for error excerpts in the report.
func Tail(s string) string {
	if len(s) > TailLimit {
		s = s[len(s)-TailLimit:]
	}
	return strings.TrimSpace(s)
}

// Line renders argv as the literal command line recorded for audit.
func Line(argv ...string) string {
	return strings.Join(argv, " ")
}
