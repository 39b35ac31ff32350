// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitclient clones and updates ORCH checkouts with the git CLI.
package gitclient

import (
	"context"
	"os"
	"path/filepath"

	"github.com/phoenix-oss/orchsetup/internal/execx"
)

// Outcome describes a clone/update attempt. Commands holds the literal
// command lines run, in order, for audit in the report.
type Outcome struct {
	OK       bool
	Commands []string
	Err      string
}

// CloneOrUpdate brings dest up to date with url. An existing checkout is
// advanced with a fast-forward-only pull; anything else gets a fresh clone,
// optionally shallow. A missing git binary fails the repo outright.
func CloneOrUpdate(ctx context.Context, r execx.Runner, url, dest string, shallow bool) Outcome {
	var out Outcome
	if _, err := r.LookPath("git"); err != nil {
		out.Err = "git not found on PATH"
		return out
	}

	if hasCheckout(dest) {
		out.Commands = append(out.Commands, "git pull --ff-only")
		res := r.Run(ctx, execx.Cmd{Dir: dest, Argv: []string{"git", "pull", "--ff-only"}})
		if !res.OK() {
			out.Err = execx.Tail(res.Output)
			return out
		}
		out.OK = true
		return out
	}

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		out.Err = err.Error()
		return out
	}
	argv := []string{"git", "clone"}
	if shallow {
		argv = append(argv, "--depth", "1")
	}
	argv = append(argv, url, dest)
	out.Commands = append(out.Commands, execx.Line(argv...))
	res := r.Run(ctx, execx.Cmd{Dir: parent, Argv: argv})
	if !res.OK() {
		out.Err = execx.Tail(res.Output)
		return out
	}
	out.OK = true
	return out
}

// hasCheckout accepts both a .git directory and a .git pointer file, as left
// by worktrees and submodules.
func hasCheckout(dest string) bool {
	_, err := os.Stat(filepath.Join(dest, ".git"))
	return err == nil
}
