// SPDX-License-Identifier: AGPL-3.0-or-later
package builder

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phoenix-oss/orchsetup/internal/execx"
)

var rustNotes = []string{
	"If a .wasm is produced, register it as a WASM ORCH and run via Wasmtime/Wasmer (recommended sandbox).",
	"If only a native binary is produced, spawn it as a subprocess ORCH and bridge over stdio/IPC.",
}

// buildRust tries the WASM component-model build first and falls back to a
// plain release build. When both fail, both diagnostics are kept so the
// component failure is not masked by the fallback's.
func buildRust(ctx context.Context, env Env) Outcome {
	out := Outcome{Notes: rustNotes}
	if _, err := env.Runner.LookPath("cargo"); err != nil {
		out.Err = "cargo not found on PATH"
		return out
	}

	// `cargo component` is a cargo subcommand; a LookPath presence check
	// for it is unreliable, so just attempt the build.
	out.Commands = append(out.Commands, "cargo component build --release")
	component := env.Runner.Run(ctx, execx.Cmd{Dir: env.RepoDir, Argv: []string{"cargo", "component", "build", "--release"}})
	if component.OK() {
		out.OK = true
		out.Entrypoint = guessRustEntrypoint(env.RepoDir)
		return out
	}

	out.Commands = append(out.Commands, "cargo build --release")
	fallback := env.Runner.Run(ctx, execx.Cmd{Dir: env.RepoDir, Argv: []string{"cargo", "build", "--release"}})
	if !fallback.OK() {
		out.Err = execx.Tail(component.Output) +
			"\n--- fallback: cargo build --release ---\n" +
			execx.Tail(fallback.Output)
		return out
	}

	out.OK = true
	out.Entrypoint = guessRustEntrypoint(env.RepoDir)
	return out
}

// guessRustEntrypoint prefers the newest produced .wasm under target/; native
// binaries are harder to infer, so those get a directory hint.
func guessRustEntrypoint(repoDir string) string {
	target := filepath.Join(repoDir, "target")
	if _, err := os.Stat(target); err != nil {
		return ""
	}

	var newest string
	var newestMod time.Time
	_ = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".wasm") {
			return nil
		}
		if filepath.Base(filepath.Dir(path)) != "release" {
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil {
			return nil
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = path
			newestMod = info.ModTime()
		}
		return nil
	})
	if newest != "" {
		if rel, err := filepath.Rel(repoDir, newest); err == nil {
			return rel
		}
		return newest
	}

	if info, err := os.Stat(filepath.Join(target, "release")); err == nil && info.IsDir() {
		return "target/release/<binary>"
	}
	return ""
}
