// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builder runs best-effort build/install steps for a detected
// ecosystem. Every step is attempted once; failures carry a truncated
// diagnostic instead of aborting the overall run.
package builder

import (
	"context"

	"github.com/phoenix-oss/orchsetup/internal/detect"
	"github.com/phoenix-oss/orchsetup/internal/execx"
)

// Env carries what a builder needs to work on one checkout.
type Env struct {
	RepoDir  string
	VenvsDir string
	Runner   execx.Runner
}

// Outcome is the result of a build attempt. Entrypoint is a heuristic
// suggestion only and is never a contract the caller may rely on.
type Outcome struct {
	OK         bool
	Commands   []string
	Err        string
	Entrypoint string
	Notes      []string
}

// Build dispatches to the builder for eco. Unrecognized ecosystems succeed
// vacuously with a note.
func Build(ctx context.Context, eco detect.Ecosystem, env Env) Outcome {
	switch eco {
	case detect.Rust:
		return buildRust(ctx, env)
	case detect.Python:
		return buildPython(ctx, env)
	case detect.Node:
		return buildNode(ctx, env)
	case detect.Docker:
		return buildDocker(env)
	}
	return Outcome{OK: true, Notes: []string{"Unknown repo type; no build executed."}}
}
