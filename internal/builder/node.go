// SPDX-License-Identifier: AGPL-3.0-or-later
package builder

import (
	"context"

	"github.com/phoenix-oss/orchsetup/internal/execx"
)

var nodeNotes = []string{
	"Spawn via tokio::process::Command (node) or run as a long-lived service and bridge via HTTP/WebSocket.",
	"Prefer `npm start` / `npm run <script>` based on package.json scripts.",
}

func buildNode(ctx context.Context, env Env) Outcome {
	out := Outcome{Notes: nodeNotes}
	if _, err := env.Runner.LookPath("npm"); err != nil {
		out.Err = "npm not found on PATH"
		return out
	}

	out.Commands = append(out.Commands, "npm install")
	res := env.Runner.Run(ctx, execx.Cmd{Dir: env.RepoDir, Argv: []string{"npm", "install"}})
	if !res.OK() {
		out.Err = execx.Tail(res.Output)
		return out
	}

	out.OK = true
	out.Entrypoint = "package.json"
	return out
}
