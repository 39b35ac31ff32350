// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report renders the markdown setup log written to the Phoenix
// project root after every run.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/phoenix-oss/orchsetup/internal/orch"
)

// Renderer produces the setup log. Output is deterministic given its fields;
// Location exists so tests can pin the local-time rendering.
type Renderer struct {
	ProjectRoot string
	OrchDir     string
	Started     time.Time
	Location    *time.Location
}

func (r Renderer) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.Local
}

// Render builds the full markdown document: a header block, one subsection
// per repository in run order, and the fixed next-steps closer.
func (r Renderer) Render(results []orch.Result) string {
	var b strings.Builder

	b.WriteString("# PHOENIX ORCH Repository Setup Log\n\n")
	b.WriteString(fmt.Sprintf("**Run Timestamp (local):** %s\n", r.Started.In(r.location()).Format("2006-01-02 15:04:05 MST")))
	b.WriteString(fmt.Sprintf("**Run Timestamp (UTC):** %s UTC\n", r.Started.UTC().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Phoenix Root:** `%s`\n", r.ProjectRoot))
	b.WriteString(fmt.Sprintf("**ORCH Repos Dir:** `%s`\n", r.OrchDir))
	b.WriteString("\n## Cloned & Built Repositories\n\n")

	for i, res := range results {
		writeRepo(&b, i+1, res)
	}

	b.WriteString("## Next Steps for Orchestration\n\n")
	b.WriteString("- Register each ORCH in Phoenix's ORCH registry (name, type, entrypoint, env/args).\n")
	b.WriteString("- For Python/Node ORCHs, spawn with tokio::process::Command and bridge via:\n")
	b.WriteString("  - stdin/stdout (JSON-lines recommended), or\n")
	b.WriteString("  - a local HTTP server (better for long-running tools)\n")
	b.WriteString("- For Rust/WASM ORCHs, load the produced `.wasm` via a WASM runtime and define a stable interface (WIT recommended).\n")

	return b.String()
}

func writeRepo(b *strings.Builder, n int, res orch.Result) {
	fmt.Fprintf(b, "### %d. %s\n", n, res.Name)
	fmt.Fprintf(b, "- URL: %s\n", res.URL)
	fmt.Fprintf(b, "- Path: `%s`\n", res.Dest)
	fmt.Fprintf(b, "- Language detected: **%s**\n", res.Detected)

	if len(res.Commands) > 0 {
		b.WriteString("- Build commands executed:\n")
		for _, cmd := range res.Commands {
			fmt.Fprintf(b, "  - `%s`\n", cmd)
		}
	} else {
		b.WriteString("- Build commands executed: *(none)*\n")
	}

	fmt.Fprintf(b, "- Status: **%s**\n", res.Status)
	if res.Entrypoint != "" {
		fmt.Fprintf(b, "- Suggested entrypoint: `%s`\n", res.Entrypoint)
	}
	if res.Err != "" {
		b.WriteString("- Error (tail):\n")
		b.WriteString("  ```\n")
		b.WriteString("  " + strings.ReplaceAll(strings.TrimSpace(res.Err), "\n", "\n  ") + "\n")
		b.WriteString("  ```\n")
	}
	if len(res.Notes) > 0 {
		b.WriteString("- Integration notes for PHOENIX:\n")
		for _, note := range res.Notes {
			fmt.Fprintf(b, "  - %s\n", note)
		}
	}
	b.WriteString("\n")
}
