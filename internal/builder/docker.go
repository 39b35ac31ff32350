// SPDX-License-Identifier: AGPL-3.0-or-later
package builder

// buildDocker is detection-only: nothing is built, the note tells Phoenix how
// to take it from here.
func buildDocker(Env) Outcome {
	return Outcome{
		OK:         true,
		Entrypoint: "Dockerfile",
		Notes: []string{
			"Dockerfile detected. Consider containerizing as an external ORCH and bridging via HTTP.",
		},
	}
}
