// SPDX-License-Identifier: AGPL-3.0-or-later
package orch

import "github.com/phoenix-oss/orchsetup/internal/detect"

// Status is the final outcome of one repository.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailure Status = "Failure"
	StatusSkipped Status = "Skipped"
)

// Result is the per-repository outcome record. It is created once the
// pipeline finishes (or short-circuits) a URL, is immutable afterwards, and
// is consumed exactly once by the report renderer.
type Result struct {
	Name     string
	URL      string
	Dest     string
	Detected detect.Ecosystem
	// Commands holds every command line actually executed, in order.
	Commands []string
	Status   Status
	// Err is the tail of captured output when Status is Failure.
	Err string
	// Entrypoint is a best-effort suggestion, advisory only.
	Entrypoint string
	Notes      []string
}

// Failed reports whether this repository ended in failure.
func (r Result) Failed() bool { return r.Status == StatusFailure }

// AnyFailed reports whether any result failed; it decides the process exit
// code.
func AnyFailed(results []Result) bool {
	for _, r := range results {
		if r.Failed() {
			return true
		}
	}
	return false
}
