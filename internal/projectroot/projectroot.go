// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the Phoenix project root and the directories
// the setup pipeline writes into.
package projectroot

import (
	"fmt"
	"os"
	"path/filepath"
)

// Find walks up from start looking for the Phoenix project root: a directory
// holding Cargo.toml and a scripts/ directory, guarded by a file that strongly
// implies Phoenix (scripts/launch_phoenix.sh, or README.md as a fallback).
func Find(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for p := abs; ; p = filepath.Dir(p) {
		if isRoot(p) {
			return p, nil
		}
		if filepath.Dir(p) == p {
			break
		}
	}
	return "", fmt.Errorf("could not detect Phoenix project root from %s (expected Cargo.toml + scripts/)", abs)
}

func isRoot(dir string) bool {
	if !fileExists(filepath.Join(dir, "Cargo.toml")) {
		return false
	}
	if !dirExists(filepath.Join(dir, "scripts")) {
		return false
	}
	return fileExists(filepath.Join(dir, "scripts", "launch_phoenix.sh")) ||
		fileExists(filepath.Join(dir, "README.md"))
}

// OrchDir returns the sibling directory that holds orchestrated checkouts.
func OrchDir(projectRoot string) string {
	return filepath.Join(filepath.Dir(projectRoot), "orch_repos")
}

// VenvsDir returns the directory that holds per-repo python environments.
func VenvsDir(projectRoot string) string {
	return filepath.Join(OrchDir(projectRoot), ".venvs")
}

// ReportPath returns the fixed location of the generated markdown report.
func ReportPath(projectRoot string) string {
	return filepath.Join(projectRoot, "orch_repos_docs.md")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
