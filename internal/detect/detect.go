// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect classifies a checked-out repository by its toolchain.
package detect

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Ecosystem is the detected toolchain of an ORCH repository.
type Ecosystem string

const (
	Rust    Ecosystem = "Rust"
	Python  Ecosystem = "Python"
	Node    Ecosystem = "Node.js"
	Docker  Ecosystem = "Docker"
	Unknown Ecosystem = "Unknown"

	// CIGate and Skipped are pseudo-classifications for repos that never
	// reached detection.
	CIGate  Ecosystem = "CI Gate"
	Skipped Ecosystem = "Skipped"
)

// walkDepth bounds the fallback python scan.
const walkDepth = 3

// excludeDirs are directory names never descended into during the fallback
// scan. Matching is by exact segment name.
var excludeDirs = []string{
	".git",
	"target",
	"node_modules",
	".venv",
	".venvs",
	"__pycache__",
}

var pythonProjectFiles = []string{
	"requirements.txt",
	"pyproject.toml",
	"setup.py",
}

// Detect classifies repoDir by marker files in its root, in fixed priority
// order. Rust wins when multiple markers coexist. If nothing matches, a
// bounded shallow walk looks for python sources before giving up.
func Detect(repoDir string) Ecosystem {
	if fileExists(filepath.Join(repoDir, "Cargo.toml")) {
		return Rust
	}
	for _, f := range pythonProjectFiles {
		if fileExists(filepath.Join(repoDir, f)) {
			return Python
		}
	}
	if fileExists(filepath.Join(repoDir, "package.json")) {
		return Node
	}
	if fileExists(filepath.Join(repoDir, "Dockerfile")) {
		return Docker
	}
	if looksLikePython(repoDir) {
		return Python
	}
	return Unknown
}

// looksLikePython walks below repoDir looking for .py files or well-known
// python project files. The depth bound prunes directories only; files inside
// a directory at the bound are still examined. Example repos often omit
// requirements/pyproject at the root.
func looksLikePython(repoDir string) bool {
	found := false
	_ = filepath.WalkDir(repoDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(repoDir, path)
		if relErr != nil {
			return nil
		}
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			depth := len(strings.Split(rel, string(filepath.Separator)))
			if excluded(d.Name()) || depth > walkDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".py") || isPythonProjectFile(d.Name()) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

func excluded(name string) bool {
	for _, e := range excludeDirs {
		if name == e {
			return true
		}
	}
	return false
}

func isPythonProjectFile(name string) bool {
	for _, f := range pythonProjectFiles {
		if name == f {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
