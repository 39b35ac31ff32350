// SPDX-License-Identifier: AGPL-3.0-or-later
package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, parts ...string) {
	t.Helper()
	path := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
}

func TestDetectMarkers(t *testing.T) {
	cases := []struct {
		name   string
		files  []string
		want   Ecosystem
	}{
		{"rust", []string{"Cargo.toml"}, Rust},
		{"python pyproject", []string{"pyproject.toml"}, Python},
		{"python requirements", []string{"requirements.txt"}, Python},
		{"python setup", []string{"setup.py"}, Python},
		{"node", []string{"package.json"}, Node},
		{"docker", []string{"Dockerfile"}, Docker},
		{"empty", nil, Unknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range c.files {
				touch(t, dir, f)
			}
			assert.Equal(t, c.want, Detect(dir))
		})
	}
}

func TestDetectPriorityRustWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Cargo.toml")
	touch(t, dir, "pyproject.toml")
	touch(t, dir, "package.json")
	touch(t, dir, "Dockerfile")
	assert.Equal(t, Rust, Detect(dir))
}

func TestDetectPythonBeforeNode(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "requirements.txt")
	touch(t, dir, "package.json")
	assert.Equal(t, Python, Detect(dir))
}

func TestDetectFallbackWalk(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "src", "tool", "main.py")
	assert.Equal(t, Python, Detect(dir))
}

func TestDetectFallbackProjectFileBelowRoot(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "examples", "requirements.txt")
	assert.Equal(t, Python, Detect(dir))
}

func TestDetectFallbackFileInsideDeepestDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a", "b", "c", "main.py")
	assert.Equal(t, Python, Detect(dir))
}

func TestDetectFallbackDepthBound(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a", "b", "c", "d", "main.py")
	assert.Equal(t, Unknown, Detect(dir))
}

func TestDetectFallbackSkipsExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, ".venv", "lib", "site.py")
	touch(t, dir, "node_modules", "pkg", "setup.py")
	assert.Equal(t, Unknown, Detect(dir))
}
