// SPDX-License-Identifier: AGPL-3.0-or-later
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	version "github.com/hashicorp/go-version"

	"github.com/phoenix-oss/orchsetup/internal/execx"
)

var pythonNotes = []string{
	"Spawn via tokio::process::Command and communicate over stdin/stdout (or HTTP if the repo exposes it).",
	"Prefer invoking the repo using the per-ORCH venv Python to avoid dependency collisions.",
}

var pythonEntrypointCandidates = []string{
	"main.py", "app.py", "run.py", "cli.py", "server.py", "bot.py",
}

// numpyLegacyPin matches a bare numpy==1.23.* pin, which has no wheels for
// Python >= 3.12 and tends to fail building from source.
var numpyLegacyPin = regexp.MustCompile(`(?im)^\s*numpy\s*==\s*1\.23\.[0-9]+\s*$`)

var pythonMinBreaking = version.Must(version.NewVersion("3.12"))

// buildPython installs the repo's declared dependencies into an isolated
// per-repo venv. Dependency descriptors are tried in a fixed priority order;
// a repo with none at all counts as a vacuous success.
func buildPython(ctx context.Context, env Env) Outcome {
	out := Outcome{Notes: pythonNotes}

	basePython, err := findPython(env.Runner)
	if err != nil {
		out.Err = "Python not found on PATH"
		return out
	}

	venvDir := filepath.Join(env.VenvsDir, filepath.Base(env.RepoDir))
	vpy, verr := ensureVenv(ctx, env, basePython, venvDir)
	if verr != "" {
		out.Err = "venv creation failed: " + verr
		return out
	}

	pyVer := pythonVersion(ctx, env, vpy)

	// Always upgrade pip tooling to reduce install friction.
	out.Commands = append(out.Commands, fmt.Sprintf("%s -m pip install -U pip setuptools wheel", vpy))
	res := runPip(ctx, env, vpy, "-m", "pip", "install", "-U", "pip", "setuptools", "wheel")
	if !res.OK() {
		out.Err = execx.Tail(res.Output)
		return out
	}

	switch {
	case fileExists(env.RepoDir, "requirements.txt"):
		if msg := preflightRequirements(env.RepoDir, pyVer); msg != "" {
			out.Notes = append(out.Notes, "Compatibility: "+msg)
			out.Err = msg
			out.Entrypoint = guessPythonEntrypoint(env.RepoDir)
			return out
		}
		out.Commands = append(out.Commands, fmt.Sprintf("%s -m pip install -r requirements.txt", vpy))
		res = runPip(ctx, env, vpy, "-m", "pip", "install", "-r", "requirements.txt")
		if !res.OK() {
			out.Err = execx.Tail(res.Output)
			return out
		}

	case fileExists(env.RepoDir, "poetry.lock") && toolOnPath(env.Runner, "poetry"):
		out.Commands = append(out.Commands, "poetry install")
		res = env.Runner.Run(ctx, execx.Cmd{Dir: env.RepoDir, Argv: []string{"poetry", "install"}})
		if !res.OK() {
			out.Err = execx.Tail(res.Output)
			return out
		}
		out.Notes = append(out.Notes, "Poetry-managed environment detected; ensure Phoenix spawns with the correct interpreter (poetry env info -p).")

	case fileExists(env.RepoDir, "Pipfile") && toolOnPath(env.Runner, "pipenv"):
		out.Commands = append(out.Commands, "pipenv install")
		res = env.Runner.Run(ctx, execx.Cmd{Dir: env.RepoDir, Argv: []string{"pipenv", "install"}})
		if !res.OK() {
			out.Err = execx.Tail(res.Output)
			return out
		}
		out.Notes = append(out.Notes, "Pipenv-managed environment detected; ensure Phoenix spawns with `pipenv run python ...`.")

	case fileExists(env.RepoDir, "pyproject.toml") || fileExists(env.RepoDir, "setup.py"):
		// Best-effort editable install; fall back to a plain install when
		// the repo's build backend rejects -e.
		out.Commands = append(out.Commands, fmt.Sprintf("%s -m pip install -e .", vpy))
		editable := runPip(ctx, env, vpy, "-m", "pip", "install", "-e", ".")
		if !editable.OK() {
			out.Commands = append(out.Commands, fmt.Sprintf("%s -m pip install .", vpy))
			plain := runPip(ctx, env, vpy, "-m", "pip", "install", ".")
			if !plain.OK() {
				diag := plain.Output
				if diag == "" {
					diag = editable.Output
				}
				out.Err = execx.Tail(diag)
				return out
			}
		}

	default:
		// No recognized dependency descriptor; nothing to install.
	}

	out.OK = true
	out.Entrypoint = guessPythonEntrypoint(env.RepoDir)
	return out
}

func findPython(r execx.Runner) (string, error) {
	if p, err := r.LookPath("python3"); err == nil {
		return p, nil
	}
	return r.LookPath("python")
}

func toolOnPath(r execx.Runner, name string) bool {
	_, err := r.LookPath(name)
	return err == nil
}

// venvPython returns the interpreter path inside a venv.
func venvPython(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts", "python.exe")
	}
	return filepath.Join(venvDir, "bin", "python")
}

// ensureVenv creates the per-repo venv if its interpreter is not already
// present. Returns the venv interpreter path, or a diagnostic.
func ensureVenv(ctx context.Context, env Env, basePython, venvDir string) (string, string) {
	vpy := venvPython(venvDir)
	if _, err := os.Stat(vpy); err == nil {
		return vpy, ""
	}
	if err := os.MkdirAll(filepath.Dir(venvDir), 0o755); err != nil {
		return "", err.Error()
	}
	res := env.Runner.Run(ctx, execx.Cmd{
		Dir:  filepath.Dir(venvDir),
		Argv: []string{basePython, "-m", "venv", venvDir},
	})
	if !res.OK() {
		return "", execx.Tail(res.Output)
	}
	return vpy, ""
}

var majorMinor = regexp.MustCompile(`(\d+)\.(\d+)`)

// pythonVersion asks the venv interpreter for its major.minor version.
// Returns nil when it cannot be determined; the preflight is then skipped.
func pythonVersion(ctx context.Context, env Env, vpy string) *version.Version {
	res := env.Runner.Run(ctx, execx.Cmd{
		Dir:  env.RepoDir,
		Argv: []string{vpy, "-c", "import sys; print(f'{sys.version_info[0]}.{sys.version_info[1]}')"},
	})
	if !res.OK() {
		return nil
	}
	m := majorMinor.FindString(strings.TrimSpace(res.Output))
	if m == "" {
		return nil
	}
	v, err := version.NewVersion(m)
	if err != nil {
		return nil
	}
	return v
}

// preflightRequirements detects known hard-incompatibilities between the
// interpreter and requirements.txt pins before attempting a doomed install.
func preflightRequirements(repoDir string, pyVer *version.Version) string {
	if pyVer == nil || pyVer.LessThan(pythonMinBreaking) {
		return ""
	}
	txt, err := os.ReadFile(filepath.Join(repoDir, "requirements.txt"))
	if err != nil {
		return ""
	}
	if numpyLegacyPin.Match(txt) {
		mm := pyVer.Segments()
		return fmt.Sprintf(
			"requirements.txt pins numpy==1.23.* which does not support this Python version (%d.%d). "+
				"Install Python 3.10/3.11 (recommended) or update the pin to a Python-%d.%d-compatible numpy.",
			mm[0], mm[1], mm[0], mm[1])
	}
	return ""
}

// runPip runs the venv interpreter with an environment sanitized against
// common TLS/CA misconfiguration. Some Windows installs (notably Postgres)
// set SSL_CERT_FILE/REQUESTS_CA_BUNDLE to a non-existent path and pip then
// fails before it can download anything.
func runPip(ctx context.Context, env Env, vpy string, args ...string) execx.Result {
	return env.Runner.Run(ctx, execx.Cmd{
		Dir:  env.RepoDir,
		Env:  pipSafeEnv(),
		Argv: append([]string{vpy}, args...),
	})
}

func pipSafeEnv() []string {
	drop := map[string]bool{
		"SSL_CERT_FILE":      true,
		"REQUESTS_CA_BUNDLE": true,
		"CURL_CA_BUNDLE":     true,
		"PIP_CERT":           true,
	}
	seen := map[string]bool{}
	var envv []string
	for _, kv := range os.Environ() {
		key := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			key = kv[:i]
		}
		if drop[key] {
			continue
		}
		seen[key] = true
		envv = append(envv, kv)
	}
	if !seen["PIP_DISABLE_PIP_VERSION_CHECK"] {
		envv = append(envv, "PIP_DISABLE_PIP_VERSION_CHECK=1")
	}
	if !seen["PYTHONUTF8"] {
		envv = append(envv, "PYTHONUTF8=1")
	}
	return envv
}

// guessPythonEntrypoint prefers conventional root scripts, falling back to
// the README for examples-driven repos.
func guessPythonEntrypoint(repoDir string) string {
	for _, candidate := range pythonEntrypointCandidates {
		if fileExists(repoDir, candidate) {
			return candidate
		}
	}
	if fileExists(repoDir, "README.md") {
		return "README.md"
	}
	return ""
}

func fileExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
