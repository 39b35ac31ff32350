// SPDX-License-Identifier: AGPL-3.0-or-later
package orch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phoenix-oss/orchsetup/internal/cigate"
	"github.com/phoenix-oss/orchsetup/internal/detect"
	"github.com/phoenix-oss/orchsetup/internal/execx"
)

type fakeRunner struct {
	calls   []execx.Cmd
	respond func(c execx.Cmd) execx.Result
	missing map[string]bool
}

func (f *fakeRunner) Run(ctx context.Context, c execx.Cmd) execx.Result {
	f.calls = append(f.calls, c)
	if f.respond != nil {
		return f.respond(c)
	}
	return execx.Result{Code: 0}
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", errors.New("not found")
	}
	return "/usr/bin/" + name, nil
}

func newPipeline(t *testing.T, f *fakeRunner) *Pipeline {
	t.Helper()
	base := t.TempDir()
	return &Pipeline{
		Runner:   f,
		Gate:     &cigate.Client{},
		OrchDir:  filepath.Join(base, "orch_repos"),
		VenvsDir: filepath.Join(base, "orch_repos", ".venvs"),
	}
}

func TestSkipFilterShortCircuits(t *testing.T) {
	f := &fakeRunner{}
	p := newPipeline(t, f)

	results := p.Run(context.Background(), Options{
		URLs:     []string{"https://github.com/acme/widget.git"},
		Skip:     []string{"acme"},
		GateMode: cigate.ModeRequire, // gate must not run either
	})
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, StatusSkipped, r.Status)
	assert.Equal(t, detect.Skipped, r.Detected)
	assert.Equal(t, "widget", r.Name)
	assert.Equal(t, filepath.Join(p.OrchDir, "widget"), r.Dest)
	assert.Empty(t, r.Commands)
	assert.Empty(t, f.calls, "no clone may be attempted for a skipped repo")
	assert.Equal(t, []string{"Skipped by --skip filter."}, r.Notes)
}

func TestCloneFailureContinuesRun(t *testing.T) {
	f := &fakeRunner{respond: func(c execx.Cmd) execx.Result {
		if c.Argv[1] == "clone" && strings.Contains(execx.Line(c.Argv...), "broken") {
			return execx.Result{Code: 128, Output: "fatal: repository not found"}
		}
		return execx.Result{Code: 0}
	}}
	p := newPipeline(t, f)

	results := p.Run(context.Background(), Options{
		URLs:     []string{"https://example.org/x/broken", "https://example.org/x/fine"},
		GateMode: cigate.ModeOff,
	})
	require.Len(t, results, 2)

	assert.Equal(t, StatusFailure, results[0].Status)
	assert.Equal(t, detect.Unknown, results[0].Detected)
	assert.Contains(t, results[0].Err, "repository not found")
	assert.Contains(t, results[0].Notes, "Clone failed; build not attempted.")

	// Second repo is still processed.
	assert.NotEqual(t, StatusFailure, results[1].Status)
}

func TestNoBuildMarksSkipped(t *testing.T) {
	f := &fakeRunner{}
	p := newPipeline(t, f)

	results := p.Run(context.Background(), Options{
		URLs:     []string{"https://example.org/x/widget"},
		NoBuild:  true,
		GateMode: cigate.ModeOff,
	})
	require.Len(t, results, 1)
	assert.Equal(t, StatusSkipped, results[0].Status)
	assert.Contains(t, results[0].Notes, "Build skipped due to --no-build.")
	// Only the clone command ran.
	require.Len(t, f.calls, 1)
	assert.Equal(t, "clone", f.calls[0].Argv[1])
}

func TestExistingCheckoutDetectedAndBuilt(t *testing.T) {
	f := &fakeRunner{}
	p := newPipeline(t, f)

	dest := filepath.Join(p.OrchDir, "widget")
	require.NoError(t, os.MkdirAll(filepath.Join(dest, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "Cargo.toml"), []byte("[package]\n"), 0o644))

	results := p.Run(context.Background(), Options{
		URLs:     []string{"https://example.org/x/widget"},
		GateMode: cigate.ModeOff,
	})
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, StatusSuccess, r.Status)
	assert.Equal(t, detect.Rust, r.Detected)
	// ff-only update, never a fresh clone, then the rust build.
	assert.Equal(t, []string{"git pull --ff-only", "cargo component build --release"}, r.Commands)
}

func TestGateRequireBlocksMissingWorkflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{}`)
	}))
	t.Cleanup(srv.Close)

	f := &fakeRunner{}
	p := newPipeline(t, f)
	p.Gate = &cigate.Client{BaseURL: srv.URL}

	results := p.Run(context.Background(), Options{
		URLs:     []string{"https://github.com/acme/widget.git"},
		GateMode: cigate.ModeRequire,
		Workflow: "ci-tests.yml",
		Branch:   "main",
	})
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, StatusFailure, r.Status)
	assert.Equal(t, detect.CIGate, r.Detected)
	assert.Contains(t, r.Err, "not found")
	assert.Empty(t, f.calls, "a gate-rejected repo must not be cloned")
}

func TestGateAutoPassesMissingWorkflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{}`)
	}))
	t.Cleanup(srv.Close)

	f := &fakeRunner{}
	p := newPipeline(t, f)
	p.Gate = &cigate.Client{BaseURL: srv.URL}

	results := p.Run(context.Background(), Options{
		URLs:     []string{"https://github.com/acme/widget.git"},
		GateMode: cigate.ModeAuto,
		Workflow: "ci-tests.yml",
		Branch:   "main",
	})
	require.Len(t, results, 1)
	assert.NotEqual(t, StatusFailure, results[0].Status)
	assert.NotEmpty(t, f.calls, "repo without a workflow should still be cloned in auto mode")
}

func TestGateNonGitHubURLNotApplicable(t *testing.T) {
	f := &fakeRunner{}
	p := newPipeline(t, f)

	results := p.Run(context.Background(), Options{
		URLs:     []string{"https://gitlab.com/acme/widget.git"},
		GateMode: cigate.ModeRequire,
		Workflow: "ci-tests.yml",
		Branch:   "main",
	})
	require.Len(t, results, 1)
	assert.NotEqual(t, StatusFailure, results[0].Status)
	assert.Contains(t, results[0].Notes, "CI gate: skipped (non-GitHub URL)")
}

func TestAnyFailed(t *testing.T) {
	assert.False(t, AnyFailed(nil))
	assert.False(t, AnyFailed([]Result{{Status: StatusSuccess}, {Status: StatusSkipped}}))
	assert.True(t, AnyFailed([]Result{{Status: StatusSuccess}, {Status: StatusFailure}}))
}
