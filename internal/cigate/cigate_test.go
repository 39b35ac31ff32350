// SPDX-License-Identifier: AGPL-3.0-or-later
package cigate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateServer(t *testing.T, workflowStatus int, runsJSON string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget/actions/workflows/ci-tests.yml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(workflowStatus)
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/repos/acme/widget/actions/workflows/ci-tests.yml/runs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("branch"))
		fmt.Fprint(w, runsJSON)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func check(t *testing.T, srv *httptest.Server) Result {
	t.Helper()
	c := &Client{BaseURL: srv.URL, UserAgent: "orchsetup-test"}
	return c.Check(context.Background(), "acme", "widget", "ci-tests.yml", "main")
}

func TestCheckPass(t *testing.T) {
	srv := gateServer(t, http.StatusOK,
		`{"workflow_runs":[{"status":"completed","conclusion":"success","html_url":"https://github.com/acme/widget/runs/1"}]}`)

	res := check(t, srv)
	assert.True(t, res.Applicable)
	assert.True(t, res.Passed)
	assert.True(t, res.WorkflowExists)
	assert.Contains(t, res.Note, "latest run success")
}

func TestCheckWorkflowMissing(t *testing.T) {
	srv := gateServer(t, http.StatusNotFound, `{}`)

	res := check(t, srv)
	assert.True(t, res.Applicable)
	assert.False(t, res.Passed)
	assert.False(t, res.WorkflowExists)
	assert.Contains(t, res.Note, "not found")
}

func TestCheckRunNotCompleted(t *testing.T) {
	srv := gateServer(t, http.StatusOK,
		`{"workflow_runs":[{"status":"in_progress","conclusion":"","html_url":""}]}`)

	res := check(t, srv)
	assert.False(t, res.Passed)
	assert.True(t, res.WorkflowExists)
	assert.Contains(t, res.Note, "not completed")
}

func TestCheckRunFailed(t *testing.T) {
	srv := gateServer(t, http.StatusOK,
		`{"workflow_runs":[{"status":"completed","conclusion":"failure","html_url":""}]}`)

	res := check(t, srv)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Note, "did not succeed")
}

func TestCheckNoRuns(t *testing.T) {
	srv := gateServer(t, http.StatusOK, `{"workflow_runs":[]}`)

	res := check(t, srv)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Note, "no runs found")
}

func TestCheckNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	c := &Client{BaseURL: srv.URL}
	res := c.Check(context.Background(), "acme", "widget", "ci-tests.yml", "main")
	assert.True(t, res.Applicable)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Note, "request failed")
}

func TestCheckSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{"workflow_runs":[{"status":"completed","conclusion":"success"}]}`)
	}))
	t.Cleanup(srv.Close)

	c := &Client{BaseURL: srv.URL, Token: "tok123", UserAgent: "phoenix-2.0-orch-integrator"}
	res := c.Check(context.Background(), "acme", "widget", "ci-tests.yml", "main")
	require.True(t, res.Passed)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "phoenix-2.0-orch-integrator", gotUA)
	assert.Equal(t, "application/vnd.github+json", gotAccept)
}

func TestBlocks(t *testing.T) {
	pass := Result{Applicable: true, Passed: true, WorkflowExists: true}
	failExisting := Result{Applicable: true, WorkflowExists: true}
	missing := Result{Applicable: true}
	na := NotApplicable()

	assert.False(t, pass.Blocks(ModeAuto))
	assert.False(t, pass.Blocks(ModeRequire))

	assert.True(t, failExisting.Blocks(ModeAuto))
	assert.True(t, failExisting.Blocks(ModeRequire))

	assert.False(t, missing.Blocks(ModeAuto))
	assert.True(t, missing.Blocks(ModeRequire))

	assert.False(t, na.Blocks(ModeRequire))
	assert.False(t, failExisting.Blocks(ModeOff))
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"off", "auto", "require"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), m)
	}
	_, err := ParseMode("strict")
	assert.Error(t, err)
}
