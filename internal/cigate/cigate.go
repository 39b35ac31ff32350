// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cigate checks a repository's GitHub Actions status before it is
// integrated as an ORCH.
package cigate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Mode selects the gate's enforcement policy.
type Mode string

const (
	// ModeOff disables the gate entirely.
	ModeOff Mode = "off"
	// ModeAuto rejects only when a workflow exists and its latest run is
	// not a success. Repos without the workflow pass through with a note.
	ModeAuto Mode = "auto"
	// ModeRequire rejects when the workflow is missing or not passing.
	ModeRequire Mode = "require"
)

// ParseMode validates a --ci-gate flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOff, ModeAuto, ModeRequire:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid ci-gate mode %q (want off, auto, or require)", s)
}

// Result is the tri-state gate outcome for one repository.
type Result struct {
	// Applicable is false for URLs that are not GitHub-shaped; the gate
	// then has nothing to say.
	Applicable bool
	// Passed means the latest run of the workflow completed with success.
	Passed bool
	// WorkflowExists distinguishes "no workflow" from "workflow failing"
	// for ModeAuto.
	WorkflowExists bool
	// Note is the human-readable diagnostic embedded in the report.
	Note string
}

// Blocks reports whether this result rejects integration under mode.
func (r Result) Blocks(mode Mode) bool {
	if mode == ModeOff || !r.Applicable {
		return false
	}
	switch mode {
	case ModeRequire:
		return !r.WorkflowExists || !r.Passed
	case ModeAuto:
		return r.WorkflowExists && !r.Passed
	}
	return false
}

// Client performs the read-only GitHub API calls. Token and UserAgent come
// from the environment and are optional; BaseURL is overridable for tests.
type Client struct {
	BaseURL   string
	Token     string
	UserAgent string
	HTTP      *http.Client
}

const defaultBaseURL = "https://api.github.com"

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return defaultBaseURL
}

// Check queries whether workflow exists for owner/repo and whether its latest
// run on branch succeeded. API or network errors are gate failures carrying a
// diagnostic; there are no retries.
func (c *Client) Check(ctx context.Context, owner, repo, workflow, branch string) Result {
	base := fmt.Sprintf("%s/repos/%s/%s", c.baseURL(), owner, repo)

	status, _, err := c.getJSON(ctx, fmt.Sprintf("%s/actions/workflows/%s", base, url.PathEscape(workflow)))
	if status == http.StatusNotFound {
		return Result{
			Applicable: true,
			Note:       fmt.Sprintf("CI gate: workflow '%s' not found", workflow),
		}
	}
	if err != nil {
		return failed(fmt.Sprintf("CI gate: GitHub API request failed (%v)", err))
	}
	if status >= 400 {
		return failed(fmt.Sprintf("CI gate: GitHub API error (%d)", status))
	}

	runsURL := fmt.Sprintf("%s/actions/workflows/%s/runs?branch=%s&per_page=1",
		base, url.PathEscape(workflow), url.QueryEscape(branch))
	status, body, err := c.getJSON(ctx, runsURL)
	if err != nil {
		return failed(fmt.Sprintf("CI gate: GitHub API request failed (%v)", err))
	}
	if status >= 400 {
		return failed(fmt.Sprintf("CI gate: cannot read workflow runs (%d)", status))
	}

	var runs struct {
		WorkflowRuns []struct {
			Status     string `json:"status"`
			Conclusion string `json:"conclusion"`
			HTMLURL    string `json:"html_url"`
		} `json:"workflow_runs"`
	}
	if err := json.Unmarshal(body, &runs); err != nil {
		return failed(fmt.Sprintf("CI gate: cannot decode workflow runs (%v)", err))
	}
	if len(runs.WorkflowRuns) == 0 {
		return failed(fmt.Sprintf("CI gate: no runs found for '%s' on branch '%s'", workflow, branch))
	}

	latest := runs.WorkflowRuns[0]
	runStatus := strings.ToLower(latest.Status)
	conclusion := strings.ToLower(latest.Conclusion)

	if runStatus != "completed" {
		return failed(strings.TrimSpace(fmt.Sprintf("CI gate: latest run not completed (status=%s) %s", runStatus, latest.HTMLURL)))
	}
	if conclusion != "success" {
		return failed(strings.TrimSpace(fmt.Sprintf("CI gate: latest run did not succeed (conclusion=%s) %s", conclusion, latest.HTMLURL)))
	}
	return Result{
		Applicable:     true,
		Passed:         true,
		WorkflowExists: true,
		Note:           strings.TrimSpace("CI gate: latest run success " + latest.HTMLURL),
	}
}

func failed(note string) Result {
	return Result{Applicable: true, WorkflowExists: true, Note: note}
}

// NotApplicable is the result for URLs the gate cannot evaluate.
func NotApplicable() Result {
	return Result{Note: "CI gate: skipped (non-GitHub URL)"}
}

func (c *Client) getJSON(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
