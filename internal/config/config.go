// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config assembles the explicit run configuration for the setup
// pipeline. Everything is resolved once at startup and passed down; no
// component reads the environment on its own.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/phoenix-oss/orchsetup/internal/cigate"
)

// Defaults for the CI gate flags.
const (
	DefaultWorkflow  = "ci-tests.yml"
	DefaultBranch    = "main"
	DefaultUserAgent = "phoenix-2.0-orch-integrator"
)

// Config is the full, resolved configuration of one setup run.
type Config struct {
	// URLs to process, in order, after merging --config files and
	// positional arguments.
	URLs []string
	// Skip holds substring filters; a repo whose URL contains any of them
	// is skipped without cloning.
	Skip []string

	NoBuild bool
	Shallow bool
	// Timeout bounds each individual subprocess; zero means unbounded.
	Timeout time.Duration

	GateMode cigate.Mode
	Workflow string
	Branch   string

	// Token and UserAgent feed the GitHub API calls; both are optional.
	Token     string
	UserAgent string
}

// LoadEnv resolves the GitHub credentials from a .env file (if present) and
// the process environment. GITHUB_PAT wins over GITHUB_TOKEN.
func LoadEnv() (token, userAgent string) {
	_ = godotenv.Load()

	token = firstNonEmpty(os.Getenv("GITHUB_PAT"), os.Getenv("GITHUB_TOKEN"))
	userAgent = firstNonEmpty(os.Getenv("GITHUB_USER_AGENT"), DefaultUserAgent)
	return token, userAgent
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
