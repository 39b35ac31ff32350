// SPDX-License-Identifier: AGPL-3.0-or-later

// Package repourl derives filesystem-safe names and GitHub coordinates from
// repository URLs.
package repourl

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultName is returned when a URL yields no usable name.
const DefaultName = "repo"

var unsafeRunes = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Name derives a directory-safe short name from a repository URL: the last
// non-empty path segment with a trailing ".git" stripped and any run of
// unsafe characters folded to "_". Never returns an empty string.
func Name(rawURL string) string {
	cleaned := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	name := cleaned
	if i := strings.LastIndex(cleaned, "/"); i >= 0 {
		name = cleaned[i+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	name = unsafeRunes.ReplaceAllString(name, "_")
	if name == "" {
		return DefaultName
	}
	return name
}

// ParseOwnerRepo extracts (owner, repo) from a GitHub HTTPS URL.
// It reports ok=false for anything that is not an
// http(s)://github.com/<owner>/<repo> shape.
func ParseOwnerRepo(rawURL string) (owner, repo string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", false
	}
	if !strings.EqualFold(u.Hostname(), "github.com") {
		return "", "", false
	}
	var parts []string
	for _, p := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", false
	}
	owner, repo = parts[0], strings.TrimSuffix(parts[1], ".git")
	return owner, repo, true
}
