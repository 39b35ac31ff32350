// SPDX-License-Identifier: AGPL-3.0-or-later
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML shape of a repos.yaml file:
//
//	repos:
//	  - https://github.com/acme/widget.git
//	skip:
//	  - experimental
type Manifest struct {
	Repos []string `yaml:"repos"`
	Skip  []string `yaml:"skip"`
}

// LoadRepoList reads a repo list file. Files ending in .yaml/.yml are parsed
// as a Manifest; anything else is treated as a newline-delimited URL list
// where blank lines and lines starting with '#' are ignored.
func LoadRepoList(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("reading repo list %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Manifest{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		m.Repos = trimAll(m.Repos)
		m.Skip = trimAll(m.Skip)
		return m, nil
	}

	var m Manifest
	for _, line := range strings.Split(string(data), "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		m.Repos = append(m.Repos, s)
	}
	return m, nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
