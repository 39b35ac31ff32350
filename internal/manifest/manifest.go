// SPDX-License-Identifier: AGPL-3.0-or-later

// Package manifest emits the Phoenix Marketplace manifest for an extension
// repository, inferring name and version from its Cargo.toml.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// FileName is the fixed manifest location in an extension repo root.
const FileName = "phoenix-marketplace.json"

// Manifest is the marketplace metadata document.
type Manifest struct {
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	Description     string   `json:"description"`
	TemplateVersion string   `json:"template_version"`
	Capabilities    []string `json:"capabilities"`
	Billing         Billing  `json:"billing"`
}

type Billing struct {
	Tier string `json:"tier"`
}

var (
	cargoName    = regexp.MustCompile(`(?m)^name\s*=\s*"([^"]+)"\s*$`)
	cargoVersion = regexp.MustCompile(`(?m)^version\s*=\s*"([^"]+)"\s*$`)
)

// FromCargo builds a manifest from the Cargo.toml in dir. The parse is
// intentionally minimal (line-anchored key matching), good enough for the
// extension template it serves.
func FromCargo(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	if err != nil {
		return Manifest{}, fmt.Errorf("Cargo.toml not found; cannot infer name/version: %w", err)
	}

	m := Manifest{
		Name:            "phoenix_extension",
		Version:         "0.1.0",
		Description:     "Phoenix extension",
		TemplateVersion: "1.0.0",
		Capabilities:    []string{},
		Billing:         Billing{Tier: "free"},
	}
	if match := cargoName.FindSubmatch(data); match != nil {
		m.Name = string(match[1])
	}
	if match := cargoVersion.FindSubmatch(data); match != nil {
		m.Version = string(match[1])
	}
	return m, nil
}

// Write emits the manifest as indented JSON with a trailing newline.
func (m Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
