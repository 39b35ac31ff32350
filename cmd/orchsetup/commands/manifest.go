// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phoenix-oss/orchsetup/cmd/orchsetup/internal/clierr"
	"github.com/phoenix-oss/orchsetup/internal/manifest"
)

// NewManifestCommand constructs the `manifest` command: emit the Phoenix
// Marketplace metadata for an extension repo, inferred from its Cargo.toml.
func NewManifestCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Write the marketplace manifest for an extension repo",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.FromCargo(dir)
			if err != nil {
				return clierr.Wrap(2, "manifest", err)
			}
			path := filepath.Join(dir, manifest.FileName)
			if err := m.Write(path); err != nil {
				return clierr.Wrap(1, "manifest", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s %s)\n", path, m.Name, m.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "extension repository root")

	return cmd
}
