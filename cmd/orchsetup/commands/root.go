// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Orchsetup - developer tooling for integrating third-party ORCH repositories
into the Phoenix project. It clones candidate repositories, verifies their CI
status, runs best-effort builds in isolation, and writes a markdown setup log
for the orchestration registry.

This program is free software licensed under the terms of the GNU AGPL v3 or
later. See https://www.gnu.org/licenses/ for license details.
*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the orchsetup root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("ORCHSETUP_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "orchsetup",
		Short:         "Orchsetup - Phoenix ORCH repository integration tooling",
		Long:          "Orchsetup clones ORCH candidate repositories, gates them on CI status, runs best-effort builds, and generates the Phoenix setup log.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of orchsetup",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "orchsetup version %s\n", version)
		},
	})

	cmd.AddCommand(NewSetupCommand())
	cmd.AddCommand(NewIconsCommand())
	cmd.AddCommand(NewManifestCommand())

	return cmd
}
