// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phoenix-oss/orchsetup/cmd/orchsetup/internal/clierr"
	"github.com/phoenix-oss/orchsetup/internal/icon"
)

// NewIconsCommand constructs the `icons` command: render the placeholder
// Phoenix app icon as a PNG.
func NewIconsCommand() *cobra.Command {
	var (
		output string
		size   int
	)

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Generate the placeholder Phoenix app icon",
		RunE: func(cmd *cobra.Command, args []string) error {
			img := icon.Generate(size)
			if err := icon.WritePNG(output, img); err != nil {
				return clierr.Wrap(1, "icons", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", output, size, size)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "icon.png", "output PNG path")
	cmd.Flags().IntVar(&size, "size", icon.DefaultSize, "icon edge length in pixels")

	return cmd
}
