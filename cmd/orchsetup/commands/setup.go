// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phoenix-oss/orchsetup/cmd/orchsetup/internal/clierr"
	"github.com/phoenix-oss/orchsetup/internal/cigate"
	"github.com/phoenix-oss/orchsetup/internal/config"
	"github.com/phoenix-oss/orchsetup/internal/execx"
	"github.com/phoenix-oss/orchsetup/internal/orch"
	"github.com/phoenix-oss/orchsetup/internal/projectroot"
	"github.com/phoenix-oss/orchsetup/internal/report"
)

// NewSetupCommand constructs the `setup` command: the clone/gate/detect/build
// pipeline over a list of repository URLs.
func NewSetupCommand() *cobra.Command {
	var (
		configPath string
		noBuild    bool
		shallow    bool
		skip       []string
		gateMode   string
		workflow   string
		branch     string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "setup [urls...]",
		Short: "Clone and build ORCH repos, then write the setup log",
		Long: `Clone (or fast-forward update) each repository into ../orch_repos, detect its
toolchain, run safe-ish best-effort build steps in isolation, and write a
markdown setup log to the Phoenix project root.

Python repos are installed into a per-repo venv under ../orch_repos/.venvs/.
Rust repos attempt the WASM component build first and fall back to a plain
release build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveSetupConfig(args, configPath, skip, gateMode, workflow, branch, noBuild, shallow, timeout)
			if err != nil {
				return err
			}
			return runSetup(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a newline-delimited URL file or a repos.yaml manifest")
	cmd.Flags().BoolVar(&noBuild, "no-build", false, "only clone/update repos; skip build/install")
	cmd.Flags().BoolVar(&shallow, "shallow", false, "use shallow clones (depth=1)")
	cmd.Flags().StringArrayVar(&skip, "skip", nil, "skip repos whose URL contains this substring (repeatable)")
	cmd.Flags().StringVar(&gateMode, "ci-gate", string(cigate.ModeAuto), "GitHub Actions CI gate: auto=reject only a failing existing workflow; require=fail if missing or not passing; off=skip check")
	cmd.Flags().StringVar(&workflow, "ci-workflow", config.DefaultWorkflow, "workflow file name to check")
	cmd.Flags().StringVar(&branch, "ci-branch", config.DefaultBranch, "branch to check CI status for")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-command timeout (0 = unbounded)")

	return cmd
}

func resolveSetupConfig(args []string, configPath string, skip []string, gateMode, workflow, branch string, noBuild, shallow bool, timeout time.Duration) (config.Config, error) {
	mode, err := cigate.ParseMode(gateMode)
	if err != nil {
		return config.Config{}, clierr.Wrap(2, "setup", err)
	}

	var urls []string
	if configPath != "" {
		man, err := config.LoadRepoList(configPath)
		if err != nil {
			return config.Config{}, clierr.Wrap(2, "setup", err)
		}
		urls = append(urls, man.Repos...)
		skip = append(skip, man.Skip...)
	}
	urls = append(urls, args...)

	if len(urls) == 0 {
		return config.Config{}, clierr.New(2, "no URLs provided; pass URLs or --config")
	}

	token, userAgent := config.LoadEnv()
	return config.Config{
		URLs:      urls,
		Skip:      skip,
		NoBuild:   noBuild,
		Shallow:   shallow,
		Timeout:   timeout,
		GateMode:  mode,
		Workflow:  workflow,
		Branch:    branch,
		Token:     token,
		UserAgent: userAgent,
	}, nil
}

func runSetup(cmd *cobra.Command, cfg config.Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return clierr.Wrap(1, "setup", err)
	}
	root, err := projectroot.Find(wd)
	if err != nil {
		return clierr.Wrap(1, "setup", err)
	}

	orchDir := projectroot.OrchDir(root)
	venvsDir := projectroot.VenvsDir(root)
	for _, dir := range []string{orchDir, venvsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return clierr.Wrap(1, "setup: preparing "+dir, err)
		}
	}

	pipeline := &orch.Pipeline{
		Runner: execx.Exec{Timeout: cfg.Timeout},
		Gate: &cigate.Client{
			Token:     cfg.Token,
			UserAgent: cfg.UserAgent,
		},
		OrchDir:  orchDir,
		VenvsDir: venvsDir,
		Events:   newConsoleEvents(cmd.OutOrStdout()),
	}

	started := time.Now().UTC()
	results := pipeline.Run(cmd.Context(), orch.Options{
		URLs:     cfg.URLs,
		Skip:     cfg.Skip,
		NoBuild:  cfg.NoBuild,
		Shallow:  cfg.Shallow,
		GateMode: cfg.GateMode,
		Workflow: cfg.Workflow,
		Branch:   cfg.Branch,
	})

	renderer := report.Renderer{
		ProjectRoot: root,
		OrchDir:     orchDir,
		Started:     started,
	}
	reportPath := projectroot.ReportPath(root)
	if err := report.WriteAtomic(reportPath, []byte(renderer.Render(results))); err != nil {
		return clierr.Wrap(1, "setup: writing report", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nWrote docs: %s\n", reportPath)

	if orch.AnyFailed(results) {
		return clierr.New(1, "one or more ORCH repos failed; see "+reportPath)
	}
	return nil
}
