// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orch drives the per-repository setup pipeline: skip filter, CI
// gate, clone/update, ecosystem detection, and best-effort build. Repositories
// are processed strictly one at a time, in input order, and a failure never
// stops the run.
package orch

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/phoenix-oss/orchsetup/internal/builder"
	"github.com/phoenix-oss/orchsetup/internal/cigate"
	"github.com/phoenix-oss/orchsetup/internal/detect"
	"github.com/phoenix-oss/orchsetup/internal/execx"
	"github.com/phoenix-oss/orchsetup/internal/gitclient"
	"github.com/phoenix-oss/orchsetup/internal/repourl"
)

// Events receives progress callbacks while the pipeline works through URLs.
type Events interface {
	RepoStart(name, url string)
	BuildStart(name string, eco detect.Ecosystem)
	Note(msg string)
	RepoDone(r Result)
}

// Options selects what the pipeline does per run.
type Options struct {
	URLs     []string
	Skip     []string // substring filters; a match skips the repo entirely
	NoBuild  bool
	Shallow  bool
	GateMode cigate.Mode
	Workflow string
	Branch   string
}

// Pipeline wires the pieces the per-URL flow needs.
type Pipeline struct {
	Runner   execx.Runner
	Gate     *cigate.Client
	OrchDir  string
	VenvsDir string
	Events   Events
}

// Run processes every URL sequentially and returns one Result per URL, in
// input order.
func (p *Pipeline) Run(ctx context.Context, opts Options) []Result {
	events := p.Events
	if events == nil {
		events = noopEvents{}
	}

	results := make([]Result, 0, len(opts.URLs))
	for _, url := range opts.URLs {
		results = append(results, p.one(ctx, events, opts, url))
	}
	return results
}

func (p *Pipeline) one(ctx context.Context, events Events, opts Options, url string) Result {
	name := repourl.Name(url)
	dest := filepath.Join(p.OrchDir, name)

	if matchesSkip(url, opts.Skip) {
		res := Result{
			Name:     name,
			URL:      url,
			Dest:     dest,
			Detected: detect.Skipped,
			Status:   StatusSkipped,
			Notes:    []string{"Skipped by --skip filter."},
		}
		events.RepoDone(res)
		return res
	}

	events.RepoStart(name, url)

	var ciNotes []string
	if opts.GateMode != cigate.ModeOff {
		gate := p.checkGate(ctx, url, opts)
		ciNotes = append(ciNotes, gate.Note)
		events.Note(gate.Note)
		if gate.Blocks(opts.GateMode) {
			res := Result{
				Name:     name,
				URL:      url,
				Dest:     dest,
				Detected: detect.CIGate,
				Status:   StatusFailure,
				Err:      gate.Note,
				Notes:    ciNotes,
			}
			events.RepoDone(res)
			return res
		}
	}

	clone := gitclient.CloneOrUpdate(ctx, p.Runner, url, dest, opts.Shallow)
	if !clone.OK {
		res := Result{
			Name:     name,
			URL:      url,
			Dest:     dest,
			Detected: detect.Unknown,
			Commands: clone.Commands,
			Status:   StatusFailure,
			Err:      clone.Err,
			Notes:    append(ciNotes, "Clone failed; build not attempted."),
		}
		events.RepoDone(res)
		return res
	}

	detected := detect.Detect(dest)
	res := Result{
		Name:     name,
		URL:      url,
		Dest:     dest,
		Detected: detected,
		Commands: clone.Commands,
		Status:   StatusSuccess,
	}

	if opts.NoBuild {
		res.Status = StatusSkipped
		res.Notes = append(ciNotes, "Build skipped due to --no-build.")
		events.RepoDone(res)
		return res
	}

	events.BuildStart(name, detected)
	build := builder.Build(ctx, detected, builder.Env{
		RepoDir:  dest,
		VenvsDir: p.VenvsDir,
		Runner:   p.Runner,
	})
	res.Commands = append(res.Commands, build.Commands...)
	res.Entrypoint = build.Entrypoint
	res.Notes = append(ciNotes, build.Notes...)
	if !build.OK {
		res.Status = StatusFailure
		res.Err = build.Err
	}
	events.RepoDone(res)
	return res
}

func (p *Pipeline) checkGate(ctx context.Context, url string, opts Options) cigate.Result {
	owner, repo, ok := repourl.ParseOwnerRepo(url)
	if !ok {
		return cigate.NotApplicable()
	}
	return p.Gate.Check(ctx, owner, repo, opts.Workflow, opts.Branch)
}

func matchesSkip(url string, skip []string) bool {
	for _, s := range skip {
		if s != "" && strings.Contains(url, s) {
			return true
		}
	}
	return false
}

type noopEvents struct{}

func (noopEvents) RepoStart(string, string) {}

func (noopEvents) BuildStart(string, detect.Ecosystem) {}

func (noopEvents) Note(string) {}

func (noopEvents) RepoDone(Result) {}
