// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package emit writes a run's artifacts into the output directory. Every
// artifact is first written in full to a staging directory inside the
// output directory. The prior run's artifacts are then moved aside into
// staging and the new ones renamed into place; if any rename fails the
// prior run is restored, so Dir holds either one complete run or the other.
package emit

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/last30days/internal/index"
	"github.com/pdiddy/last30days/internal/metrics"
	"github.com/pdiddy/last30days/internal/render"
	"github.com/pdiddy/last30days/pkg/types"
)

// Artifact file names.
const (
	ReportJSON     = "report.json"
	ReportMarkdown = "report.md"
	ReportCompact  = "report.txt"
	ContextSnippet = "last30days.context.md"
)

// EmitError reports a failure to write the run's output. It is fatal.
type EmitError struct {
	Path string
	Err  error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("output path unwritable: %s: %v", e.Path, e.Err)
}

func (e *EmitError) Unwrap() error { return e.Err }

// Paths are the final locations of a run's artifacts.
type Paths struct {
	Dir      string `json:"dir"`
	JSON     string `json:"json"`
	Markdown string `json:"markdown"`
	Compact  string `json:"compact"`
	Context  string `json:"context"`
	Index    string `json:"index"`
	Metrics  string `json:"metrics"`
}

// PathsIn returns the artifact paths inside dir.
func PathsIn(dir string) Paths {
	return Paths{
		Dir:      dir,
		JSON:     filepath.Join(dir, ReportJSON),
		Markdown: filepath.Join(dir, ReportMarkdown),
		Compact:  filepath.Join(dir, ReportCompact),
		Context:  filepath.Join(dir, ContextSnippet),
		Index:    filepath.Join(dir, index.FileName),
		Metrics:  filepath.Join(dir, metrics.FileName),
	}
}

// DefaultDir is the per-user output directory,
// ~/.local/share/last30days/out.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "last30days", "out"), nil
}

type artifact struct {
	name  string
	write func(ctx context.Context, path string, res types.RunResult, rec *metrics.Recorder) error
}

// artifacts are written in order; a var so tests can inject failures.
var artifacts = []artifact{
	{ReportJSON, func(_ context.Context, path string, res types.RunResult, _ *metrics.Recorder) error {
		return writeFile(path, func(w io.Writer) error { return render.JSON(w, res) })
	}},
	{ReportMarkdown, func(_ context.Context, path string, res types.RunResult, _ *metrics.Recorder) error {
		return writeFile(path, func(w io.Writer) error { render.Markdown(w, res); return nil })
	}},
	{ReportCompact, func(_ context.Context, path string, res types.RunResult, _ *metrics.Recorder) error {
		return writeFile(path, func(w io.Writer) error { render.Compact(w, res); return nil })
	}},
	{ContextSnippet, func(_ context.Context, path string, res types.RunResult, _ *metrics.Recorder) error {
		return writeFile(path, func(w io.Writer) error { render.ContextSnippet(w, res); return nil })
	}},
	{index.FileName, func(ctx context.Context, path string, res types.RunResult, _ *metrics.Recorder) error {
		return index.Build(ctx, path, res)
	}},
	{metrics.FileName, func(_ context.Context, path string, _ types.RunResult, rec *metrics.Recorder) error {
		return rec.WriteTextfile(path)
	}},
}

// rename moves staged and backed-up artifacts; a var so tests can fail it.
var rename = os.Rename

// Emitter writes RunResults under Dir.
type Emitter struct {
	Dir     string
	Metrics *metrics.Recorder
	Logger  *zap.Logger
}

// Emit writes every artifact for res and returns their paths. On failure
// nothing from this run is left in Dir, the prior run's artifacts are back
// in place, and the error is an *EmitError.
func (e *Emitter) Emit(ctx context.Context, res types.RunResult) (Paths, error) {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return Paths{}, &EmitError{Path: e.Dir, Err: err}
	}
	staging, err := os.MkdirTemp(e.Dir, ".staging-")
	if err != nil {
		return Paths{}, &EmitError{Path: e.Dir, Err: err}
	}
	defer os.RemoveAll(staging)

	for _, p := range types.Platforms {
		e.Metrics.Emitted(string(p), len(res.ItemsFor(p)), res.GeneratedAt)
	}

	for _, a := range artifacts {
		path := filepath.Join(staging, a.name)
		if err := a.write(ctx, path, res, e.Metrics); err != nil {
			return Paths{}, &EmitError{Path: filepath.Join(e.Dir, a.name), Err: err}
		}
	}

	if err := e.install(log, staging); err != nil {
		return Paths{}, err
	}

	paths := PathsIn(e.Dir)
	log.Info("report written", zap.String("dir", e.Dir), zap.Int("items", len(res.Items)))
	return paths, nil
}

// install swaps the staged artifacts into Dir. Existing artifacts are
// moved to staging/prior first; on any failure the installed ones are
// removed and the prior ones moved back.
func (e *Emitter) install(log *zap.Logger, staging string) error {
	prior := filepath.Join(staging, "prior")
	if err := os.Mkdir(prior, 0o755); err != nil {
		return &EmitError{Path: e.Dir, Err: err}
	}

	var saved, installed []string
	undo := func() {
		for _, name := range installed {
			if err := os.RemoveAll(filepath.Join(e.Dir, name)); err != nil {
				log.Warn("removing partial artifact", zap.String("name", name), zap.Error(err))
			}
		}
		for _, name := range saved {
			if err := rename(filepath.Join(prior, name), filepath.Join(e.Dir, name)); err != nil {
				log.Warn("restoring prior artifact", zap.String("name", name), zap.Error(err))
			}
		}
	}

	for _, a := range artifacts {
		dst := filepath.Join(e.Dir, a.name)
		if _, err := os.Lstat(dst); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			undo()
			return &EmitError{Path: dst, Err: err}
		}
		if err := rename(dst, filepath.Join(prior, a.name)); err != nil {
			undo()
			return &EmitError{Path: dst, Err: err}
		}
		saved = append(saved, a.name)
	}

	for _, a := range artifacts {
		dst := filepath.Join(e.Dir, a.name)
		if err := rename(filepath.Join(staging, a.name), dst); err != nil {
			undo()
			return &EmitError{Path: dst, Err: err}
		}
		installed = append(installed, a.name)
	}
	return nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := fill(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
