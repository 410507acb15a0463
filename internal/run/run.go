// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package run orchestrates a generation run: it plans the artifacts of
// every entity, renders and merges them concurrently, and commits the
// changed files in one batch.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/albertocavalcante/cqrsgen/generator"
	"github.com/albertocavalcante/cqrsgen/internal/merge"
	"github.com/albertocavalcante/cqrsgen/internal/metrics"
	"github.com/albertocavalcante/cqrsgen/internal/naming"
	"github.com/albertocavalcante/cqrsgen/internal/outfs"
	"github.com/albertocavalcante/cqrsgen/model"
	"github.com/albertocavalcante/cqrsgen/plan"
)

// Config controls a run.
type Config struct {
	// Output is the output root directory.
	Output string

	// Module is the import path of the output root. When empty it is
	// derived from the namespace.
	Module string

	// Workers bounds the entities processed at once. Zero or less means
	// GOMAXPROCS.
	Workers int

	// PartialApply commits the successful files even when others failed.
	PartialApply bool

	// DryRun renders and merges without writing anything.
	DryRun bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics records the run in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// Runner executes generation runs with one target.
type Runner struct {
	cfg     Config
	target  generator.Target
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New returns a runner rendering with target.
func New(cfg Config, target generator.Target, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, target: target, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// execution is the state of one Run call.
type execution struct {
	*Runner
	fs     *outfs.FS
	batch  *outfs.Batch
	log    *zap.Logger
	svc    *model.Service
	opts   plan.Options
	genCfg generator.Config
}

// Run generates svc into the output root and returns the report. A spec
// that does not validate fails with a *model.SpecError before any file is
// read. In fail-fast mode any failed file aborts the batch and Run
// returns the report together with ErrRunFailed.
func (r *Runner) Run(ctx context.Context, svc *model.Service) (*Report, error) {
	if svc == nil {
		return nil, errors.New("run: nil service")
	}
	if err := model.Validate(svc); err != nil {
		return nil, err
	}
	out, err := outfs.New(r.cfg.Output)
	if err != nil {
		return nil, err
	}

	module := r.cfg.Module
	if module == "" {
		module = naming.ModulePath(svc.Namespace)
	}
	report := &Report{ID: uuid.New(), Started: time.Now(), DryRun: r.cfg.DryRun}
	x := &execution{
		Runner: r,
		fs:     out,
		log:    r.log.With(zap.String("run_id", report.ID.String())),
		svc:    svc,
		opts:   plan.Options{Module: module, Version: r.target.Metadata().Version},
		genCfg: generator.Config{Module: module},
	}
	if !r.cfg.DryRun {
		x.batch = out.Begin()
	}
	x.log.Info("run started",
		zap.String("namespace", svc.Namespace),
		zap.Int("entities", len(svc.Entities)),
		zap.String("output", out.Root()),
		zap.Bool("dry_run", r.cfg.DryRun))

	files, err := x.generate(ctx)
	report.Files = files
	if err != nil {
		x.abort()
		report.Duration = time.Since(report.Started)
		return report, err
	}
	err = x.commit(report)
	report.Duration = time.Since(report.Started)
	if r.metrics != nil {
		r.metrics.RecordRun(report.Duration)
	}

	counts := report.Counts()
	fields := []zap.Field{
		zap.Bool("committed", report.Committed),
		zap.Duration("duration", report.Duration),
	}
	for _, s := range Statuses {
		fields = append(fields, zap.Int(s.String(), counts[s]))
	}
	x.log.Info("run finished", fields...)
	return report, err
}

// generate processes every entity on a bounded worker pool and the
// registry on its own goroutine.
func (x *execution) generate(ctx context.Context) ([]FileReport, error) {
	workers := x.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Workers announce each planned entity to the registry owner, which
	// is the only goroutine touching the registry artifact.
	planned := make(chan int, len(x.svc.Entities))
	registry := make(chan FileReport, 1)
	go func() {
		registry <- x.registry(ctx, planned)
	}()

	slots := make([][]FileReport, len(x.svc.Entities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range x.svc.Entities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = x.entity(gctx, e)
			planned <- i
			return gctx.Err()
		})
	}
	err := g.Wait()
	close(planned)
	reg := <-registry
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	var files []FileReport
	for _, s := range slots {
		files = append(files, s...)
	}
	return append(files, reg), nil
}

// entity processes the artifacts of one entity.
func (x *execution) entity(ctx context.Context, e *model.Entity) []FileReport {
	artifacts := plan.Plan(x.svc, e, x.opts)
	log := x.log.With(zap.String("entity", e.Name))
	log.Debug("entity planned", zap.Int("artifacts", len(artifacts)))

	files := make([]FileReport, 0, len(artifacts))
	for _, a := range artifacts {
		if ctx.Err() != nil {
			break
		}
		files = append(files, x.artifact(ctx, log, generator.Request{
			Service:  x.svc,
			Artifact: a,
			Entity:   e,
			Config:   x.genCfg,
		}))
	}
	return files
}

// registry waits for every entity to be planned, then renders and merges
// the registry once.
func (x *execution) registry(ctx context.Context, planned <-chan int) FileReport {
	seen := make([]bool, len(x.svc.Entities))
	for i := range planned {
		seen[i] = true
	}
	var entities []*model.Entity
	for i, e := range x.svc.Entities {
		if seen[i] {
			entities = append(entities, e)
		}
	}
	a := plan.PlanRegistry(x.svc, x.opts)
	if len(entities) != len(x.svc.Entities) || ctx.Err() != nil {
		return FileReport{Path: a.Path, Kind: a.Kind, Status: Failed, Err: errors.New("entities did not finish")}
	}
	return x.artifact(ctx, x.log, generator.Request{
		Service:  x.svc,
		Artifact: a,
		Entities: entities,
		Config:   x.genCfg,
	})
}

// artifact renders, merges and stages one artifact.
func (x *execution) artifact(ctx context.Context, log *zap.Logger, req generator.Request) FileReport {
	start := time.Now()
	a := req.Artifact
	fr := FileReport{Path: a.Path, Entity: a.Entity, Kind: a.Kind}
	log = log.With(zap.String("path", a.Path))

	fr.Status, fr.Deltas, fr.Err = x.process(ctx, req)
	if fr.Err != nil {
		fr.Status = Failed
		log.Warn("artifact failed", zap.Error(fr.Err))
	} else {
		log.Debug("artifact merged",
			zap.Stringer("status", fr.Status),
			zap.Int("deltas", len(fr.Deltas)))
	}

	if x.metrics != nil {
		x.metrics.RecordFile(fr.Status.String())
		x.metrics.RecordMerge(string(a.Kind), time.Since(start))
		counts := make(map[merge.DeltaKind]int)
		for _, d := range fr.Deltas {
			counts[d.Kind]++
		}
		for k, n := range counts {
			x.metrics.RecordDelta(k.String(), n)
		}
	}
	return fr
}

func (x *execution) process(ctx context.Context, req generator.Request) (Status, []merge.Delta, error) {
	path := req.Artifact.Path
	gen, err := x.target.Render(ctx, req)
	if err != nil {
		return Failed, nil, fmt.Errorf("render %s: %w", path, err)
	}

	existing, exists, err := x.fs.Read(path)
	if err != nil {
		return Failed, nil, &FileError{Path: path, Op: "read", Err: err}
	}
	if exists && existing == nil {
		existing = []byte{}
	}

	res, err := merge.Merge(existing, gen.Text, x.target)
	if err != nil {
		return Failed, nil, fmt.Errorf("merge %s: %w", path, err)
	}
	changed := !exists || !bytes.Equal(existing, res.Text)
	status := statusOf(res, changed)

	if changed && x.batch != nil {
		if err := x.batch.Stage(ctx, path, res.Text); err != nil {
			return Failed, nil, &FileError{Path: path, Op: "stage", Err: err}
		}
	}
	return status, res.Deltas, nil
}

// commit applies the batch according to the failure policy.
func (x *execution) commit(report *Report) error {
	if x.batch == nil {
		return nil
	}
	failures := report.Failures()
	if len(failures) > 0 && !x.cfg.PartialApply {
		x.batch.Abort()
		return fmt.Errorf("%w: %d of %d files failed", ErrRunFailed, len(failures), len(report.Files))
	}
	if err := x.batch.Commit(); err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return &FileError{Path: pe.Path, Op: "commit", Err: pe.Err}
		}
		return &FileError{Path: x.fs.Root(), Op: "commit", Err: err}
	}
	report.Committed = true
	return nil
}

func (x *execution) abort() {
	if x.batch != nil {
		x.batch.Abort()
	}
}
