// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/albertocavalcante/cqrsgen/generator"
	"github.com/albertocavalcante/cqrsgen/internal/config"
	"github.com/albertocavalcante/cqrsgen/internal/logx"
	"github.com/albertocavalcante/cqrsgen/internal/metrics"
	"github.com/albertocavalcante/cqrsgen/internal/run"
	"github.com/albertocavalcante/cqrsgen/model"
)

// errFilesFailed is returned when a partial apply left failed files.
var errFilesFailed = errors.New("some files failed")

func generateCmd(v *viper.Viper, load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [spec]",
		Short: "Generate or update the artifacts of a spec",
		Long: `Generate every artifact of the spec under the output root.

Existing files are merged member by member. Files whose content does not
change are not written. By default nothing is written when any file
fails; --partial-apply writes the files that succeeded.

Examples:
  cqrsgen generate service.yaml -o ./gen
  cqrsgen generate --dry-run
  CQRSGEN_WORKERS=1 cqrsgen generate service.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(args)
			if err != nil {
				return err
			}
			return generate(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.IntP("workers", "j", 0, "entities processed at once (default: GOMAXPROCS)")
	f.Bool("partial-apply", false, "write the files that succeeded even when others failed")
	f.Bool("dry-run", false, "report what would change without writing")
	f.String("metrics-file", "", "write run metrics in the Prometheus text format to this file")
	bindFlags(v, cmd, map[string]string{
		config.KeyWorkers:      "workers",
		config.KeyPartialApply: "partial-apply",
		config.KeyDryRun:       "dry-run",
		config.KeyMetricsFile:  "metrics-file",
	})
	return cmd
}

func generate(cmd *cobra.Command, cfg *config.Config) error {
	target, err := generator.Lookup(cfg.Target)
	if err != nil {
		return err
	}
	svc, err := loadSpec(cmd, cfg.Spec)
	if err != nil {
		return err
	}

	log, err := logx.New("cqrsgen", cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts := []run.Option{run.WithLogger(log)}
	var m *metrics.Metrics
	if cfg.MetricsFile != "" {
		m = metrics.New(nil)
		opts = append(opts, run.WithMetrics(m))
	}

	runner := run.New(run.Config{
		Output:       cfg.Output,
		Module:       cfg.Module,
		Workers:      cfg.Workers,
		PartialApply: cfg.PartialApply,
		DryRun:       cfg.DryRun,
	}, target, opts...)

	report, runErr := runner.Run(cmd.Context(), svc)
	if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}
	if m != nil {
		if err := m.WriteFile(cfg.MetricsFile); err != nil {
			log.Warn("metrics not written", zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}
	if n := len(report.Failures()); n > 0 {
		return fmt.Errorf("%w: %d", errFilesFailed, n)
	}
	return nil
}

// loadSpec reads the spec at path and prints its problems when it does
// not validate.
func loadSpec(cmd *cobra.Command, path string) (*model.Service, error) {
	svc, err := model.Load(path)
	var specErr *model.SpecError
	if errors.As(err, &specErr) {
		printProblems(cmd.ErrOrStderr(), specErr)
		return nil, fmt.Errorf("%s: %w", path, model.ErrInvalidSpec)
	}
	return svc, err
}
