// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package cli implements the cqrsgen command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/albertocavalcante/cqrsgen/internal/config"
)

// NewRootCmd returns the cqrsgen command with every subcommand attached.
// Targets are taken from the generator registry.
func NewRootCmd(version string) *cobra.Command {
	v := config.New()
	var configFile string

	root := &cobra.Command{
		Use:   "cqrsgen",
		Short: "Generate CQRS building blocks from a service spec",
		Long: `cqrsgen reads a declarative service spec (entities, fields and
operations) and generates the aggregate, events, commands, queries,
handlers, validators, models, persistence mapping, builders and tests of
every entity.

Regeneration is idempotent: generated members are updated in place,
editable bodies are kept, and members the spec no longer produces are
flagged with //cqrsgen:orphan instead of being deleted.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default: ./.cqrsgen.yaml when present)")
	pf.StringP("spec", "s", "", "path of the service spec")
	pf.StringP("output", "o", ".", "output root directory")
	pf.String("module", "", "import path of the output root (default: derived from the namespace)")
	pf.StringP("target", "t", "go", "target language")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "also write JSON logs to this rotated file")
	bindFlags(v, root, map[string]string{
		config.KeySpec:     "spec",
		config.KeyOutput:   "output",
		config.KeyModule:   "module",
		config.KeyTarget:   "target",
		config.KeyLogLevel: "log-level",
		config.KeyLogFile:  "log-file",
	})

	load := func(args []string) (*config.Config, error) {
		if len(args) > 0 {
			v.Set(config.KeySpec, args[0])
		}
		cfg, err := config.Load(v, configFile)
		if err != nil {
			return nil, err
		}
		if cfg.Spec == "" {
			return nil, fmt.Errorf("no spec given (pass it as an argument, --spec or %s_SPEC)", config.EnvPrefix)
		}
		return cfg, nil
	}

	root.AddCommand(generateCmd(v, load))
	root.AddCommand(validateCmd(load))
	root.AddCommand(planCmd(load))
	root.AddCommand(targetsCmd())
	return root
}

// bindFlags binds each config key to the flag of cmd it names. A key
// naming no flag panics.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.PersistentFlags().Lookup(name)
		if flag == nil {
			flag = cmd.Flags().Lookup(name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("bind %s to --%s: %v", key, name, err))
		}
	}
}

// loader resolves the configuration of a command invocation.
type loader func(args []string) (*config.Config, error)
