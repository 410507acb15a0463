// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/cqrsgen/generator"
	"github.com/albertocavalcante/cqrsgen/internal/naming"
	"github.com/albertocavalcante/cqrsgen/plan"
)

func validateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [spec]",
		Short: "Check a spec without generating anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(args)
			if err != nil {
				return err
			}
			svc, err := loadSpec(cmd, cfg.Spec)
			if err != nil {
				return err
			}
			ops := 0
			for _, e := range svc.Entities {
				ops += len(e.Operations)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d entities, %d operations\n",
				okLabel.Sprint("ok"), svc.Namespace, len(svc.Entities), ops)
			return nil
		},
	}
}

func planCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [spec]",
		Short: "List the artifacts a spec produces and their fingerprints",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(args)
			if err != nil {
				return err
			}
			target, err := generator.Lookup(cfg.Target)
			if err != nil {
				return err
			}
			svc, err := loadSpec(cmd, cfg.Spec)
			if err != nil {
				return err
			}

			module := cfg.Module
			if module == "" {
				module = naming.ModulePath(svc.Namespace)
			}
			opts := plan.Options{Module: module, Version: target.Metadata().Version}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tKIND\tVERB\tFINGERPRINT")
			for _, e := range svc.Entities {
				for _, a := range plan.Plan(svc, e, opts) {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Path, a.Kind, verbOf(a), a.Fingerprint)
				}
			}
			reg := plan.PlanRegistry(svc, opts)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", reg.Path, reg.Kind, "-", reg.Fingerprint)
			return w.Flush()
		},
	}
}

func verbOf(a plan.Artifact) string {
	if a.Verb().Name == "" {
		return "-"
	}
	return a.Verb().Name
}

func targetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the available targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tEXTENSIONS\tDESCRIPTION")
			for _, t := range generator.All() {
				meta := t.Metadata()
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", meta.Name, meta.Version,
					strings.Join(meta.FileExtensions, ","), meta.Description)
			}
			return w.Flush()
		},
	}
}
