// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Command cqrsgen generates CQRS building blocks from a service spec.
//
// Usage:
//
//	cqrsgen generate [spec] [flags]
//	cqrsgen validate [spec]
//	cqrsgen plan [spec]
//	cqrsgen targets
//
// Flags:
//
//	-s, --spec          Path of the service spec
//	-o, --output        Output root directory (default: .)
//	--module            Import path of the output root
//	-t, --target        Target language (default: go)
//	-j, --workers       Entities processed at once
//	--partial-apply     Write the files that succeeded even when others failed
//	--dry-run           Report what would change without writing
//	--metrics-file      Write run metrics to this file
//	--config            Config file (default: ./.cqrsgen.yaml)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/albertocavalcante/cqrsgen/generator"
	"github.com/albertocavalcante/cqrsgen/generators/golang"
	"github.com/albertocavalcante/cqrsgen/internal/cli"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	generator.Register(golang.New())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	return root.ExecuteContext(ctx)
}
