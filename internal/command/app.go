// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/whctlgo/internal/config"
	"github.com/staranto/whctlgo/internal/meta"
)

// InitApp builds the whctl command tree for args.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the whctl
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. It could be a flag, so ignore those.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, err := config.Load(ns)
	if err != nil {
		log.WithError(err).Debug("running without a config file")
	}

	m := meta.Meta{
		Args:     args,
		Config:   cfg,
		Context:  ctx,
		Versions: NewResolver(),
	}

	app := &cli.Command{
		Name:  "whctl",
		Usage: "GitHub webhook schema browser",
		Flags: NewRootFlags(cfg.Source),
		Metadata: map[string]any{
			"meta": m,
		},
	}

	app.Commands = append(app.Commands,
		LsCommandBuilder(app, m),
		GetCommandBuilder(app, m),
		DumpCommandBuilder(app, m),
		DiffCommandBuilder(app, m),
		BrowseCommandBuilder(app, m),
		CompletionCommandBuilder(app, m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
