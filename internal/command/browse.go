// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/whctlgo/internal/browse"
	"github.com/staranto/whctlgo/internal/meta"
)

// BrowseCommandAction opens the interactive browser on a version.
func BrowseCommandAction(ctx context.Context, cmd *cli.Command) error {
	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}
	return browse.Run(ctx, store, store.Canonical(cmd.Args().First()))
}

// BrowseCommandBuilder constructs the cli.Command definition for "browse".
func BrowseCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "browse",
		Usage:     "interactively browse the webhooks of a version",
		UsageText: "whctl browse [VERSION]",
		MaxArgs:   1,
		NoGlobals: true,
		Action:    BrowseCommandAction,
		Meta:      meta,
	}).Build()
}
