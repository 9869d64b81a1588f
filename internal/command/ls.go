// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/whctlgo/internal/meta"
	"github.com/staranto/whctlgo/internal/output"
	"github.com/staranto/whctlgo/internal/webhooks"
)

var lsColumns = []string{"name", "actions", "default", "params", "types"}

// lsRows turns the initial listing into one row per category.
func lsRows(listing []webhooks.InitialWebhook) []map[string]any {
	rows := make([]map[string]any, 0, len(listing))
	for _, w := range listing {
		def := ""
		if len(w.ActionTypes) > 0 {
			def = w.ActionTypes[0]
		}
		params, _ := w.Data.BodyParameters()
		rows = append(rows, map[string]any{
			"name":    w.Name,
			"actions": len(w.ActionTypes),
			"default": def,
			"params":  len(params),
			"types":   w.ActionTypes,
		})
	}
	return rows
}

// LsCommandAction lists the webhook categories of a version.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	version := cmd.Args().First()
	listing, err := store.InitialPageWebhooks(ctx, version)
	if err != nil {
		return fmt.Errorf("failed to list webhooks for %s: %w", store.Canonical(version), err)
	}

	opts := output.OptionsFromCommand(cmd)
	var raw []byte
	if opts.Format == output.FormatRaw {
		if raw, err = json.Marshal(listing); err != nil {
			return fmt.Errorf("failed to marshal listing: %w", err)
		}
	}

	return output.SliceDiceSpit(Writer(cmd), raw, lsRows(listing), lsColumns, opts)
}

// LsCommandBuilder constructs the cli.Command definition for "ls".
func LsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "ls",
		Usage:     "list webhook categories of a version",
		UsageText: "whctl ls [VERSION] [options]",
		MaxArgs:   1,
		Action:    LsCommandAction,
		Meta:      meta,
	}).Build()
}
