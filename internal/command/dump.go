// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/whctlgo/internal/dataset"
	"github.com/staranto/whctlgo/internal/meta"
	"github.com/staranto/whctlgo/internal/output"
)

var statsColumns = []string{"category", "actions", "params"}

// statsRows counts action types and body parameters per category.
func statsRows(ds *dataset.Dataset) (rows []map[string]any, actions, params int) {
	rows = make([]map[string]any, 0, ds.Len())
	for _, c := range ds.Categories() {
		n := 0
		for _, a := range c.ActionTypes() {
			d, _ := c.Action(a)
			p, _ := d.BodyParameters()
			n += len(p)
		}
		rows = append(rows, map[string]any{
			"category": c.Name(),
			"actions":  c.Len(),
			"params":   n,
		})
		actions += c.Len()
		params += n
	}
	return rows, actions, params
}

// DumpCommandAction prints the whole dataset of a version, or its statistics
// with --stats.
func DumpCommandAction(ctx context.Context, cmd *cli.Command) error {
	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	version := cmd.Args().First()
	ds, err := store.Webhooks(ctx, version)
	if err != nil {
		return fmt.Errorf("failed to load webhooks for %s: %w", store.Canonical(version), err)
	}

	opts := output.OptionsFromCommand(cmd)
	w := Writer(cmd)

	if !cmd.Bool("stats") {
		return output.EmitDocument(w, ds, opts.Format)
	}

	rows, actions, params := statsRows(ds)
	if err := output.SliceDiceSpit(w, nil, rows, statsColumns, opts); err != nil {
		return err
	}
	if opts.Format == output.FormatText {
		_, err = fmt.Fprintf(w, "%s: %s categories, %s actions, %s body parameters\n",
			store.Canonical(version),
			humanize.Comma(int64(ds.Len())),
			humanize.Comma(int64(actions)),
			humanize.Comma(int64(params)))
	}
	return err
}

// DumpCommandBuilder constructs the cli.Command definition for "dump".
func DumpCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "dump",
		Usage:     "print the full webhook schema of a version",
		UsageText: "whctl dump [VERSION] [options]",
		MaxArgs:   1,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "print per-category counts instead of the schema",
			},
		},
		Action: DumpCommandAction,
		Meta:   meta,
	}).Build()
}
