// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/whctlgo/internal/dataset"
	"github.com/staranto/whctlgo/internal/meta"
	"github.com/staranto/whctlgo/internal/output"
)

var getColumns = []string{"action", "params", "nested", "summary"}

// getRows turns a category into one row per action type.
func getRows(c *dataset.Category) []map[string]any {
	rows := make([]map[string]any, 0, c.Len())
	for _, action := range c.ActionTypes() {
		d, _ := c.Action(action)
		params, _ := d.BodyParameters()

		nested := 0
		for _, p := range params {
			if m, ok := p.(map[string]any); ok && m[dataset.ChildParamsGroupsKey] != nil {
				nested++
			}
		}

		summary, _ := d["summaryHtml"].(string)
		rows = append(rows, map[string]any{
			"action":  action,
			"params":  len(params),
			"nested":  nested,
			"summary": summary,
		})
	}
	return rows
}

// GetCommandAction shows one category, or one action type of it.
func GetCommandAction(ctx context.Context, cmd *cli.Command) error {
	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	version, category, action := cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)

	c, err := LookupCategory(ctx, store, version, category)
	if err != nil {
		return err
	}

	opts := output.OptionsFromCommand(cmd)

	if action != "" {
		d, err := LookupAction(c, action)
		if err != nil {
			return err
		}
		return output.EmitDocument(Writer(cmd), d, opts.Format)
	}

	var raw []byte
	if opts.Format == output.FormatRaw {
		if raw, err = json.Marshal(c); err != nil {
			return fmt.Errorf("failed to marshal %s: %w", category, err)
		}
	}
	return output.SliceDiceSpit(Writer(cmd), raw, getRows(c), getColumns, opts)
}

// GetCommandBuilder constructs the cli.Command definition for "get".
func GetCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "get",
		Usage:     "show the action types of a webhook category",
		UsageText: "whctl get VERSION CATEGORY [ACTION] [options]",
		MinArgs:   2,
		MaxArgs:   3,
		Action:    GetCommandAction,
		Meta:      meta,
	}).Build()
}
