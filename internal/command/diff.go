// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/whctlgo/internal/differ"
	"github.com/staranto/whctlgo/internal/meta"
	"github.com/staranto/whctlgo/internal/output"
	"github.com/staranto/whctlgo/internal/webhooks"
)

// diffSide returns the JSON of category (or one action of it) in version, or
// nil when it is absent there.
func diffSide(ctx context.Context, store *webhooks.Store, version, category, action string) ([]byte, error) {
	c, ok, err := store.Webhook(ctx, version, category)
	if err != nil || !ok {
		return nil, err
	}
	if action == "" {
		return json.Marshal(c)
	}
	d, ok := c.Action(action)
	if !ok {
		return nil, nil
	}
	return json.Marshal(d)
}

// DiffCommandAction compares a category, or one action type, between two
// versions.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	store, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	left, right := cmd.Args().Get(0), cmd.Args().Get(1)
	category, action := cmd.Args().Get(2), cmd.Args().Get(3)

	subject := category
	if action != "" {
		subject += "." + action
	}

	a, err := diffSide(ctx, store, left, category, action)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", store.Canonical(left), err)
	}
	b, err := diffSide(ctx, store, right, category, action)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", store.Canonical(right), err)
	}

	if a == nil && b == nil {
		if action != "" {
			return fmt.Errorf("%w: %s in %s or %s", ErrActionNotFound, subject, store.Canonical(left), store.Canonical(right))
		}
		return fmt.Errorf("%w: %s in %s or %s", ErrCategoryNotFound, subject, store.Canonical(left), store.Canonical(right))
	}

	format := differ.Ascii
	if cmd.Bool("delta") {
		format = differ.Delta
	}

	res, err := differ.Compare(a, b,
		differ.WithFormat(format),
		differ.WithColor(cmd.Bool("color")),
		differ.WithArrayIndex(true),
	)
	if err != nil {
		return err
	}

	w := Writer(cmd)
	if !res.Modified {
		_, err = fmt.Fprintf(w, "%s: no differences between %s and %s\n", subject, store.Canonical(left), store.Canonical(right))
		return err
	}

	if format == differ.Ascii {
		fmt.Fprintf(w, "--- %s/%s\n+++ %s/%s\n", store.Canonical(left), subject, store.Canonical(right), subject)
	}
	_, err = fmt.Fprint(w, res.Text)
	return err
}

// DiffCommandBuilder constructs the cli.Command definition for "diff".
func DiffCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "diff",
		Usage:     "compare a webhook category between two versions",
		UsageText: "whctl diff VERSION_A VERSION_B CATEGORY [ACTION] [options]",
		MinArgs:   3,
		MaxArgs:   4,
		NoGlobals: true,
		Flags: []cli.Flag{
			&cli.BoolWithInverseFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "color additions and deletions",
				Value:   output.ColorDefault(),
			},
			&cli.BoolFlag{
				Name:  "delta",
				Usage: "print the JSON delta instead of the annotated document",
			},
		},
		Action: DiffCommandAction,
		Meta:   meta,
	}).Build()
}
