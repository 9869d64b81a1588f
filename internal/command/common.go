// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/whctlgo/internal/apiversion"
	"github.com/staranto/whctlgo/internal/config"
	"github.com/staranto/whctlgo/internal/dataset"
	"github.com/staranto/whctlgo/internal/loader"
	"github.com/staranto/whctlgo/internal/meta"
	"github.com/staranto/whctlgo/internal/webhooks"
)

var (
	// ErrUsage reports wrong positional arguments.
	ErrUsage = errors.New("invalid usage")
	// ErrCategoryNotFound reports a category absent from a version.
	ErrCategoryNotFound = errors.New("webhook category not found")
	// ErrActionNotFound reports an action type absent from a category.
	ErrActionNotFound = errors.New("webhook action not found")
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr whctl-<subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "whctl-"+subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// Writer returns where command output goes.
func Writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// NewResolver builds the version resolver from the versions.* config keys.
func NewResolver() *apiversion.Resolver {
	var opts []apiversion.Option

	if v, err := config.GetString("versions.default"); err == nil {
		opts = append(opts, apiversion.WithDefault(v))
	}
	if v, err := config.GetString("versions.ghes_latest"); err == nil {
		opts = append(opts, apiversion.WithGHESLatest(v))
	}
	if aliases, err := config.GetStringMap("versions.aliases"); err == nil {
		opts = append(opts, apiversion.WithAliases(aliases))
	}
	if known, err := config.GetStringSlice("versions.known"); err == nil {
		opts = append(opts, apiversion.WithKnown(known...))
	}

	return apiversion.New(opts...)
}

// NewStore builds the webhook store for one invocation from the root flags
// and the config file.
func NewStore(ctx context.Context, cmd *cli.Command) (*webhooks.Store, error) {
	m := GetMeta(cmd)

	lcfg := loader.ConfigFromFile()
	if s := cmd.String("source"); s != "" {
		lcfg.Source = s
	}
	l, err := loader.New(ctx, lcfg)
	if err != nil {
		return nil, err
	}

	policy, err := webhooks.ParseFailurePolicy(cmd.String("failures"))
	if err != nil {
		return nil, err
	}

	opts := []webhooks.Option{webhooks.WithFailurePolicy(policy)}
	if root := cmd.String("data-root"); root != "" {
		opts = append(opts, webhooks.WithDataRoot(root))
	}
	if schema, err := config.GetString("data.schema"); err == nil && schema != "" {
		opts = append(opts, webhooks.WithSchemaFilename(schema))
	}

	versions := m.Versions
	if versions == nil {
		versions = NewResolver()
	}

	log.Debugf("store: source=%s root=%s policy=%s default=%s", lcfg.Source, cmd.String("data-root"), policy, versions.Default())
	return webhooks.New(versions, l, opts...), nil
}

// LookupCategory returns category of version or ErrCategoryNotFound.
func LookupCategory(ctx context.Context, store *webhooks.Store, version, category string) (*dataset.Category, error) {
	c, ok, err := store.Webhook(ctx, version, category)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrCategoryNotFound, category, store.Canonical(version))
	}
	return c, nil
}

// LookupAction returns one action type of a category or ErrActionNotFound.
func LookupAction(c *dataset.Category, action string) (dataset.Detail, error) {
	d, ok := c.Action(action)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s (have %v)", ErrActionNotFound, c.Name(), action, c.ActionTypes())
	}
	return d, nil
}

// QueryCommandBuilder constructs the query subcommands using a consistent
// pattern: metadata, tldr flag, global flags and an argument count check.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	MinArgs   int
	MaxArgs   int
	Flags     []cli.Flag
	NoGlobals bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{newTLDRFlag()}, qcb.Flags...)
	if !qcb.NoGlobals {
		flags = append(flags, NewGlobalFlags(qcb.Name, qcb.Meta.Config.Source)...)
	}

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("tldr") {
				return ctx, nil
			}
			return ctx, ArgCountValidator(c, qcb.MinArgs, qcb.MaxArgs)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log.Debugf("executing %s %v", qcb.Name, c.Args().Slice())
			if ShortCircuitTLDR(ctx, c, qcb.Name) {
				return nil
			}
			return qcb.Action(ctx, c)
		},
	}
}
