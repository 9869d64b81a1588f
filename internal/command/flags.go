// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/whctlgo/internal/output"
	"github.com/staranto/whctlgo/internal/webhooks"
)

func newTLDRFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewRootFlags returns the flags accepted before any subcommand. cfgPath is
// the config file feeding their defaults.
func NewRootFlags(cfgPath string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "version",
			Aliases:     []string{"v"},
			Usage:       "whctl version info",
			HideDefault: true,
		},
		&cli.StringFlag{
			Name:  "data-root",
			Usage: "directory (or key prefix) holding <version>/schema.json",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WHCTL_DATA_ROOT"),
				yaml.YAML("data.root", altsrc.StringSourcer(cfgPath)),
			),
			Value: webhooks.DefaultDataRoot,
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "where schemas are read from (file or s3)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WHCTL_SOURCE"),
				yaml.YAML("data.source", altsrc.StringSourcer(cfgPath)),
			),
			Value: "file",
			Validator: func(value string) error {
				return FlagValidators(value, SourceValidator)
			},
		},
		&cli.StringFlag{
			Name:  "failures",
			Usage: "failed loads are kept (cache) or retried on next use (retry)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WHCTL_CACHE_FAILURES"),
				yaml.YAML("cache.failures", altsrc.StringSourcer(cfgPath)),
			),
			Value: webhooks.CacheFailures.String(),
			Validator: func(value string) error {
				return FlagValidators(value, FailurePolicyValidator)
			},
		},
	}
}

// NewGlobalFlags returns the presentation flags shared by the query commands.
// Values chain env -> <ns>.<flag> -> <flag> in the config file at cfgPath.
func NewGlobalFlags(ns, cfgPath string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated key[:title[:transform]] columns to output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"attrs", altsrc.StringSourcer(cfgPath)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"color", altsrc.StringSourcer(cfgPath)),
				yaml.YAML("color", altsrc.StringSourcer(cfgPath)),
			),
			Value: output.ColorDefault(),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"output", altsrc.StringSourcer(cfgPath)),
				yaml.YAML("output", altsrc.StringSourcer(cfgPath)),
			),
			Value: output.FormatText,
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(cfgPath)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(cfgPath)),
				yaml.YAML("titles", altsrc.StringSourcer(cfgPath)),
			),
			Value: false,
		},
	}

	return
}

// pathHas reports whether target is on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
