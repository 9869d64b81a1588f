// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/whctlgo/internal/cacheutil"
	"github.com/staranto/whctlgo/internal/command"
	"github.com/staranto/whctlgo/internal/config"
	mylog "github.com/staranto/whctlgo/internal/log"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version)
			return 0
		}
	}

	// Best-effort: pre-create the cache directory and drop stale entries.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	} else if ok {
		hours, _ := config.GetInt("cache.clean", 0)
		if err := cacheutil.Purge(hours); err != nil {
			log.WithError(err).Debug("cache purge failed")
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands a named argument set from the config file into the
// command line. "@name" after the command picks <command>.name; without one,
// <command>.defaults is used. The set is inserted where the @name was, or
// right after the command.
func mangleArguments(args []string) []string {
	// Root flags may precede the command.
	cmdIdx := 1
	for cmdIdx < len(args) && strings.HasPrefix(args[cmdIdx], "-") {
		if !strings.Contains(args[cmdIdx], "=") && takesValue(args[cmdIdx]) {
			cmdIdx++
		}
		cmdIdx++
	}
	if cmdIdx >= len(args) {
		return args
	}

	// Short-circuit for --help/-h.
	for _, a := range args[cmdIdx+1:] {
		if a == "--help" || a == "-h" {
			return append(append([]string{}, args[:cmdIdx+1]...), "--help")
		}
	}

	out := append([]string{}, args[:cmdIdx+1]...)
	rest := args[cmdIdx+1:]

	idx := len(out)
	set := "defaults"
	for i, a := range rest {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			out = append(out, rest[:i]...)
			idx = len(out)
			rest = rest[i+1:]
			break
		}
	}

	setArgs, _ := config.GetStringSlice(args[cmdIdx] + "." + set)
	for _, arg := range setArgs {
		out = append(out, strings.Fields(arg)...)
	}
	out = append(out, rest...)

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, out)
	return out
}

// takesValue reports whether a root flag consumes the next argument.
func takesValue(flag string) bool {
	switch strings.TrimLeft(flag, "-") {
	case "data-root", "source", "failures":
		return true
	}
	return false
}
